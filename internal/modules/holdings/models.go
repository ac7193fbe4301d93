package holdings

import (
	"fmt"
	"math"
	"time"

	"github.com/fundwatch/fundwatch/internal/clients/edgar"
)

// Position is one holding annotated with its share of the snapshot's total
// value.
type Position struct {
	edgar.Holding
	PctOfPortfolio float64 `json:"pct_portfolio"`
}

// QuarterSnapshot is the full set of holdings disclosed by one fund for one
// report date. Built once per (fund, report date) pair and never mutated;
// a refreshed snapshot replaces the cache entry wholesale.
type QuarterSnapshot struct {
	Fund       string     `json:"fund"`
	Quarter    string     `json:"quarter"`
	ReportDate string     `json:"report_date"`
	FilingDate string     `json:"filing_date"`
	Accession  string     `json:"accession"`
	Form       string     `json:"form"`
	TotalValue int64      `json:"total_value"`
	Positions  []Position `json:"holdings"`
}

// QuarterLabel derives the "Q{1..4} {year}" label from a YYYY-MM-DD report
// date. Returns "" for unparseable dates.
func QuarterLabel(reportDate string) string {
	t, err := time.Parse("2006-01-02", reportDate)
	if err != nil {
		return ""
	}
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}

// NewSnapshot assembles a snapshot from parsed holdings, computing the total
// and each position's portfolio percentage (rounded to 2 decimals, 0 when
// the total is 0).
func NewSnapshot(fundName string, filing edgar.Filing, parsed []edgar.Holding) QuarterSnapshot {
	var total int64
	for _, h := range parsed {
		total += h.ValueUSD
	}

	positions := make([]Position, 0, len(parsed))
	for _, h := range parsed {
		pct := 0.0
		if total > 0 {
			pct = round2(float64(h.ValueUSD) / float64(total) * 100)
		}
		positions = append(positions, Position{Holding: h, PctOfPortfolio: pct})
	}

	return QuarterSnapshot{
		Fund:       fundName,
		Quarter:    QuarterLabel(filing.ReportDate),
		ReportDate: filing.ReportDate,
		FilingDate: filing.FilingDate,
		Accession:  filing.Accession,
		Form:       filing.Form,
		TotalValue: total,
		Positions:  positions,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatValue renders a dollar amount for display: $x.xB above one billion,
// $xxxM otherwise.
func FormatValue(v int64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("$%.1fB", float64(v)/1e9)
	}
	return fmt.Sprintf("$%.0fM", float64(v)/1e6)
}
