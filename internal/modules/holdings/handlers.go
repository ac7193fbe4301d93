package holdings

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fundwatch/fundwatch/internal/config"
)

// Handler handles fund holdings HTTP requests
type Handler struct {
	service         *Service
	defaultQuarters int
	log             zerolog.Logger
}

// NewHandler creates a new holdings handler
func NewHandler(service *Service, defaultQuarters int, log zerolog.Logger) *Handler {
	return &Handler{
		service:         service,
		defaultQuarters: defaultQuarters,
		log:             log.With().Str("handler", "holdings").Logger(),
	}
}

// RegisterRoutes mounts the holdings endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/funds", h.HandleListFunds)
	r.Get("/funds/{short}", h.HandleGetFund)
	r.Get("/funds/{short}/quarters", h.HandleGetFundQuarters)
}

// fundSummary is the per-fund block of the overview payload.
type fundSummary struct {
	Name              string     `json:"name"`
	ShortName         string     `json:"short_name"`
	Style             string     `json:"style"`
	Description       string     `json:"description"`
	Quarter           string     `json:"quarter"`
	Source            string     `json:"source"` // "live" or "sample"
	TotalValue        int64      `json:"total_value"`
	TotalValueFmt     string     `json:"total_value_fmt"`
	NumPositions      int        `json:"num_positions"`
	Top5Concentration float64    `json:"top5_concentration"`
	TopHoldings       []Position `json:"top_holdings"`
	Error             string     `json:"error,omitempty"`
}

// HandleOverview returns the latest quarter snapshot summary for every fund.
// Funds without live data degrade to the bundled sample dataset.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	summaries := make([]fundSummary, 0, len(h.service.Funds()))

	for _, fund := range h.service.Funds() {
		snapshots, source, fetchErr := h.fundSnapshots(fund, h.defaultQuarters)

		summary := fundSummary{
			Name:        fund.Name,
			ShortName:   fund.ShortName,
			Style:       fund.Style,
			Description: fund.Description,
			Source:      source,
		}
		if fetchErr != nil {
			summary.Error = fetchErr.Error()
		}
		if len(snapshots) > 0 {
			latest := snapshots[0]
			summary.Quarter = latest.Quarter
			summary.TotalValue = latest.TotalValue
			summary.TotalValueFmt = FormatValue(latest.TotalValue)
			summary.NumPositions = len(latest.Positions)
			top := topByValue(latest.Positions, 5)
			summary.TopHoldings = top
			for _, p := range top {
				summary.Top5Concentration = round2(summary.Top5Concentration + p.PctOfPortfolio)
			}
		}
		summaries = append(summaries, summary)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"funds": summaries,
	})
}

// HandleListFunds returns the configured fund registry.
func (h *Handler) HandleListFunds(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Funds())
}

// HandleGetFund returns the latest snapshot for one fund, holdings sorted by
// value descending.
func (h *Handler) HandleGetFund(w http.ResponseWriter, r *http.Request) {
	fund, ok := h.lookupFund(w, r)
	if !ok {
		return
	}

	snapshots, source, fetchErr := h.fundSnapshots(fund, h.defaultQuarters)
	if len(snapshots) == 0 {
		msg := "no data for fund"
		if fetchErr != nil {
			msg = fetchErr.Error()
		}
		h.writeError(w, http.StatusNotFound, msg)
		return
	}

	latest := snapshots[0]
	positions := topByValue(latest.Positions, len(latest.Positions))

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"fund":        fund,
		"quarter":     latest.Quarter,
		"report_date": latest.ReportDate,
		"source":      source,
		"total_value": latest.TotalValue,
		"holdings":    positions,
	})
}

// HandleGetFundQuarters returns per-quarter snapshots for one fund. The
// quarters query parameter bounds how many are fetched.
func (h *Handler) HandleGetFundQuarters(w http.ResponseWriter, r *http.Request) {
	fund, ok := h.lookupFund(w, r)
	if !ok {
		return
	}

	quarters := h.defaultQuarters
	if raw := r.URL.Query().Get("quarters"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "quarters must be a positive integer")
			return
		}
		quarters = n
	}

	snapshots, source, fetchErr := h.fundSnapshots(fund, quarters)
	if len(snapshots) == 0 {
		msg := "no data for fund"
		if fetchErr != nil {
			msg = fetchErr.Error()
		}
		h.writeError(w, http.StatusNotFound, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"fund":      fund,
		"source":    source,
		"snapshots": snapshots,
	})
}

// fundSnapshots fetches live snapshots and degrades to the sample dataset
// when the engine reports no data. The engine's error is kept for the
// payload so callers can see why live data was unavailable.
func (h *Handler) fundSnapshots(fund config.Fund, quarters int) ([]QuarterSnapshot, string, error) {
	snapshots, err := h.service.FetchFundHoldings(fund, quarters)
	if err == nil && len(snapshots) > 0 {
		return snapshots, "live", nil
	}
	if err != nil {
		h.log.Warn().Err(err).Str("fund", fund.Name).Msg("Falling back to sample data")
	}
	return SampleSnapshots(fund.Name), "sample", err
}

func (h *Handler) lookupFund(w http.ResponseWriter, r *http.Request) (config.Fund, bool) {
	short := chi.URLParam(r, "short")
	fund, ok := h.service.FundByShortName(short)
	if !ok {
		h.writeError(w, http.StatusNotFound, "fund not found")
		return config.Fund{}, false
	}
	return fund, true
}

// topByValue returns up to n positions sorted by value descending, without
// mutating the snapshot.
func topByValue(positions []Position, n int) []Position {
	sorted := make([]Position, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ValueUSD > sorted[j].ValueUSD
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
