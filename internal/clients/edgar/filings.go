package edgar

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filing is one regulatory submission as listed in a CIK's submissions
// document. Immutable once produced.
type Filing struct {
	Accession  string `json:"accession"`
	Form       string `json:"form"`
	FilingDate string `json:"filing_date"` // YYYY-MM-DD
	ReportDate string `json:"report_date"` // quarter-end the holdings reflect
}

// submissionsDoc mirrors the parallel-array layout of
// https://data.sec.gov/submissions/CIK##########.json
type submissionsDoc struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
		} `json:"recent"`
	} `json:"filings"`
}

// ListFilings returns up to max of the most recent filings for cik whose form
// matches the client's form type or its amendment variant ("/A"). The
// submissions document is newest-first, and that order is preserved. Fewer
// than max matches is not an error.
func (c *Client) ListFilings(cik string, max int) ([]Filing, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, padCIK(cik))

	body, err := c.Fetch(url)
	if err != nil {
		return nil, err
	}

	var doc submissionsDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	recent := doc.Filings.Recent
	amended := c.formType + "/A"

	var filings []Filing
	for i, form := range recent.Form {
		if form != c.formType && form != amended {
			continue
		}
		if len(filings) >= max {
			break
		}
		f := Filing{Form: form}
		if i < len(recent.AccessionNumber) {
			f.Accession = recent.AccessionNumber[i]
		}
		if i < len(recent.FilingDate) {
			f.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.ReportDate) {
			f.ReportDate = recent.ReportDate[i]
		}
		filings = append(filings, f)
	}

	c.log.Debug().Str("cik", cik).Int("filings", len(filings)).Msg("Listed filings")
	return filings, nil
}

// padCIK zero-pads a CIK to the 10 digits the submissions endpoint expects.
func padCIK(cik string) string {
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// trimCIK strips leading zeros for the archives tree, which uses the bare id.
func trimCIK(cik string) string {
	trimmed := strings.TrimLeft(cik, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
