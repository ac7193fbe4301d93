package jobs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fundwatch/fundwatch/internal/modules/holdings"
)

// RefreshJob warms the holdings cache on a schedule so dashboard requests
// rarely pay for live EDGAR round-trips.
type RefreshJob struct {
	service  *holdings.Service
	quarters int
	log      zerolog.Logger
}

// NewRefreshJob creates a holdings refresh job
func NewRefreshJob(service *holdings.Service, quarters int, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service:  service,
		quarters: quarters,
		log:      log.With().Str("job", "holdings_refresh").Logger(),
	}
}

// Name implements scheduler.Job
func (j *RefreshJob) Name() string {
	return "holdings_refresh"
}

// Run implements scheduler.Job
func (j *RefreshJob) Run() error {
	snapshots, failures := j.service.FetchAllFunds(j.quarters)

	j.log.Info().
		Int("snapshots", len(snapshots)).
		Int("failed_funds", len(failures)).
		Msg("Holdings refresh complete")

	if len(failures) > 0 {
		for fund, err := range failures {
			j.log.Warn().Err(err).Str("fund", fund).Msg("Fund refresh failed")
		}
		return fmt.Errorf("holdings refresh: %d fund(s) failed", len(failures))
	}
	return nil
}
