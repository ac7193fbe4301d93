package holdings

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fundwatch/fundwatch/internal/cache"
	"github.com/fundwatch/fundwatch/internal/clients/edgar"
	"github.com/fundwatch/fundwatch/internal/config"
)

// Service aggregates 13F filings into quarter snapshots. It is the only
// writer of snapshots; the EDGAR client and cache are injected.
type Service struct {
	client *edgar.Client
	cache  *cache.Cache
	ttl    time.Duration
	funds  []config.Fund
	log    zerolog.Logger
}

// NewService creates the aggregation service.
func NewService(client *edgar.Client, c *cache.Cache, ttl time.Duration, funds []config.Fund, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  c,
		ttl:    ttl,
		funds:  funds,
		log:    log.With().Str("service", "holdings").Logger(),
	}
}

// Funds returns the configured fund registry.
func (s *Service) Funds() []config.Fund {
	return s.funds
}

// FundByShortName looks up a tracked fund by short name, case-insensitively.
func (s *Service) FundByShortName(short string) (config.Fund, bool) {
	for _, f := range s.funds {
		if strings.EqualFold(f.ShortName, short) {
			return f, true
		}
	}
	return config.Fund{}, false
}

// FetchFundHoldings returns up to numQuarters snapshots for one fund, newest
// first. Filings whose information table cannot be located or parsed are
// skipped; partial results always beat total failure. An error listing the
// filings themselves is fatal for this fund, since no partial result is
// meaningful without knowing which filings exist.
func (s *Service) FetchFundHoldings(fund config.Fund, numQuarters int) ([]QuarterSnapshot, error) {
	key := fmt.Sprintf("fund:%s:%d", fund.CIK, numQuarters)
	v, err := s.cache.GetOrCompute(key, s.ttl, func() (interface{}, error) {
		return s.buildSnapshots(fund, numQuarters)
	})
	if err != nil {
		return nil, err
	}
	return v.([]QuarterSnapshot), nil
}

func (s *Service) buildSnapshots(fund config.Fund, numQuarters int) ([]QuarterSnapshot, error) {
	filings, err := s.listFilings(fund.CIK, numQuarters)
	if err != nil {
		return nil, fmt.Errorf("list filings for %s: %w", fund.Name, err)
	}

	snapshots := make([]QuarterSnapshot, 0, len(filings))
	for _, filing := range filings {
		parsed, err := s.filingHoldings(fund.CIK, filing.Accession)
		if err != nil {
			// Per-filing failures are absorbed: the filing contributes
			// nothing, the rest of the quarters still aggregate.
			s.log.Warn().Err(err).
				Str("fund", fund.Name).
				Str("accession", filing.Accession).
				Msg("Skipping filing")
			continue
		}
		if len(parsed) == 0 {
			continue
		}
		snapshots = append(snapshots, NewSnapshot(fund.Name, filing, parsed))
	}

	return snapshots, nil
}

// listFilings memoizes the filing index lookup per (CIK, count).
func (s *Service) listFilings(cik string, max int) ([]edgar.Filing, error) {
	key := fmt.Sprintf("filings:%s:%d", cik, max)
	v, err := s.cache.GetOrCompute(key, s.ttl, func() (interface{}, error) {
		return s.client.ListFilings(cik, max)
	})
	if err != nil {
		return nil, err
	}
	return v.([]edgar.Filing), nil
}

// filingHoldings memoizes locate-plus-parse per accession.
func (s *Service) filingHoldings(cik, accession string) ([]edgar.Holding, error) {
	key := fmt.Sprintf("infotable:%s:%s", cik, accession)
	v, err := s.cache.GetOrCompute(key, s.ttl, func() (interface{}, error) {
		url, err := s.client.LocateInfoTable(cik, accession)
		if err != nil {
			return nil, err
		}
		return s.client.ParseInfoTable(url)
	})
	if err != nil {
		return nil, err
	}
	return v.([]edgar.Holding), nil
}

// FetchAllFunds fans out over the configured funds. Each fund's failure is
// isolated and reported in the returned map; the batch never aborts.
func (s *Service) FetchAllFunds(numQuarters int) ([]QuarterSnapshot, map[string]error) {
	var all []QuarterSnapshot
	failures := make(map[string]error)

	for _, fund := range s.funds {
		snapshots, err := s.FetchFundHoldings(fund, numQuarters)
		if err != nil {
			s.log.Warn().Err(err).Str("fund", fund.Name).Msg("Fund fetch failed")
			failures[fund.Name] = err
			continue
		}
		all = append(all, snapshots...)
	}

	return all, failures
}
