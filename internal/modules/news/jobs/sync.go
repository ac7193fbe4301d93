package jobs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fundwatch/fundwatch/internal/modules/news"
)

// SyncJob runs one fetch, classify and store cycle across all configured
// feeds. Articles that match no topic above the threshold are discarded.
type SyncJob struct {
	fetcher  *news.Fetcher
	analyzer *news.Analyzer
	repo     *news.Repository
	feeds    []news.Feed
	log      zerolog.Logger
}

// NewSyncJob creates a news sync job
func NewSyncJob(
	fetcher *news.Fetcher,
	analyzer *news.Analyzer,
	repo *news.Repository,
	feeds []news.Feed,
	log zerolog.Logger,
) *SyncJob {
	return &SyncJob{
		fetcher:  fetcher,
		analyzer: analyzer,
		repo:     repo,
		feeds:    feeds,
		log:      log.With().Str("job", "news_sync").Logger(),
	}
}

// Name implements scheduler.Job
func (j *SyncJob) Name() string {
	return "news_sync"
}

// Run implements scheduler.Job
func (j *SyncJob) Run() error {
	articles := j.fetcher.FetchAll(j.feeds)

	stored := 0
	var firstErr error
	for _, article := range articles {
		scores := j.analyzer.Classify(article)
		if len(scores) == 0 {
			continue
		}
		if err := j.repo.UpsertArticle(article, scores); err != nil {
			j.log.Error().Err(err).Str("article", article.ID).Msg("Failed to store article")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored++
	}

	j.log.Info().
		Int("fetched", len(articles)).
		Int("stored", stored).
		Msg("News sync complete")

	if firstErr != nil {
		return fmt.Errorf("news sync stored %d/%d articles: %w", stored, len(articles), firstErr)
	}
	return nil
}
