package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundwatch/fundwatch/internal/cache"
	"github.com/fundwatch/fundwatch/internal/clients/edgar"
	"github.com/fundwatch/fundwatch/internal/config"
	"github.com/fundwatch/fundwatch/internal/database"
	"github.com/fundwatch/fundwatch/internal/modules/holdings"
	holdingsjobs "github.com/fundwatch/fundwatch/internal/modules/holdings/jobs"
	"github.com/fundwatch/fundwatch/internal/modules/news"
	newsjobs "github.com/fundwatch/fundwatch/internal/modules/news/jobs"
	"github.com/fundwatch/fundwatch/internal/scheduler"
	"github.com/fundwatch/fundwatch/internal/server"
	"github.com/fundwatch/fundwatch/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from the start
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting FundWatch")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Shared in-memory cache, one per process
	store := cache.New()

	// EDGAR client: all outbound filing traffic goes through its rate gate
	edgarClient := edgar.NewClient(cfg.EdgarUserAgent, log, edgar.Options{
		MinFetchGap:    cfg.MinFetchGap,
		RequestTimeout: cfg.RequestTimeout,
		FormType:       cfg.EdgarFormType,
	})

	// Holdings aggregation
	holdingsService := holdings.NewService(edgarClient, store, cfg.CacheTTL, cfg.Funds, log)
	holdingsHandler := holdings.NewHandler(holdingsService, cfg.DefaultQuarters, log)

	// News tracking
	newsFetcher := news.NewFetcher(log)
	newsAnalyzer := news.NewAnalyzer(news.DefaultTopics, news.MinRelevanceScore)
	newsRepo := news.NewRepository(db.Conn(), log)
	newsSync := newsjobs.NewSyncJob(newsFetcher, newsAnalyzer, newsRepo, news.DefaultFeeds, log)
	newsHandler := news.NewHandler(newsRepo, newsSync, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.NewsSchedule, newsSync); err != nil {
		log.Fatal().Err(err).Msg("Failed to register news sync job")
	}
	refreshJob := holdingsjobs.NewRefreshJob(holdingsService, cfg.DefaultQuarters, log)
	if err := sched.AddJob("@every 1h", refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register holdings refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Cache:    store,
		Holdings: holdingsHandler,
		News:     newsHandler,
		DevMode:  cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
