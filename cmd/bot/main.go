package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/config"
	"SMCSentinel/internal/logging"
	"SMCSentinel/internal/notifier"
	"SMCSentinel/internal/recorder"
	"SMCSentinel/internal/scheduler"
)

func main() {
	bootLog := logging.New("smc-sentinel", "info", "json")

	if err := config.LoadDotEnv(".env"); err != nil {
		bootLog.Warn().Err(err).Msg("ignoring .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		bootLog.Fatal().Err(err).Msg("config validation")
	}

	logger := logging.New("smc-sentinel", cfg.Log.Level, cfg.Log.Format)
	logger.Info().Str("config", cfgPath).Msg("SMCSentinel starting")

	fetcher := newFetcher(cfg, logger)
	logger.Info().Str("provider", fetcher.Name()).Str("interval", cfg.DataSource.Interval).
		Int("bars", cfg.DataSource.Bars).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.Interval, cfg.DataSource.Bars, cfg.SMC, logger)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init telegram notifier")
	}

	sched := scheduler.NewScheduler(ctx, col, tn, rec, cfg.DataSource.Symbols, logger)
	if err := sched.RestoreSignals(); err != nil {
		logger.Warn().Err(err).Msg("starting without signal history")
	}
	if err := sched.Register(cfg.Schedule.AnalysisCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, running analysis now")
		go sched.RunNow()
	}

	logger.Info().Strs("symbols", cfg.DataSource.Symbols).Msg("SMCSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping")
}

func newFetcher(cfg *config.Config, logger zerolog.Logger) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderVsTrader:
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		logger.Warn().Msg("using mock data source")
		return &collector.MockFetcher{Seed: 1}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}
