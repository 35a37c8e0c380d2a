package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StockSentinel/internal/api"
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/ledger"
	"StockSentinel/internal/logger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/scheduler"

	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logger.New(logger.Config{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("config", cfgPath).Msg("StockSentinel starting")

	// Data source
	gateway := newGateway(cfg, log)
	log.Info().Str("provider", gateway.Name()).Msg("data source ready")

	engine := calculator.NewEngine(log)
	col := collector.NewCollector(gateway, engine, cfg.DataSource.FetchTimeout)
	analysisPeriod, _ := model.ParsePeriod(cfg.DataSource.Period)
	scanPeriod, _ := model.ParsePeriod(cfg.Scan.Period)

	universe := scanner.DefaultUniverse()
	if len(cfg.Universe) > 0 {
		universe = scanner.NewUniverse(cfg.Universe)
	}
	scanCollector := collector.NewCollector(gateway, engine, cfg.Scan.SymbolTimeout)
	sc := scanner.New(scanCollector, universe, scanner.Options{Workers: cfg.Scan.Workers, Period: scanPeriod}, log)
	log.Info().Int("symbols", universe.Len()).Msg("universe loaded")

	// Ledger
	book, err := ledger.New(ledger.NewFileStore(cfg.Ledger.File), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init ledger")
	}
	prices := &collector.GatewayPrices{
		Gateway: gateway,
		Workers: cfg.Scan.Workers,
		Timeout: cfg.Scan.SymbolTimeout,
		Log:     log,
	}

	// Recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			log.Warn().Err(err).Msg("create database directory")
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Chat digests and commands
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.BaseURL, cfg.Proxy, log)
		sched := scheduler.NewScheduler(ctx, scheduler.Deps{
			Scanner:   sc,
			Collector: col,
			Ledger:    book,
			Prices:    prices,
			Notifier:  tn,
			Recorder:  rec,
			Period:    analysisPeriod,
			Limit:     cfg.Scan.Limit,
		}, log)
		if err := sched.RegisterAll(cfg.Scan.MomentumCron, cfg.Scan.BreakoutCron, cfg.Scan.ReboundCron); err != nil {
			log.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, running every scan now")
			go sched.RunAllNow()
		}
	} else {
		log.Info().Msg("telegram not configured, scheduled digests disabled")
	}

	// HTTP
	handler := api.NewHandler(col, sc, book, prices, rec, log)
	handler.Period = analysisPeriod
	handler.Limit = cfg.Scan.Limit
	srv := api.NewServer(api.ServerConfig{
		Addr:           cfg.HTTP.Addr,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
	}, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info().Msg("StockSentinel is running. Press Ctrl+C to stop.")
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("StockSentinel stopped")
}

func newGateway(cfg *config.Config, log zerolog.Logger) collector.Gateway {
	ds := cfg.DataSource
	switch ds.Provider {
	case "vstrader":
		return collector.NewVsTraderGateway(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.FetchTimeout)
	case "mock":
		return &collector.MockGateway{Price: ds.MockBasePrice}
	default:
		return collector.NewYahooGateway(ds.ChartURL, ds.SummaryURL, cfg.Proxy, ds.FetchTimeout, log)
	}
}
