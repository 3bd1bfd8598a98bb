package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"MarketBriefing/internal/briefing"
	"MarketBriefing/internal/collector"
	"MarketBriefing/internal/config"
	"MarketBriefing/internal/logger"
	"MarketBriefing/internal/notifier"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	dryRun := flag.Bool("dry-run", false, "print the report instead of emailing it")
	jsonOut := flag.Bool("json", false, "with -dry-run, print the report as JSON")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	runner, err := briefing.New(cfg, briefing.Options{DryRun: *dryRun, JSON: *jsonOut, Out: os.Stdout}, log)
	if err != nil {
		log.Error("configuration error, no email sent", zap.Error(err))
		return 1
	}
	log.Info("starting market briefing",
		zap.String("provider", cfg.DataSource.Provider),
		zap.Int("lookback", cfg.DataSource.Lookback),
		zap.Int("top_k", cfg.Report.TopK))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		log.Error("briefing run failed", zap.String("stage", stage(err)), zap.Error(err))
		return 1
	}
	return 0
}

// stage names the part of the run an error came from, for the operator log.
func stage(err error) string {
	var (
		cerr *config.ConfigError
		rerr *collector.RetrievalError
		derr *notifier.DeliveryError
	)
	switch {
	case errors.As(err, &cerr):
		return "configuration"
	case errors.As(err, &rerr):
		return "retrieval"
	case errors.As(err, &derr):
		return "delivery"
	case errors.Is(err, collector.ErrEmptyUniverse):
		return "universe"
	default:
		return "render"
	}
}
