package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/crosslink/config"
	"github.com/alejandrodnm/crosslink/internal/adapters/notify"
	"github.com/alejandrodnm/crosslink/internal/adapters/storage"
	"github.com/alejandrodnm/crosslink/internal/adapters/venues"
	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/match"
	"github.com/alejandrodnm/crosslink/internal/pipeline"
	"github.com/alejandrodnm/crosslink/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one matching cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full step table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("crosslink starting",
		"config", *configPath,
		"interval", cfg.MatchInterval(),
		"once", *once,
		"algo_version", domain.AlgoVersion,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	providers := []ports.MarketProvider{
		venues.NewKalshi(cfg.API.KalshiBase),
		venues.NewPolymarket(cfg.API.GammaBase),
	}
	notifier := notify.NewConsole(*table)

	pl := pipeline.New(pipelineConfig(cfg), providers, store, store, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		report := runCycle(ctx, pl, store)
		if report.Failed() {
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(cfg.MatchInterval())
	defer ticker.Stop()

	runCycle(ctx, pl, store)
	for {
		select {
		case <-ctx.Done():
			slog.Info("crosslink stopped cleanly")
			return
		case <-ticker.C:
			runCycle(ctx, pl, store)
		}
	}
}

// runCycle ejecuta un run del pipeline y lo persiste en la tabla de runs.
func runCycle(ctx context.Context, pl *pipeline.Pipeline, store *storage.SQLiteStorage) domain.RunReport {
	report, err := pl.Run(ctx)
	if err != nil {
		slog.Error("pipeline run error", "err", err)
	}
	if err := store.SaveRun(ctx, report); err != nil {
		slog.Warn("failed to persist run", "run_id", report.ID, "err", err)
	}
	return report
}

// pipelineConfig traduce la config de archivo a la del pipeline; los
// overrides por topic del YAML se aplican sobre los defaults del engine.
func pipelineConfig(cfg *config.Config) pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.CloseWindow = cfg.CloseWindow()
	pc.AllowAdjacent = *cfg.Matcher.AllowAdjacent
	pc.MinSuggestScore = cfg.Matcher.MinSuggestScore
	pc.BracketStrategy = cfg.Matcher.BracketStrategy
	pc.BracketLimits = match.GroupingLimits{
		MaxGroupsPerLeft: cfg.Matcher.MaxGroupsPerLeft,
		MaxLinesPerGroup: cfg.Matcher.MaxLinesPerGroup,
	}
	pc.StaleAfter = cfg.StaleAfter()

	pc.Safe.TextFloor = cfg.Rules.SafeTextFloor
	for topic, min := range cfg.Rules.SafeMinScore {
		pc.Safe.MinScore[domain.Topic(topic)] = min
	}
	pc.Reject.TextFloor = cfg.Rules.RejectTextFloor
	pc.Reject.MinAge = time.Duration(cfg.Rules.RejectMinAgeH) * time.Hour
	for topic, floor := range cfg.Rules.RejectFloor {
		pc.Reject.ScoreFloor[domain.Topic(topic)] = floor
	}

	pc.Watchlist.TopSuggestedScore = cfg.Watchlist.TopSuggestedScore
	pc.Watchlist.TopSuggestedCap = cfg.Watchlist.TopSuggestedCap
	pc.Watchlist.MaxEntries = cfg.Watchlist.MaxEntries
	pc.Watchlist.MaxPerVenue = cfg.Watchlist.MaxPerVenue

	return pc
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
