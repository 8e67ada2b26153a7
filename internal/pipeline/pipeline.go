package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/match"
	"github.com/alejandrodnm/crosslink/internal/ports"
	"github.com/alejandrodnm/crosslink/internal/rules"
	"github.com/alejandrodnm/crosslink/internal/watchlist"
)

// Config contiene la configuración del pipeline.
type Config struct {
	// CloseWindow acota la ingesta a mercados que cierran dentro de la
	// ventana. Mercados a meses vista no aportan señal todavía.
	CloseWindow time.Duration
	// AllowAdjacent habilita la búsqueda en buckets vecinos del índice.
	AllowAdjacent bool
	// MinSuggestScore descarta pares puntuados por debajo antes de
	// persistir nada.
	MinSuggestScore float64

	BracketStrategy string
	BracketLimits   match.GroupingLimits

	Safe      rules.SafeConfig
	Reject    rules.RejectConfig
	Watchlist watchlist.Config

	// StaleAfter es el corte de poda: links sugeridos no vistos en este
	// tiempo se eliminan.
	StaleAfter time.Duration
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		CloseWindow:     45 * 24 * time.Hour,
		AllowAdjacent:   true,
		MinSuggestScore: 0.55,
		BracketStrategy: match.StrategyBestScore,
		BracketLimits:   match.GroupingLimits{MaxGroupsPerLeft: 3, MaxLinesPerGroup: 2},
		Safe:            rules.DefaultSafeConfig(),
		Reject:          rules.DefaultRejectConfig(),
		Watchlist:       watchlist.DefaultConfig(),
		StaleAfter:      7 * 24 * time.Hour,
	}
}

// Pipeline es el orquestador de un ciclo de matching. Los pasos corren
// estrictamente en secuencia y con fallo aislado: un paso que falla se
// loguea y se registra en su StepResult sin impedir los siguientes. El run
// se marca fallido solo si al menos un paso falló.
type Pipeline struct {
	cfg       Config
	providers []ports.MarketProvider
	links     ports.LinkRepository
	watch     ports.WatchlistRepository
	notifier  ports.Notifier

	scorer *match.Scorer
	safe   *rules.SafeEngine
	reject *rules.RejectEngine
	policy *watchlist.Policy

	// estado del run en curso, reseteado en cada Run
	titles map[string]string // ref "venue:id" → título, para el cross-check de reject
	seen   map[string]bool   // pares vivos en este ciclo
}

// New crea un Pipeline con todas las dependencias inyectadas.
func New(
	cfg Config,
	providers []ports.MarketProvider,
	links ports.LinkRepository,
	watch ports.WatchlistRepository,
	notifier ports.Notifier,
) *Pipeline {
	safe := rules.NewSafeEngine(cfg.Safe)
	return &Pipeline{
		cfg:       cfg,
		providers: providers,
		links:     links,
		watch:     watch,
		notifier:  notifier,
		scorer:    match.NewScorer(),
		safe:      safe,
		reject:    rules.NewRejectEngine(cfg.Reject),
		policy:    watchlist.New(cfg.Watchlist, safe),
	}
}

type step struct {
	name string
	run  func(ctx context.Context) (map[string]int, error)
}

// Run ejecuta un ciclo completo y devuelve el reporte. El error devuelto
// solo refleja fallos de infraestructura del propio reporte (notifier);
// los fallos de pasos viven dentro del RunReport.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{
		ID:          uuid.NewString(),
		AlgoVersion: domain.AlgoVersion,
		StartedAt:   time.Now(),
	}
	p.titles = make(map[string]string)
	p.seen = make(map[string]bool)

	slog.Info("pipeline run starting", "run_id", report.ID, "algo_version", report.AlgoVersion)

	steps := []step{
		{"suggest", p.stepSuggest},
		{"auto_confirm", p.stepAutoConfirm},
		{"auto_reject", p.stepAutoReject},
		{"watchlist_sync", p.stepWatchlistSync},
		{"freshness_check", p.stepFreshnessCheck},
	}

	for _, s := range steps {
		start := time.Now()
		counters, err := s.run(ctx)
		res := domain.StepResult{
			Name:     s.name,
			Duration: time.Since(start).Round(time.Millisecond),
			Counters: counters,
		}
		if err != nil {
			res.Error = err.Error()
			slog.Error("pipeline step failed", "run_id", report.ID, "step", s.name, "err", err)
		} else {
			slog.Info("pipeline step complete",
				"run_id", report.ID, "step", s.name, "duration", res.Duration)
		}
		report.Steps = append(report.Steps, res)
	}

	report.FinishedAt = time.Now()

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, report); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("pipeline run complete",
		"run_id", report.ID,
		"failed", report.Failed(),
		"duration", report.Duration().Round(time.Millisecond),
	)
	return report, nil
}
