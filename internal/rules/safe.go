package rules

import (
	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Safe-Rules: el gate de auto-confirm. Conservador por construcción — un
// link que falla cualquier regla se queda en suggested y nadie lo toca.
// El resultado lleva los ids de las reglas falladas para auditoría.

// Ids de reglas safe.
const (
	SafeMinScore    = "min_score"
	SafeDayDiffZero = "day_diff_zero"
	SafePeriodExact = "period_exact"
	SafeTextFloor   = "text_floor"
	SafeParseable   = "parseable_reason"
)

// SafeConfig parametriza el gate. Los mínimos de score son por topic porque
// las distribuciones de score difieren entre dominios.
type SafeConfig struct {
	MinScore  map[domain.Topic]float64
	TextFloor float64
}

// DefaultSafeConfig devuelve los umbrales de producción.
func DefaultSafeConfig() SafeConfig {
	return SafeConfig{
		MinScore: map[domain.Topic]float64{
			domain.TopicCrypto:    0.90,
			domain.TopicFinance:   0.90,
			domain.TopicSports:    0.88,
			domain.TopicElections: 0.85,
			domain.TopicMacro:     0.85,
			domain.TopicRates:     0.85,
			domain.TopicClimate:   0.85,
		},
		TextFloor: 0.15,
	}
}

// SafeResult es el veredicto del gate.
type SafeResult struct {
	Pass        bool
	FailedRules []string
}

// SafeEngine evalúa links sugeridos contra las reglas de auto-confirm.
type SafeEngine struct {
	cfg SafeConfig
}

func NewSafeEngine(cfg SafeConfig) *SafeEngine {
	return &SafeEngine{cfg: cfg}
}

// Evaluate corre todas las reglas y acumula las falladas. El resultado es
// Pass solo si ninguna falló.
func (e *SafeEngine) Evaluate(link domain.MarketLink) SafeResult {
	var failed []string

	min, ok := e.cfg.MinScore[link.Topic]
	if !ok || link.Score < min {
		failed = append(failed, SafeMinScore)
	}

	p := ParseReason(link.Reason)
	if !p.Valid || p.EntityMismatch() {
		failed = append(failed, SafeParseable)
		return SafeResult{Pass: false, FailedRules: failed}
	}

	// los sub-checks estrictos se re-derivan del reason, no del score:
	// un score alto con fecha adyacente sigue sin ser auto-confirmable
	switch p.Family {
	case "day":
		// diff exactamente 0 — el decay de ±1 día es aceptable para
		// sugerir pero no para confirmar sin humano
		if p.DayDiff != 0 {
			failed = append(failed, SafeDayDiffZero)
		}
	case "period":
		if p.PeriodKind != "exact" {
			failed = append(failed, SafePeriodExact)
		}
	}

	if p.TextScore < e.cfg.TextFloor {
		failed = append(failed, SafeTextFloor)
	}

	return SafeResult{Pass: len(failed) == 0, FailedRules: failed}
}
