package rules

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Reject-Rules: el gate de auto-reject. Todavía más conservador que el de
// confirm — solo dispara con defectos claros, y NUNCA antes de que el link
// tenga edad mínima: un link joven puede re-puntuar mejor en el próximo
// ciclo cuando el venue corrija el título o llegue metadata.
//
// Las reglas disparadas se acumulan todas en el resultado, no gana la
// primera: el reporte de auditoría quiere la lista completa.

// Ids de reglas reject.
const (
	RejectScoreFloor     = "SCORE_FLOOR"
	RejectEntityMismatch = "ENTITY_MISMATCH"
	RejectMarketType     = "MARKET_TYPE_INCOMPATIBLE"
	RejectDayDiff        = "DAY_DIFF"
	RejectTextFloor      = "TEXT_FLOOR"
)

// RejectConfig parametriza el gate.
type RejectConfig struct {
	ScoreFloor map[domain.Topic]float64
	TextFloor  float64       // absoluto, más bajo que el floor de safe
	MinAge     time.Duration // guard de frescura
}

// DefaultRejectConfig devuelve los umbrales de producción.
func DefaultRejectConfig() RejectConfig {
	return RejectConfig{
		ScoreFloor: map[domain.Topic]float64{
			domain.TopicCrypto:    0.35,
			domain.TopicFinance:   0.35,
			domain.TopicSports:    0.40,
			domain.TopicElections: 0.30,
			domain.TopicMacro:     0.30,
			domain.TopicRates:     0.30,
			domain.TopicClimate:   0.30,
		},
		TextFloor: 0.05,
		MinAge:    24 * time.Hour,
	}
}

// RejectResult es el veredicto del gate con todas las reglas disparadas.
type RejectResult struct {
	Reject bool
	Rules  []string
}

// RejectEngine evalúa links sugeridos contra las reglas de auto-reject.
type RejectEngine struct {
	cfg RejectConfig
}

func NewRejectEngine(cfg RejectConfig) *RejectEngine {
	return &RejectEngine{cfg: cfg}
}

// Evaluate corre todas las reglas sobre el link. Los títulos de ambos lados
// alimentan el cross-check heurístico de tipos de mercado; pueden venir
// vacíos si el record ya no está en la ventana de ingesta.
func (e *RejectEngine) Evaluate(link domain.MarketLink, leftTitle, rightTitle string, now time.Time) RejectResult {
	if link.Age(now) < e.cfg.MinAge {
		return RejectResult{}
	}

	var rules []string

	if floor, ok := e.cfg.ScoreFloor[link.Topic]; ok && link.Score < floor {
		rules = append(rules, RejectScoreFloor)
	}

	p := ParseReason(link.Reason)
	if p.EntityMismatch() {
		rules = append(rules, RejectEntityMismatch)
	}
	if p.Valid && !p.EntityMismatch() {
		if p.Family == "day" && p.DayDiff > 1 {
			rules = append(rules, RejectDayDiff)
		}
		if p.TextScore < e.cfg.TextFloor {
			rules = append(rules, RejectTextFloor)
		}
	}

	if incompatibleMarketTypes(leftTitle, rightTitle) {
		rules = append(rules, RejectMarketType)
	}

	return RejectResult{Reject: len(rules) > 0, Rules: rules}
}

// Fraseo intradía vs diario. Un mercado horario nunca es el mismo mercado
// que uno de cierre diario aunque entity y umbral coincidan.
var intradayPhrases = []string{
	"hourly", "1h", "15 min", "15min", "next hour", "intraday",
}

var dailyPhrases = []string{
	"close", "closing", "end of day", "daily", "settle",
}

// incompatibleMarketTypes dispara cuando un título frasea intradía y el
// otro frasea cierre diario. Heurístico: requiere evidencia en ambos lados.
func incompatibleMarketTypes(leftTitle, rightTitle string) bool {
	if leftTitle == "" || rightTitle == "" {
		return false
	}
	l, r := strings.ToLower(leftTitle), strings.ToLower(rightTitle)
	return (containsAny(l, intradayPhrases) && containsAny(r, dailyPhrases)) ||
		(containsAny(r, intradayPhrases) && containsAny(l, dailyPhrases))
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
