package domain

// Tier es la etiqueta gruesa de calidad de un match.
type Tier string

const (
	TierStrong Tier = "STRONG"
	TierWeak   Tier = "WEAK"
)

// ScoreResult es el resultado de puntuar un par de mercados.
//
// Rejected distingue "ineligible para puntuar" (hard gate) de "puntuó bajo":
// un par rechazado por gate lleva Score 0 y un Reason que explica el gate.
type ScoreResult struct {
	Score       float64 // [0,1] ponderado
	EntityScore float64
	DateScore   float64
	NumberScore float64
	TextScore   float64
	Tier        Tier
	Rejected    bool
	Reason      string // gramática versionada key=value, ver internal/rules
}

// ScoredPair es un candidato puntuado listo para bracket dedup / persistencia.
type ScoredPair struct {
	Left    MarketRecord
	Right   MarketRecord
	Topic   Topic
	Result  ScoreResult
	Bracket string // clave "entity|date|comparator" del dedup por brackets
	// Threshold numérico del lado derecho, usado por la estrategia
	// central_threshold del bracket dedup. 0 si el par no tiene número.
	Threshold float64
}
