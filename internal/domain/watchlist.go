package domain

// Prioridades de watchlist. El merge es highest-wins por market id.
const (
	PriorityConfirmed    = 100 // link confirmado
	PrioritySafePass     = 80  // suggested que pasa Safe-Rules + mínimo por topic
	PriorityTopSuggested = 50  // suggested por encima del umbral global, hasta el cap
)

// WatchlistCandidate es una entrada de la lista de mercados a cotizar.
type WatchlistCandidate struct {
	Ref      MarketRef
	Priority int
	Reason   string // tag corto: "confirmed", "safe_pass", "top_suggested"
	LinkID   string
}
