package watchlist

import (
	"sort"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/rules"
)

// Política de watchlist: merge de tres niveles, la prioridad más alta gana
// por market id. Los caps duros (global y por venue) descartan candidatos
// pero los cuentan — nunca se pierde nada en silencio.

// Config parametriza la política.
type Config struct {
	// SafeMinScore es el mínimo por topic para el nivel 80, además de
	// pasar Safe-Rules. Puede ser más laxo que el mínimo de auto-confirm.
	SafeMinScore map[domain.Topic]float64
	// TopSuggestedScore es el umbral global del nivel 50.
	TopSuggestedScore float64
	// TopSuggestedCap acota cuántos links entran por el nivel 50.
	TopSuggestedCap int

	MaxEntries  int // cap global de la watchlist
	MaxPerVenue int // cap por venue
}

// DefaultConfig devuelve los parámetros de producción.
func DefaultConfig() Config {
	return Config{
		SafeMinScore: map[domain.Topic]float64{
			domain.TopicCrypto:    0.85,
			domain.TopicFinance:   0.85,
			domain.TopicSports:    0.85,
			domain.TopicElections: 0.80,
			domain.TopicMacro:     0.80,
			domain.TopicRates:     0.80,
			domain.TopicClimate:   0.80,
		},
		TopSuggestedScore: 0.75,
		TopSuggestedCap:   50,
		MaxEntries:        200,
		MaxPerVenue:       120,
	}
}

// Stats cuenta los descartes de la pasada.
type Stats struct {
	Entries          int
	DroppedByGlobal  int
	DroppedByVenue   int
	DroppedByTierCap int
}

// Policy materializa candidatos de watchlist a partir de los links vivos.
type Policy struct {
	cfg  Config
	safe *rules.SafeEngine
}

func New(cfg Config, safe *rules.SafeEngine) *Policy {
	return &Policy{cfg: cfg, safe: safe}
}

// Build computa la watchlist deseada. Cada link aporta sus dos mercados;
// si un mercado aparece en varios links, se queda la prioridad más alta.
func (p *Policy) Build(confirmed, suggested []domain.MarketLink) ([]domain.WatchlistCandidate, Stats) {
	var stats Stats
	best := make(map[string]domain.WatchlistCandidate)
	var order []string // orden de inserción para salida determinista

	add := func(ref domain.MarketRef, priority int, reason, linkID string) {
		key := ref.String()
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || priority > cur.Priority {
			best[key] = domain.WatchlistCandidate{Ref: ref, Priority: priority, Reason: reason, LinkID: linkID}
		}
	}

	// nivel 100: confirmados
	for _, l := range confirmed {
		add(l.Left, domain.PriorityConfirmed, "confirmed", l.ID)
		add(l.Right, domain.PriorityConfirmed, "confirmed", l.ID)
	}

	// nivel 80: suggested que pasa safe + mínimo por topic
	var remaining []domain.MarketLink
	for _, l := range suggested {
		min, ok := p.cfg.SafeMinScore[l.Topic]
		if ok && l.Score >= min && p.safe.Evaluate(l).Pass {
			add(l.Left, domain.PrioritySafePass, "safe_pass", l.ID)
			add(l.Right, domain.PrioritySafePass, "safe_pass", l.ID)
			continue
		}
		remaining = append(remaining, l)
	}

	// nivel 50: el resto por encima del umbral global, por score
	// descendente, hasta el cap del nivel
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Score > remaining[j].Score
	})
	taken := 0
	for _, l := range remaining {
		if l.Score < p.cfg.TopSuggestedScore {
			break
		}
		if p.cfg.TopSuggestedCap > 0 && taken >= p.cfg.TopSuggestedCap {
			stats.DroppedByTierCap++
			continue
		}
		add(l.Left, domain.PriorityTopSuggested, "top_suggested", l.ID)
		add(l.Right, domain.PriorityTopSuggested, "top_suggested", l.ID)
		taken++
	}

	return p.applyCaps(best, order, &stats), stats
}

// applyCaps recorre los candidatos por prioridad descendente (empate: orden
// de inserción) aplicando el cap global y el cap por venue.
func (p *Policy) applyCaps(best map[string]domain.WatchlistCandidate, order []string, stats *Stats) []domain.WatchlistCandidate {
	cands := make([]domain.WatchlistCandidate, 0, len(order))
	for _, key := range order {
		cands = append(cands, best[key])
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Priority > cands[j].Priority
	})

	perVenue := make(map[domain.Venue]int)
	var kept []domain.WatchlistCandidate
	for _, c := range cands {
		if p.cfg.MaxEntries > 0 && len(kept) >= p.cfg.MaxEntries {
			stats.DroppedByGlobal++
			continue
		}
		if p.cfg.MaxPerVenue > 0 && perVenue[c.Ref.Venue] >= p.cfg.MaxPerVenue {
			stats.DroppedByVenue++
			continue
		}
		perVenue[c.Ref.Venue]++
		kept = append(kept, c)
	}

	stats.Entries = len(kept)
	return kept
}
