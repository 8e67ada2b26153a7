package watchlist

import (
	"fmt"
	"testing"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingReason = "v2 entity=BITCOIN dateType=day date=1.00(0d) num=1.00[overlap] text=0.42"

func link(id, leftID, rightID string, score float64, reason string) domain.MarketLink {
	return domain.MarketLink{
		ID:     id,
		Left:   domain.MarketRef{Venue: domain.VenueKalshi, MarketID: leftID},
		Right:  domain.MarketRef{Venue: domain.VenuePolymarket, MarketID: rightID},
		Topic:  domain.TopicCrypto,
		Score:  score,
		Reason: reason,
	}
}

func newPolicy(cfg Config) *Policy {
	return New(cfg, rules.NewSafeEngine(rules.DefaultSafeConfig()))
}

func TestBuild_ThreeTiers(t *testing.T) {
	confirmed := []domain.MarketLink{link("c1", "k1", "p1", 0.99, passingReason)}
	suggested := []domain.MarketLink{
		link("s1", "k2", "p2", 0.95, passingReason), // pasa safe → 80
		link("s2", "k3", "p3", 0.78, passingReason), // bajo el mínimo safe → 50
		link("s3", "k4", "p4", 0.40, passingReason), // bajo el umbral global → fuera
	}

	cands, stats := newPolicy(DefaultConfig()).Build(confirmed, suggested)

	byID := make(map[string]domain.WatchlistCandidate)
	for _, c := range cands {
		byID[c.Ref.String()] = c
	}
	assert.Equal(t, domain.PriorityConfirmed, byID["kalshi:k1"].Priority)
	assert.Equal(t, domain.PrioritySafePass, byID["kalshi:k2"].Priority)
	assert.Equal(t, domain.PriorityTopSuggested, byID["kalshi:k3"].Priority)
	assert.NotContains(t, byID, "kalshi:k4")
	assert.Equal(t, 6, stats.Entries) // 3 links × 2 mercados
}

func TestBuild_HighestPriorityWinsPerMarket(t *testing.T) {
	// el mismo mercado kalshi aparece confirmado en un link y sugerido en
	// otro: gana la prioridad 100
	confirmed := []domain.MarketLink{link("c1", "k1", "p1", 0.99, passingReason)}
	suggested := []domain.MarketLink{link("s1", "k1", "p9", 0.95, passingReason)}

	cands, _ := newPolicy(DefaultConfig()).Build(confirmed, suggested)

	for _, c := range cands {
		if c.Ref.String() == "kalshi:k1" {
			assert.Equal(t, domain.PriorityConfirmed, c.Priority)
			assert.Equal(t, "c1", c.LinkID)
		}
	}
}

func TestBuild_GlobalCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 4

	var confirmed []domain.MarketLink
	for i := 0; i < 4; i++ {
		confirmed = append(confirmed,
			link(fmt.Sprintf("c%d", i), fmt.Sprintf("k%d", i), fmt.Sprintf("p%d", i), 0.99, passingReason))
	}

	cands, stats := newPolicy(cfg).Build(confirmed, nil)
	assert.Len(t, cands, 4)
	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 4, stats.DroppedByGlobal) // 8 candidatos, 4 fuera
}

func TestBuild_PerVenueCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPerVenue = 2

	var confirmed []domain.MarketLink
	for i := 0; i < 3; i++ {
		confirmed = append(confirmed,
			link(fmt.Sprintf("c%d", i), fmt.Sprintf("k%d", i), fmt.Sprintf("p%d", i), 0.99, passingReason))
	}

	cands, stats := newPolicy(cfg).Build(confirmed, nil)
	require.Len(t, cands, 4) // 2 por venue
	assert.Equal(t, 2, stats.DroppedByVenue)

	perVenue := make(map[domain.Venue]int)
	for _, c := range cands {
		perVenue[c.Ref.Venue]++
	}
	assert.Equal(t, 2, perVenue[domain.VenueKalshi])
	assert.Equal(t, 2, perVenue[domain.VenuePolymarket])
}

func TestBuild_TopSuggestedCapCountsDrops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopSuggestedCap = 1

	suggested := []domain.MarketLink{
		link("s1", "k1", "p1", 0.78, passingReason),
		link("s2", "k2", "p2", 0.77, passingReason),
		link("s3", "k3", "p3", 0.76, passingReason),
	}

	cands, stats := newPolicy(cfg).Build(nil, suggested)
	assert.Len(t, cands, 2) // solo el link de mayor score
	assert.Equal(t, 2, stats.DroppedByTierCap)

	for _, c := range cands {
		assert.Equal(t, "s1", c.LinkID)
	}
}

func TestBuild_SafePassRequiresBothScoreAndRules(t *testing.T) {
	// score sobrado pero day-diff 1: no pasa safe, cae al nivel 50
	adjacent := "v2 entity=BITCOIN dateType=day date=0.95(1d) num=1.00[overlap] text=0.42"
	suggested := []domain.MarketLink{link("s1", "k1", "p1", 0.95, adjacent)}

	cands, _ := newPolicy(DefaultConfig()).Build(nil, suggested)
	require.Len(t, cands, 2)
	assert.Equal(t, domain.PriorityTopSuggested, cands[0].Priority)
	assert.Equal(t, "top_suggested", cands[0].Reason)
}
