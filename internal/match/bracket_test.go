package match

import (
	"fmt"
	"testing"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(leftID, bracket string, score, threshold float64) domain.ScoredPair {
	return domain.ScoredPair{
		Left:      domain.MarketRecord{ID: leftID, Venue: domain.VenueKalshi},
		Right:     domain.MarketRecord{ID: "r-" + leftID, Venue: domain.VenuePolymarket},
		Result:    domain.ScoreResult{Score: score},
		Bracket:   bracket,
		Threshold: threshold,
	}
}

func TestBuildBracketKey(t *testing.T) {
	date := domain.ExtractedDate{Year: 2026, Month: 1, Day: 15, Precision: domain.PrecisionDay}

	key := BuildBracketKey("BITCOIN", date, domain.ComparatorGE)
	assert.Equal(t, "BITCOIN|20260115|GE", key)

	// comparadores sinónimos colapsan a la misma clave
	for _, c := range []string{"GT", "ABOVE", "REACH", "HIT"} {
		assert.Equal(t, key, BuildBracketKey("BITCOIN", date, domain.Comparator(c)))
	}
	assert.Equal(t, "BITCOIN|20260115|LE",
		BuildBracketKey("BITCOIN", date, domain.Comparator("BELOW")))

	// inputs ausentes se materializan como UNKNOWN, nunca cadenas vacías
	assert.Equal(t, "UNKNOWN|UNKNOWN|UNKNOWN",
		BuildBracketKey("", domain.ExtractedDate{}, domain.ComparatorUnknown))
}

func TestGroupByBracket_FirstAppearanceOrder(t *testing.T) {
	pairs := []domain.ScoredPair{
		pair("a", "K1", 0.7, 95_000),
		pair("b", "K2", 0.9, 100_000),
		pair("c", "K1", 0.8, 100_000),
	}

	groups := GroupByBracket(pairs)
	require.Len(t, groups, 2)
	assert.Equal(t, "K1", groups[0].Key)
	assert.Equal(t, "K2", groups[1].Key)
	assert.Len(t, groups[0].Members, 2)
	assert.Equal(t, 0.8, groups[0].BestScore)
	assert.Equal(t, 0.9, groups[1].BestScore)
}

func TestSelectRepresentative_BestScore(t *testing.T) {
	g := BracketGroup{Members: []domain.ScoredPair{
		pair("a", "K", 0.7, 95_000),
		pair("b", "K", 0.9, 105_000),
		pair("c", "K", 0.8, 100_000),
	}}

	rep := SelectRepresentative(g, StrategyBestScore)
	assert.Equal(t, "b", rep.Left.ID)
}

func TestSelectRepresentative_CentralThreshold(t *testing.T) {
	g := BracketGroup{Members: []domain.ScoredPair{
		pair("a", "K", 0.9, 95_000),
		pair("b", "K", 0.7, 100_000),
		pair("c", "K", 0.8, 105_000),
	}}

	// mediana impar = 100k, gana b aunque no tenga el mejor score
	rep := SelectRepresentative(g, StrategyCentralThreshold)
	assert.Equal(t, "b", rep.Left.ID)
}

func TestSelectRepresentative_CentralThresholdTieBreak(t *testing.T) {
	// mediana par = (95k+105k)/2 = 100k, ambos miembros equidistan →
	// gana el menor id de mercado izquierdo
	g := BracketGroup{Members: []domain.ScoredPair{
		pair("z", "K", 0.9, 105_000),
		pair("a", "K", 0.7, 95_000),
	}}

	rep := SelectRepresentative(g, StrategyCentralThreshold)
	assert.Equal(t, "a", rep.Left.ID)
}

func TestApplyBracketGrouping_LimitsAndConservation(t *testing.T) {
	var pairs []domain.ScoredPair
	// un solo left, 3 brackets con 4 líneas cada uno
	for b := 0; b < 3; b++ {
		for l := 0; l < 4; l++ {
			p := pair("left", fmt.Sprintf("K%d", b), float64(b)*0.1+float64(l)*0.01, float64(90_000+b*5_000))
			pairs = append(pairs, p)
		}
	}

	limits := GroupingLimits{MaxGroupsPerLeft: 2, MaxLinesPerGroup: 2}
	kept, stats := ApplyBracketGrouping(pairs, StrategyBestScore, limits)

	assert.Len(t, kept, 4) // 2 brackets × 2 líneas
	assert.Equal(t, 4, stats.SavedCandidates)
	assert.Equal(t, 4, stats.DroppedByGroupLimit)  // bracket descartado completo
	assert.Equal(t, 4, stats.DroppedWithinGroups)  // 2 líneas extra por bracket retenido
	assert.Equal(t, len(pairs), stats.SavedCandidates+stats.DroppedByGroupLimit+stats.DroppedWithinGroups)

	// sobreviven los brackets de mejor score
	for _, p := range kept {
		assert.NotEqual(t, "K0", p.Bracket)
	}
}

func TestApplyBracketGrouping_ZeroLimitsKeepAll(t *testing.T) {
	pairs := []domain.ScoredPair{
		pair("a", "K1", 0.7, 95_000),
		pair("a", "K2", 0.9, 100_000),
	}

	kept, stats := ApplyBracketGrouping(pairs, StrategyBestScore, GroupingLimits{})
	assert.Len(t, kept, 2)
	assert.Equal(t, 2, stats.SavedCandidates)
	assert.Zero(t, stats.DroppedByGroupLimit)
	assert.Zero(t, stats.DroppedWithinGroups)
}

func TestApplyBracketGrouping_CentralThresholdPicksMedianLine(t *testing.T) {
	// tres líneas del mismo bracket, una sola sobrevive: con la estrategia
	// central_threshold gana la mediana aunque no tenga el mejor score
	rightPair := func(rightID string, score, threshold float64) domain.ScoredPair {
		p := pair("left", "K", score, threshold)
		p.Right.ID = rightID
		return p
	}
	pairs := []domain.ScoredPair{
		rightPair("r1", 0.9, 95_000),
		rightPair("r2", 0.7, 100_000),
		rightPair("r3", 0.8, 105_000),
	}

	limits := GroupingLimits{MaxGroupsPerLeft: 1, MaxLinesPerGroup: 1}
	kept, stats := ApplyBracketGrouping(pairs, StrategyCentralThreshold, limits)
	require.Len(t, kept, 1)
	assert.Equal(t, 100_000.0, kept[0].Threshold)
	assert.Equal(t, 2, stats.DroppedWithinGroups)
}

func TestIndex_DayAdjacency(t *testing.T) {
	c15 := candidateFor(t, domain.VenueKalshi, "k1",
		"Bitcoin above $100k on January 15 2026", time.Time{})
	c16 := candidateFor(t, domain.VenuePolymarket, "p1",
		"Bitcoin above $100k on January 16 2026", time.Time{})
	c18 := candidateFor(t, domain.VenuePolymarket, "p2",
		"Bitcoin above $100k on January 18 2026", time.Time{})

	idx := BuildIndex([]Candidate{c16, c18})

	exact := idx.FindCandidates(c15, false)
	assert.Empty(t, exact)

	adj := idx.FindCandidates(c15, true)
	require.Len(t, adj, 1)
	assert.Equal(t, "p1", adj[0].Record.ID)
}

func TestIndex_SportsTimeBucketAdjacency(t *testing.T) {
	// el venue derecho cierra el mercado 40 min más tarde que el izquierdo,
	// pero declara el mismo event_time: cae en el bucket de cierre adyacente
	base := time.Date(2025, 1, 23, 20, 0, 0, 0, time.UTC)
	meta := map[string]string{"event_time": base.Format(time.RFC3339)}

	a := sportsCandidate(t, domain.VenueKalshi, "k1",
		"NBA: Lakers vs Celtics - Over 220.5", base, meta)
	b := sportsCandidate(t, domain.VenuePolymarket, "p1",
		"NBA: Lakers vs Celtics - Over 215.5", base.Add(40*time.Minute), meta)
	far := sportsCandidate(t, domain.VenuePolymarket, "p2",
		"NBA: Lakers vs Celtics - Over 210.5", base.Add(2*time.Hour), meta)

	idx := BuildIndex([]Candidate{b, far})

	exact := idx.FindCandidates(a, false)
	assert.Empty(t, exact)

	adj := idx.FindCandidates(a, true)
	require.Len(t, adj, 1)
	assert.Equal(t, "p1", adj[0].Record.ID)
}

func sportsCandidate(t *testing.T, venue domain.Venue, id, title string, closeTime time.Time, meta map[string]string) Candidate {
	t.Helper()
	rec := domain.MarketRecord{ID: id, Venue: venue, Title: title, Status: "open", CloseTime: closeTime, Metadata: meta}
	return Candidate{Record: rec, Signal: extract.Signal(rec)}
}

func TestIndex_ExcludedSignalsSkipped(t *testing.T) {
	parlay := candidateFor(t, domain.VenueKalshi, "k1",
		"NBA Parlay: Lakers ML + Celtics -5.5", time.Time{})
	idx := BuildIndex([]Candidate{parlay})
	assert.Zero(t, idx.Size())
}
