package match

import (
	"testing"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/extract"
	"github.com/alejandrodnm/crosslink/internal/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateFor(t *testing.T, venue domain.Venue, id, title string, closeTime time.Time) Candidate {
	t.Helper()
	rec := domain.MarketRecord{ID: id, Venue: venue, Title: title, Status: "open", CloseTime: closeTime}
	return Candidate{
		Record:      rec,
		Signal:      extract.Signal(rec),
		Fingerprint: fingerprint.New().BuildFromRecord(rec),
	}
}

func TestScore_BitcoinStrongPair(t *testing.T) {
	// Escenario: mismo día exacto, umbrales solapados → STRONG, score ≥ 0.9
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"Will Bitcoin close above $100,000 on January 15 2026?", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Bitcoin above $100k on January 15 2026", time.Time{})

	res, ok := NewScorer().Score(left, right)
	require.True(t, ok)
	assert.Equal(t, domain.TierStrong, res.Tier)
	assert.GreaterOrEqual(t, res.Score, 0.9)
	assert.Equal(t, 1.0, res.NumberScore) // rangos solapados
	assert.Equal(t, 1.0, res.DateScore)
	assert.Contains(t, res.Reason, "entity=BITCOIN")
	assert.Contains(t, res.Reason, "(0d)")
}

func TestScore_EntityMismatchAlwaysRejects(t *testing.T) {
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"Bitcoin above $100k on January 15 2026", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Ethereum above $100k on January 15 2026", time.Time{})

	res, ok := NewScorer().Score(left, right)
	assert.False(t, ok)
	assert.True(t, res.Rejected)
	assert.Equal(t, "entity mismatch: BITCOIN vs ETHEREUM", res.Reason)
}

func TestScore_DateTypeIncompatibleRejects(t *testing.T) {
	// día vs trimestre: tipos distintos, crypto no documenta coarsening
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"Bitcoin above $100k on January 15 2026", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Bitcoin above $100k in Q1 2026", time.Time{})

	_, ok := NewScorer().Score(left, right)
	assert.False(t, ok)
}

func TestScore_DayDiffOverOneRejects(t *testing.T) {
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"Bitcoin above $100k on January 15 2026", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Bitcoin above $100k on January 18 2026", time.Time{})

	_, ok := NewScorer().Score(left, right)
	assert.False(t, ok)
}

func TestScore_AdjacentDayDecays(t *testing.T) {
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"Bitcoin above $100k on January 15 2026", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Bitcoin above $100k on January 16 2026", time.Time{})

	res, ok := NewScorer().Score(left, right)
	require.True(t, ok)
	assert.Equal(t, 0.95, res.DateScore) // crypto: ±1 día = skew de venue
	assert.Equal(t, domain.TierWeak, res.Tier)
	assert.Contains(t, res.Reason, "(1d)")
}

func TestDateCompatibility_Symmetric(t *testing.T) {
	day := domain.Signal{Date: domain.ExtractedDate{Year: 2026, Month: 1, Day: 15, Precision: domain.PrecisionDay}}
	month := domain.Signal{Date: domain.ExtractedDate{Year: 2026, Month: 1, Precision: domain.PrecisionMonth}}
	quarter := domain.Signal{Date: domain.ExtractedDate{Year: 2026, Quarter: 1, Precision: domain.PrecisionQuarter}}

	pairs := [][2]domain.Signal{{day, month}, {day, quarter}, {month, quarter}, {day, day}}
	for _, topic := range []domain.Topic{domain.TopicCrypto, domain.TopicMacro} {
		for _, p := range pairs {
			_, _, ab := dateCompatibility(p[0], p[1], topic)
			_, _, ba := dateCompatibility(p[1], p[0], topic)
			assert.Equal(t, ab, ba, "compatibilidad no simétrica para %v en %s", p, topic)
		}
	}
}

func TestDateCompatibility_ContainedOnlyForPeriodFamily(t *testing.T) {
	day := domain.Signal{Date: domain.ExtractedDate{Year: 2026, Month: 1, Day: 15, Precision: domain.PrecisionDay}}
	month := domain.Signal{Date: domain.ExtractedDate{Year: 2026, Month: 1, Precision: domain.PrecisionMonth}}

	kind, _, ok := dateCompatibility(day, month, domain.TopicMacro)
	require.True(t, ok)
	assert.Equal(t, "contained", kind)

	_, _, ok = dateCompatibility(day, month, domain.TopicCrypto)
	assert.False(t, ok)
}

func TestScoreNumbers_Grading(t *testing.T) {
	th := func(vals ...float64) []domain.Threshold {
		out := make([]domain.Threshold, len(vals))
		for i, v := range vals {
			out[i] = domain.Threshold{Value: v}
		}
		return out
	}

	s, ctx := scoreNumbers(th(100_000), th(100_000))
	assert.Equal(t, 1.0, s)
	assert.Equal(t, "overlap", ctx)

	// rangos BETWEEN solapados
	s, _ = scoreNumbers(th(90_000, 110_000), th(100_000))
	assert.Equal(t, 1.0, s)

	// gap relativo < 1%
	s, _ = scoreNumbers(th(100_000), th(100_500))
	assert.Equal(t, 0.9, s)

	// gap < 5%
	s, _ = scoreNumbers(th(100_000), th(103_000))
	assert.Equal(t, 0.7, s)

	// gap < 10%
	s, _ = scoreNumbers(th(100_000), th(108_000))
	assert.Equal(t, 0.4, s)

	// gap enorme
	s, _ = scoreNumbers(th(100_000), th(200_000))
	assert.Equal(t, 0.0, s)

	// sin números en ningún lado
	s, ctx = scoreNumbers(nil, nil)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, "nonum", ctx)

	// un solo lado
	s, ctx = scoreNumbers(th(100_000), nil)
	assert.Equal(t, 0.5, s)
	assert.Equal(t, "onesided", ctx)
}

func TestScore_WeightsSumToOne(t *testing.T) {
	for topic, w := range topicWeights {
		assert.InDelta(t, 1.0, w.Entity+w.Date+w.Number+w.Text, 1e-9, string(topic))
	}
}

func TestScore_PeriodGrammar(t *testing.T) {
	left := candidateFor(t, domain.VenueKalshi, "k1",
		"CPI above 3% for January 2026", time.Time{})
	right := candidateFor(t, domain.VenuePolymarket, "p1",
		"Will CPI come in above 3% for January 2026?", time.Time{})

	res, ok := NewScorer().Score(left, right)
	require.True(t, ok)
	assert.Contains(t, res.Reason, "MACRO: tier=")
	assert.Contains(t, res.Reason, "per=1.00[exact](202601/202601)")
}
