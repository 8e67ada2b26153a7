package fingerprint

import (
	"testing"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuild_PriceDateIntent(t *testing.T) {
	b := New()
	fp := b.Build("Will Bitcoin close above $100,000 on January 15 2026?", time.Time{}, nil)

	assert.Equal(t, domain.IntentPriceDate, fp.Intent)
	assert.Equal(t, domain.ComparatorGE, fp.Comparator)
	assert.Equal(t, "BITCOIN|N100000|D20260115|GE", fp.Key())
}

func TestBuild_ElectionIntent(t *testing.T) {
	b := New()
	fp := b.Build("Who wins the 2028 presidential election?", time.Time{}, nil)
	assert.Equal(t, domain.IntentElection, fp.Intent)
}

func TestBuild_MetricDateIntent(t *testing.T) {
	b := New()
	fp := b.Build("CPI above 3% for January 2026", time.Time{}, nil)
	assert.Equal(t, domain.IntentMetricDate, fp.Intent)
}

func TestBuild_GeneralFallback(t *testing.T) {
	b := New()
	fp := b.Build("Will something interesting happen", time.Time{}, nil)
	assert.Equal(t, domain.IntentGeneral, fp.Intent)
}

func TestKey_OmitsMissingSegments(t *testing.T) {
	b := New()

	// sin número ni fecha: solo entidad y comparador
	fp := b.Build("Bitcoin goes up bigly", time.Time{}, nil)
	assert.Equal(t, "BITCOIN", fp.Key())

	// nada extraíble → literal UNKNOWN
	empty := domain.Fingerprint{}
	assert.Equal(t, "UNKNOWN", empty.Key())
}

func TestKey_NumberFormatting(t *testing.T) {
	fp := domain.Fingerprint{
		Entities:   []string{"BITCOIN"},
		Numbers:    []float64{220.5},
		Comparator: domain.ComparatorGE,
	}
	assert.Equal(t, "BITCOIN|N220.5|GE", fp.Key())
}

func TestBuild_PriceDateRequiresDayPrecision(t *testing.T) {
	b := New()
	// fecha de mes, no de día → no es PRICE_DATE
	fp := b.Build("Bitcoin above $100k in January 2026", time.Time{}, nil)
	assert.NotEqual(t, domain.IntentPriceDate, fp.Intent)
}
