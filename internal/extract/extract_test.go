package extract

import (
	"testing"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumbers_ExcludesCalendarYears(t *testing.T) {
	// años sueltos 1900–2100 no son umbrales
	assert.Empty(t, ExtractNumbers("Will it happen by 2026"))
	assert.Empty(t, ExtractNumbers("Recession in 2025"))

	// pero con símbolo de moneda o magnitud sí lo son
	nums := ExtractNumbers("Bitcoin above $2026")
	require.Len(t, nums, 1)
	assert.Equal(t, 2026.0, nums[0].Value)
	assert.Equal(t, "usd", nums[0].Unit)
}

func TestExtractNumbers_ExcludesDayOfMonth(t *testing.T) {
	// "Jan 15" → el 15 es componente de fecha, no umbral
	assert.Empty(t, ExtractNumbers("Resolution on Jan 15"))

	// "15k" tras un mes sí es umbral — la magnitud anula la exclusión
	nums := ExtractNumbers("Payrolls above Jan 15k")
	require.Len(t, nums, 1)
	assert.Equal(t, 15_000.0, nums[0].Value)
}

func TestExtractNumbers_Magnitudes(t *testing.T) {
	nums := ExtractNumbers("Bitcoin reaches $100k before ETH hits 5,000")
	require.Len(t, nums, 2)
	assert.Equal(t, 100_000.0, nums[0].Value)
	assert.Equal(t, 5000.0, nums[1].Value)

	nums = ExtractNumbers("Market cap above 1.5t")
	require.Len(t, nums, 1)
	assert.Equal(t, 1.5e12, nums[0].Value)
}

func TestExtractNumbers_IgnoresDigitsGluedToWords(t *testing.T) {
	// el 3 de "q3" no es umbral, ni el 500 de "sp500"
	assert.Empty(t, ExtractNumbers("GDP growth in q3"))
	assert.Empty(t, ExtractNumbers("sp500 momentum"))
}

func TestExtractNumbers_ExcludesISODateComponents(t *testing.T) {
	// el 03 y el 15 de "2026-03-15" son componentes de fecha, no umbrales
	assert.Empty(t, ExtractNumbers("Settlement 2026-03-15 close"))

	// el umbral real fuera de la fecha sí sobrevive
	nums := ExtractNumbers("Bitcoin above $95k on 2026-03-15")
	require.Len(t, nums, 1)
	assert.Equal(t, 95_000.0, nums[0].Value)
	assert.Equal(t, "usd", nums[0].Unit)
}

func TestExtractNumbers_Percent(t *testing.T) {
	nums := ExtractNumbers("Inflation above 3.5%")
	require.Len(t, nums, 1)
	assert.Equal(t, 3.5, nums[0].Value)
	assert.Equal(t, "pct", nums[0].Unit)
}

func TestParseDate_PriorityChain(t *testing.T) {
	cases := []struct {
		title     string
		precision domain.DatePrecision
		key       string
	}{
		{"Bitcoin above 100k on January 15 2026", domain.PrecisionDay, "20260115"},
		{"CPI for January 2026", domain.PrecisionMonth, "202601"},
		{"Recession by end of 2026", domain.PrecisionYear, "2026"},
		{"GDP growth end of q2 2026", domain.PrecisionQuarter, "2026Q2"},
		{"Rate cut in Q3 2026", domain.PrecisionQuarter, "2026Q3"},
		{"AGI before 2030", domain.PrecisionYear, "2030"},
		{"Settlement 2026-03-15 close", domain.PrecisionDay, "20260315"},
	}
	for _, tc := range cases {
		d := ParseDate(tc.title, time.Time{})
		assert.Equal(t, tc.precision, d.Precision, tc.title)
		assert.Equal(t, tc.key, d.Key(), tc.title)
	}
}

func TestParseDate_DeadlineYearBeatsQuarter(t *testing.T) {
	// con deadline "by <año>" y Qn+año en el mismo título gana el deadline
	d := ParseDate("Profitable by 2027 after the q3 2026 results", time.Time{})
	require.Equal(t, domain.PrecisionYear, d.Precision)
	assert.Equal(t, "2027", d.Key())
}

func TestParseDate_BareYearNeedsDeadlinePreposition(t *testing.T) {
	// "2026 Olympics" — año sin preposición de deadline cerca → sin fecha
	d := ParseDate("The 2026 Olympics host", time.Time{})
	assert.True(t, d.IsZero())
}

func TestParseDate_InfersYearFromCloseTime(t *testing.T) {
	closeTime := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	d := ParseDate("Bitcoin above 100k on Jan 15", closeTime)
	require.Equal(t, domain.PrecisionDay, d.Precision)
	assert.Equal(t, 2026, d.Year)
}

func TestParseComparator_Priority(t *testing.T) {
	v := DefaultVocab()
	// BETWEEN gana a GE aunque "above" también aparezca
	assert.Equal(t, domain.ComparatorBetween,
		ParseComparator("ETH between 3000 and 4000, above expectations", v))
	assert.Equal(t, domain.ComparatorGE, ParseComparator("BTC above 100k", v))
	assert.Equal(t, domain.ComparatorLE, ParseComparator("BTC below 80k", v))
	assert.Equal(t, domain.ComparatorWin, ParseComparator("Lakers to win", v))
	assert.Equal(t, domain.ComparatorUnknown, ParseComparator("Something happens", v))
}

func TestSports_OverUnderScenario(t *testing.T) {
	s := NewSports()
	sig := s.ExtractSports("Over 220.5", time.Time{}, nil)

	assert.Equal(t, "OVER", sig.Side)
	assert.Equal(t, SportsTotal, sig.MarketType)
	assert.Equal(t, 220.5, sig.Line)
	assert.Equal(t, domain.ComparatorGE, sig.Comparator)
}

func TestSports_MarketTypePriority(t *testing.T) {
	s := NewSports()
	cases := []struct {
		title string
		want  string
	}{
		{"Lakers vs Celtics parlay special", SportsParlay},
		{"LeBron James: 30+ points", SportsProp},
		{"Lakers to win the championship", SportsFutures},
		{"Lakers -7.5 vs Celtics", SportsSpread},
		{"Lakers vs Celtics Over 220.5", SportsTotal},
		{"Lakers vs Celtics", SportsMoneyline},
	}
	for _, tc := range cases {
		got := s.ExtractSports(tc.title, time.Time{}, nil).MarketType
		assert.Equal(t, tc.want, got, tc.title)
	}
}

func TestSports_PropsAndParlaysExcluded(t *testing.T) {
	s := NewSports()
	assert.True(t, s.ExtractSports("NBA parlay of the day", time.Time{}, nil).Excluded)
	assert.True(t, s.ExtractSports("Jayson Tatum: 25+ points", time.Time{}, nil).Excluded)
	assert.False(t, s.ExtractSports("Lakers vs Celtics", time.Time{}, nil).Excluded)
}

func TestGenerateEventKey_OrderInvariant(t *testing.T) {
	eventTime := time.Date(2025, 1, 23, 20, 0, 0, 0, time.UTC)
	a := GenerateEventKey("NBA", "Lakers", "Celtics", eventTime)
	b := GenerateEventKey("NBA", "Celtics", "Lakers", eventTime)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "los angeles lakers")
	assert.Contains(t, a, "boston celtics")
}

func TestGenerateTimeBucket(t *testing.T) {
	base := time.Date(2025, 1, 23, 0, 0, 0, 0, time.UTC)

	b2015 := GenerateTimeBucket(base.Add(20*time.Hour + 15*time.Minute))
	b2030 := GenerateTimeBucket(base.Add(20*time.Hour + 30*time.Minute))
	assert.Equal(t, "2025-01-23T20:00", b2015)
	assert.Equal(t, "2025-01-23T20:30", b2030)
}

func TestCrypto_Extract(t *testing.T) {
	c := NewCrypto()
	sig := c.ExtractCrypto("Will Bitcoin close above $100,000 on January 15 2026?", time.Time{}, nil)

	assert.Equal(t, "BITCOIN", sig.Asset)
	assert.Equal(t, cryptoKindPrice, sig.Kind)
	assert.Equal(t, domain.ComparatorGE, sig.Comparator)
	require.Len(t, sig.Numbers, 1)
	assert.Equal(t, 100_000.0, sig.Numbers[0].Value)
	assert.Equal(t, "20260115", sig.Date.Key())
	assert.Equal(t, 1.0, sig.Confidence)
}

func TestCrypto_AssetPriority(t *testing.T) {
	c := NewCrypto()
	// bitcoin gana a ethereum por orden de prioridad
	sig := c.ExtractCrypto("BTC vs ETH dominance battle", time.Time{}, nil)
	assert.Equal(t, "BITCOIN", sig.Asset)
}

func TestCrypto_ConfidencePenalties(t *testing.T) {
	c := NewCrypto()
	// sin asset, sin fecha, sin número, sin comparador → suelo en 0
	sig := c.ExtractCrypto("something vague", time.Time{}, nil)
	assert.Equal(t, 0.0, sig.Confidence)
	assert.True(t, sig.Quality.MissingEntity)
	assert.True(t, sig.Quality.MissingDate)
	assert.True(t, sig.Quality.MissingNumber)
}

func TestMacro_MetricPriority(t *testing.T) {
	m := NewMacro()
	// core cpi antes que cpi
	sig := m.ExtractMacro("Core CPI above 0.3% for January 2026", time.Time{}, nil)
	assert.Equal(t, "CORE_CPI", sig.Metric)
	assert.Equal(t, domain.PrecisionMonth, sig.Date.Precision)
}

func TestRates_Extract(t *testing.T) {
	r := NewRates()
	sig := r.ExtractRates("Will the Fed cut rates by 25 bps in March 2026?", time.Time{}, nil)

	assert.Equal(t, "FED", sig.CentralBank)
	assert.Equal(t, "CUT", sig.Action)
	assert.Equal(t, 25.0, sig.BPS)
	assert.Equal(t, "FED:CUT", sig.Entity)
}

func TestElections_RacePriority(t *testing.T) {
	e := NewElections()
	// primary gana a presidential
	sig := e.ExtractElections("Republican presidential primary winner in New Hampshire 2028", time.Time{}, nil)
	assert.Equal(t, "PRIMARY", sig.Race)
}

func TestFinance_TickerDenyList(t *testing.T) {
	f := NewFinance()
	meta := map[string]string{"venue": "kalshi", "ticker": "kxinternal"}
	sig := f.ExtractFinance("Some internal series", time.Time{}, meta)
	assert.Equal(t, "", sig.Instrument)
	assert.True(t, sig.Quality.MissingEntity)
}

func TestDetectTopic(t *testing.T) {
	cases := []struct {
		title string
		want  domain.Topic
	}{
		{"Lakers vs Celtics", domain.TopicSports},
		{"Bitcoin above 100k", domain.TopicCrypto},
		{"Fed rate cut in March", domain.TopicRates},
		{"CPI above 3%", domain.TopicMacro},
		{"2028 presidential election winner", domain.TopicElections},
		{"NYC high temperature above 95 degrees", domain.TopicClimate},
		{"S&P 500 closes above 6000", domain.TopicFinance},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectTopic(tc.title, nil), tc.title)
	}
}

func TestDetectTopic_MetadataWins(t *testing.T) {
	meta := map[string]string{"category": "Economics"}
	assert.Equal(t, domain.TopicMacro, DetectTopic("Bitcoin correlated release", meta))
}
