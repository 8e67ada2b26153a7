package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// FinanceSignal cubre instrumentos financieros tradicionales: índices,
// commodities, FX y treasuries. Es también el fallback cuando ningún otro
// topic reclama el título.
type FinanceSignal struct {
	domain.Signal
	Instrument string
}

// financeInstruments en orden de prioridad. "nasdaq 100" antes que
// "nasdaq" no hace falta — colapsan al mismo instrumento.
var financeInstruments = []struct {
	name  string
	words []string
}{
	{"SP500", []string{"s&p 500", "s&p500", "sp500", "spx", "s and p"}},
	{"NASDAQ", []string{"nasdaq", "ndx"}},
	{"DOW", []string{"dow jones", "djia", "the dow"}},
	{"VIX", []string{"vix", "volatility index"}},
	{"GOLD", []string{"gold"}},
	{"SILVER", []string{"silver"}},
	{"OIL", []string{"crude oil", "wti", "brent", "oil price"}},
	{"NATGAS", []string{"natural gas", "natgas"}},
	{"EURUSD", []string{"eur/usd", "eurusd", "euro dollar"}},
	{"TREASURY_10Y", []string{"10-year", "10 year treasury", "10y yield"}},
}

// tickerTable mapea tickers de metadata por venue a instrumentos. Tabla de
// datos, no branches: añadir un venue nuevo es añadir filas.
var tickerTable = map[domain.Venue]map[string]string{
	domain.VenueKalshi: {
		"inx":    "SP500",
		"nasdaq": "NASDAQ",
		"gld":    "GOLD",
	},
	domain.VenuePolymarket: {
		"spx": "SP500",
		"ndx": "NASDAQ",
	},
}

// tickerDeny lista prefijos de ticker que NO deben tratarse como
// instrumentos financieros aunque lo parezcan (series internas del venue).
var tickerDeny = map[domain.Venue][]string{
	domain.VenueKalshi: {"kx", "test"},
}

type Finance struct {
	vocab Vocab
}

func NewFinance() *Finance {
	v := DefaultVocab()
	v.GEWords = append([]string{"close above", "closes above", "finish above"}, v.GEWords...)
	v.LEWords = append([]string{"close below", "closes below", "finish below"}, v.LEWords...)
	return &Finance{vocab: v}
}

func (f *Finance) Topic() domain.Topic { return domain.TopicFinance }

func (f *Finance) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return f.ExtractFinance(title, closeTime, meta).Signal
}

func (f *Finance) ExtractFinance(title string, closeTime time.Time, meta map[string]string) FinanceSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := FinanceSignal{}
	sig.Topic = domain.TopicFinance

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded, sig.ExcludeReason = true, reason
	}

	sig.Instrument = classifyInstrument(lower, meta)
	sig.Entity = sig.Instrument

	sig.Numbers = ExtractNumbers(title)
	sig.Comparator = ParseComparator(title, f.vocab)
	sig.Date = ParseDate(title, closeTime)

	switch {
	case sig.Comparator == domain.ComparatorBetween:
		sig.Kind = "RANGE"
	case len(sig.Numbers) > 0 && sig.Comparator != domain.ComparatorUnknown:
		sig.Kind = "LEVEL_TARGET"
	default:
		sig.Kind = "OTHER"
	}

	sig.Quality = domain.Quality{
		MissingEntity: sig.Instrument == "",
		MissingDate:   sig.Date.IsZero(),
		MissingNumber: len(sig.Numbers) == 0,
		LowConfidence: sig.Comparator == domain.ComparatorUnknown,
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}

func classifyInstrument(lower string, meta map[string]string) string {
	if meta != nil {
		venue := domain.Venue(meta["venue"])
		ticker := strings.ToLower(meta["ticker"])
		if ticker != "" {
			for _, deny := range tickerDeny[venue] {
				if strings.HasPrefix(ticker, deny) {
					return ""
				}
			}
			if inst, ok := tickerTable[venue][ticker]; ok {
				return inst
			}
		}
	}
	for _, inst := range financeInstruments {
		for _, w := range inst.words {
			if strings.Contains(lower, w) {
				return inst.name
			}
		}
	}
	return ""
}
