package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// MacroSignal es la variante para indicadores económicos: la fecha es el
// período de referencia del dato (mes/trimestre), no un día de calendario.
type MacroSignal struct {
	domain.Signal
	Metric string // CPI, GDP, UNEMPLOYMENT...
}

// macroMetrics en orden de prioridad. "core cpi" antes que "cpi" para no
// colapsar dos métricas distintas en una.
var macroMetrics = []struct {
	name  string
	words []string
}{
	{"CORE_CPI", []string{"core cpi", "core inflation"}},
	{"CPI", []string{"cpi", "consumer price", "inflation"}},
	{"GDP", []string{"gdp", "gross domestic"}},
	{"UNEMPLOYMENT", []string{"unemployment", "jobless"}},
	{"NFP", []string{"nonfarm", "non farm", "payrolls"}},
	{"PCE", []string{"pce", "personal consumption"}},
	{"RETAIL_SALES", []string{"retail sales"}},
	{"RECESSION", []string{"recession"}},
}

// Macro extrae señales de mercados sobre datos económicos.
type Macro struct {
	vocab Vocab
}

func NewMacro() *Macro {
	v := DefaultVocab()
	v.GEWords = append([]string{"come in above", "print above", "comes in above"}, v.GEWords...)
	v.LEWords = append([]string{"come in below", "print below", "comes in below"}, v.LEWords...)
	return &Macro{vocab: v}
}

func (m *Macro) Topic() domain.Topic { return domain.TopicMacro }

func (m *Macro) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return m.ExtractMacro(title, closeTime, meta).Signal
}

// ExtractMacro clasifica la métrica y el período de referencia.
func (m *Macro) ExtractMacro(title string, closeTime time.Time, meta map[string]string) MacroSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := MacroSignal{}
	sig.Topic = domain.TopicMacro

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded, sig.ExcludeReason = true, reason
	}

	for _, metric := range macroMetrics {
		for _, w := range metric.words {
			if strings.Contains(lower, w) {
				sig.Metric = metric.name
				break
			}
		}
		if sig.Metric != "" {
			break
		}
	}
	sig.Entity = sig.Metric
	sig.Kind = sig.Metric

	sig.Numbers = ExtractNumbers(title)
	sig.Comparator = ParseComparator(title, m.vocab)
	sig.Date = ParseDate(title, closeTime)

	// el período del dato suele ser el mes anterior al release: si el
	// título solo trae mes+año lo tomamos tal cual — los dos venues
	// nombran el mismo período de referencia.
	sig.Quality = domain.Quality{
		MissingEntity: sig.Metric == "",
		MissingDate:   sig.Date.IsZero(),
		MissingNumber: len(sig.Numbers) == 0,
		LowConfidence: sig.Comparator == domain.ComparatorUnknown,
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}
