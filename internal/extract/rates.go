package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// RatesSignal cubre decisiones de tipos de interés: banco central, acción
// (cut/hike/hold) y tamaño del movimiento en bps.
type RatesSignal struct {
	domain.Signal
	CentralBank string // FED, ECB, BOE, BOJ
	Action      string // CUT | HIKE | HOLD | ""
	BPS         float64
}

var centralBanks = []struct {
	name  string
	words []string
}{
	{"FED", []string{"fed ", "fomc", "federal reserve", "federal funds", "powell"}},
	{"ECB", []string{"ecb", "european central bank", "lagarde"}},
	{"BOE", []string{"boe", "bank of england"}},
	{"BOJ", []string{"boj", "bank of japan"}},
}

// rateActions en orden de prioridad: un título con "cut" y "hold" es CUT.
var rateActions = []struct {
	name  string
	words []string
}{
	{"CUT", []string{"cut", "lower rates", "ease", "easing"}},
	{"HIKE", []string{"hike", "raise rates", "increase rates", "tightening"}},
	{"HOLD", []string{"hold", "unchanged", "no change", "pause"}},
}

type Rates struct {
	vocab Vocab
}

func NewRates() *Rates {
	v := DefaultVocab()
	v.GEWords = append([]string{"or higher"}, v.GEWords...)
	v.LEWords = append([]string{"or lower"}, v.LEWords...)
	return &Rates{vocab: v}
}

func (r *Rates) Topic() domain.Topic { return domain.TopicRates }

func (r *Rates) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return r.ExtractRates(title, closeTime, meta).Signal
}

func (r *Rates) ExtractRates(title string, closeTime time.Time, meta map[string]string) RatesSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := RatesSignal{}
	sig.Topic = domain.TopicRates

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded, sig.ExcludeReason = true, reason
	}

	for _, cb := range centralBanks {
		for _, w := range cb.words {
			if strings.Contains(lower, w) {
				sig.CentralBank = cb.name
				break
			}
		}
		if sig.CentralBank != "" {
			break
		}
	}

	for _, action := range rateActions {
		for _, w := range action.words {
			if strings.Contains(lower, w) {
				sig.Action = action.name
				break
			}
		}
		if sig.Action != "" {
			break
		}
	}

	sig.Numbers = ExtractNumbers(title)
	for _, n := range sig.Numbers {
		if n.Unit == "bps" || (n.Value == 25 || n.Value == 50 || n.Value == 75 || n.Value == 100) {
			sig.BPS = n.Value
			break
		}
	}

	sig.Comparator = ParseComparator(title, r.vocab)
	// "no change"/"hold" es igualdad sobre el rango actual
	if sig.Action == "HOLD" && sig.Comparator == domain.ComparatorUnknown {
		sig.Comparator = domain.ComparatorEQ
	}

	sig.Date = ParseDate(title, closeTime)

	if sig.CentralBank != "" {
		sig.Entity = sig.CentralBank
		if sig.Action != "" {
			sig.Entity += ":" + sig.Action
		}
	}
	sig.Kind = sig.Action

	sig.Quality = domain.Quality{
		MissingEntity: sig.CentralBank == "",
		MissingDate:   sig.Date.IsZero(),
		MissingNumber: sig.Action != "HOLD" && sig.BPS == 0,
		LowConfidence: sig.Action == "",
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}
