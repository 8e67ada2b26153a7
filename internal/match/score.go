package match

import (
	"math"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/text"
)

// Scoring por pares con hard gates. Los gates se evalúan primero y
// cortocircuitan a reject — distinguen "ineligible para puntuar" de
// "puntuó bajo". Un par que pasa los gates recibe un score ponderado:
//
//	score = wE·entityScore + wD·dateScore + wN·numberScore + wT·textScore
//
// con pesos fijos por dominio que suman 1.0.

// Weights son los pesos de sub-score por dominio.
type Weights struct {
	Entity, Date, Number, Text float64
}

// topicWeights: tablas fijas por dominio, parte del contrato observable.
var topicWeights = map[domain.Topic]Weights{
	domain.TopicCrypto:    {0.45, 0.35, 0.15, 0.05},
	domain.TopicFinance:   {0.45, 0.35, 0.15, 0.05},
	domain.TopicSports:    {0.50, 0.35, 0.05, 0.10},
	domain.TopicElections: {0.50, 0.30, 0.05, 0.15},
	domain.TopicMacro:     {0.40, 0.35, 0.15, 0.10},
	domain.TopicRates:     {0.40, 0.30, 0.20, 0.10},
	domain.TopicClimate:   {0.40, 0.30, 0.20, 0.10},
}

// dateDecay son los breakpoints de decaimiento por distancia. within1
// difiere por dominio: un día de desfase en crypto suele ser skew de
// timezone del venue (0.95), en deportes es otro partido (0.60).
type dateDecay struct {
	within1, within7, within30, within90 float64
}

var topicDecay = map[domain.Topic]dateDecay{
	domain.TopicCrypto:    {0.95, 0.8, 0.5, 0.2},
	domain.TopicFinance:   {0.95, 0.8, 0.5, 0.2},
	domain.TopicSports:    {0.60, 0.8, 0.5, 0.2},
	domain.TopicElections: {0.95, 0.8, 0.5, 0.2},
	domain.TopicMacro:     {0.60, 0.8, 0.5, 0.2},
	domain.TopicRates:     {0.60, 0.8, 0.5, 0.2},
	domain.TopicClimate:   {0.95, 0.8, 0.5, 0.2},
}

// containedPeriodScore es el dateScore cuando un día cae dentro del mes
// declarado por el otro lado (coarsening documentado para la familia período).
const containedPeriodScore = 0.6

// Scorer puntúa pares de candidatos de un mismo topic.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score evalúa el par. Devuelve (resultado, true) si el par pasó los hard
// gates; (resultado con Rejected, false) si no. El reason string del
// resultado siempre queda poblado — también en los rechazos, porque los
// rule engines lo consumen.
func (s *Scorer) Score(left, right Candidate) (domain.ScoreResult, bool) {
	topic := left.Signal.Topic

	// gate 1: entity idéntica
	if left.Signal.Entity == "" || left.Signal.Entity != right.Signal.Entity {
		d := Diagnostics{
			Topic:          topic,
			EntityMismatch: true,
			MismatchLeft:   orUnknown(left.Signal.Entity),
			MismatchRight:  orUnknown(right.Signal.Entity),
		}
		return domain.ScoreResult{Rejected: true, Tier: domain.TierWeak, Reason: d.String()}, false
	}

	// gate 2: compatibilidad de tipo de fecha
	dateKind, dayDiff, ok := dateCompatibility(left.Signal, right.Signal, topic)
	if !ok {
		d := Diagnostics{
			Topic:    topic,
			Entity:   left.Signal.Entity,
			Tier:     domain.TierWeak,
			DateType: left.Signal.Date.Precision.String(),
			DateKind: "incompatible",
			DayDiff:  dayDiff,
			PeriodA:  orUnknown(left.Signal.Date.Key()),
			PeriodB:  orUnknown(right.Signal.Date.Key()),
		}
		return domain.ScoreResult{Rejected: true, Tier: domain.TierWeak, Reason: d.String()}, false
	}

	w := topicWeights[topic]
	entityScore := 1.0
	dateScore := scoreDates(left.Signal, right.Signal, dateKind, dayDiff, topic)
	numberScore, numberCtx := scoreNumbers(left.Signal.Numbers, right.Signal.Numbers)
	textScore := text.Jaccard(left.Record.Title, right.Record.Title)

	total := w.Entity*entityScore + w.Date*dateScore + w.Number*numberScore + w.Text*textScore

	tier := domain.TierWeak
	if dateKind == "exact" && numberScore >= 0.6 {
		tier = domain.TierStrong
	}

	d := Diagnostics{
		Topic:       topic,
		Entity:      left.Signal.Entity,
		Tier:        tier,
		DateType:    left.Signal.Date.Precision.String(),
		DateKind:    dateKind,
		DayDiff:     dayDiff,
		PeriodA:     left.Signal.Date.Key(),
		PeriodB:     right.Signal.Date.Key(),
		EntityScore: entityScore,
		DateScore:   dateScore,
		NumberScore: numberScore,
		TextScore:   textScore,
		NumberCtx:   numberCtx,
	}

	return domain.ScoreResult{
		Score:       total,
		EntityScore: entityScore,
		DateScore:   dateScore,
		NumberScore: numberScore,
		TextScore:   textScore,
		Tier:        tier,
		Reason:      d.String(),
	}, true
}

// dateCompatibility implementa el gate de tipos de fecha. Simétrica:
// compatible(a,b) == compatible(b,a).
//
//   - day↔day: compatible si |diff| ≤ 1; kind exact con diff 0, adjacent con 1
//   - month↔month, quarter↔quarter, year↔year: solo clave idéntica (exact)
//   - day↔month: SOLO en la familia período, si el día cae dentro del mes
//     (kind contained) — coarsening documentado, no generalizable
//   - cualquier otro cruce de tipos: incompatible
func dateCompatibility(a, b domain.Signal, topic domain.Topic) (kind string, dayDiff int, ok bool) {
	da, db := a.Date, b.Date

	if da.Precision == domain.PrecisionDay && db.Precision == domain.PrecisionDay {
		diff := da.DayDiff(db)
		switch {
		case diff == 0:
			return "exact", 0, true
		case diff == 1:
			return "adjacent", 1, true
		default:
			return "", diff, false
		}
	}

	if da.Precision == db.Precision {
		// ambos sin fecha: no es incompatibilidad, es ausencia — pasa el
		// gate con dateScore 0 y que el peso haga su trabajo
		if da.Precision == domain.PrecisionNone {
			return "none", -1, true
		}
		if da.Key() == db.Key() {
			return "exact", -1, true
		}
		return "", -1, false
	}

	// coarsening día-dentro-de-mes, solo familia período
	if _, isPeriod := periodFamily[topic]; isPeriod {
		if dayInMonth(da, db) || dayInMonth(db, da) {
			return "contained", -1, true
		}
	}

	return "", -1, false
}

func dayInMonth(day, month domain.ExtractedDate) bool {
	return day.Precision == domain.PrecisionDay &&
		month.Precision == domain.PrecisionMonth &&
		day.Year == month.Year && day.Month == month.Month
}

// scoreDates aplica la tabla de decaimiento del dominio.
func scoreDates(a, b domain.Signal, kind string, dayDiff int, topic domain.Topic) float64 {
	decay := topicDecay[topic]
	switch kind {
	case "exact":
		return 1.0
	case "contained":
		return containedPeriodScore
	case "adjacent":
		return decay.within1
	case "none":
		return 0
	}
	// distancia genérica para fechas day-precision (no alcanzable tras el
	// gate day-diff ≤ 1, pero la tabla es contrato completo)
	switch {
	case dayDiff <= 7:
		return decay.within7
	case dayDiff <= 30:
		return decay.within30
	case dayDiff <= 90:
		return decay.within90
	default:
		return 0
	}
}

// scoreNumbers: 1.0 si los rangos de umbral se solapan; si no, graduado
// por gap relativo (<1% → 0.9, <5% → 0.7, <10% → 0.4, si no 0).
func scoreNumbers(a, b []domain.Threshold) (float64, string) {
	if len(a) == 0 && len(b) == 0 {
		return 1.0, "nonum"
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.5, "onesided"
	}

	aMin, aMax := thresholdRange(a)
	bMin, bMax := thresholdRange(b)
	if aMin <= bMax && bMin <= aMax {
		return 1.0, "overlap"
	}

	aMid, bMid := (aMin+aMax)/2, (bMin+bMax)/2
	denom := math.Max(math.Abs(aMid), math.Abs(bMid))
	if denom == 0 {
		return 0, "gap"
	}
	gap := math.Abs(aMid-bMid) / denom
	switch {
	case gap < 0.01:
		return 0.9, "gap"
	case gap < 0.05:
		return 0.7, "gap"
	case gap < 0.10:
		return 0.4, "gap"
	default:
		return 0, "gap"
	}
}

func thresholdRange(ts []domain.Threshold) (min, max float64) {
	min, max = ts[0].Value, ts[0].Value
	for _, t := range ts[1:] {
		if t.Value < min {
			min = t.Value
		}
		if t.Value > max {
			max = t.Value
		}
	}
	return min, max
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}
