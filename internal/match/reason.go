package match

import (
	"fmt"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Diagnostics es el registro tipado de diagnóstico de un scoring. Se
// serializa a la gramática de reason string solo en el borde (persistencia
// y logs); dentro del proceso viaja como struct. Los rule engines re-parsean
// el string porque los links persisten como texto y vuelven de la DB así.
//
// Dos gramáticas, una por familia de dominios:
//
//	día:     v2 entity=BITCOIN dateType=day date=0.95(1d) num=1.00[overlap] text=0.42
//	período: MACRO: tier=STRONG me=1.00 per=1.00[exact](202601/202601) num=0.70 txt=0.35
//
// Cualquier cambio aquí exige cambio coordinado en internal/rules/reason.go.
type Diagnostics struct {
	Topic    domain.Topic
	Entity   string
	Tier     domain.Tier
	DateType string // day | month | quarter | year | none
	DateKind string // exact | adjacent | contained | none
	DayDiff  int    // -1 si no aplica (períodos)
	PeriodA  string // claves de período de cada lado, para la familia período
	PeriodB  string

	EntityScore float64
	DateScore   float64
	NumberScore float64
	TextScore   float64
	NumberCtx   string // overlap | gap | nonum | onesided

	EntityMismatch bool
	MismatchLeft   string
	MismatchRight  string
}

// periodFamily agrupa los dominios cuya fecha es un período de referencia,
// no un día de calendario. Usan la gramática con prefijo.
var periodFamily = map[domain.Topic]string{
	domain.TopicMacro:   "MACRO",
	domain.TopicRates:   "RATES",
	domain.TopicClimate: "CLIMATE",
}

// String serializa el diagnóstico a su gramática. Estable y versionado:
// el tooling de auditoría y los rule engines dependen del formato exacto.
func (d Diagnostics) String() string {
	if d.EntityMismatch {
		return fmt.Sprintf("entity mismatch: %s vs %s", d.MismatchLeft, d.MismatchRight)
	}

	if prefix, ok := periodFamily[d.Topic]; ok {
		return fmt.Sprintf("%s: tier=%s me=%.2f per=%.2f[%s](%s/%s) num=%.2f txt=%.2f",
			prefix, d.Tier, d.EntityScore, d.DateScore, d.DateKind,
			d.PeriodA, d.PeriodB, d.NumberScore, d.TextScore)
	}

	dayPart := ""
	if d.DayDiff >= 0 {
		dayPart = fmt.Sprintf("(%dd)", d.DayDiff)
	}
	return fmt.Sprintf("v2 entity=%s dateType=%s date=%.2f%s num=%.2f[%s] text=%.2f",
		d.Entity, d.DateType, d.DateScore, dayPart, d.NumberScore, d.NumberCtx, d.TextScore)
}
