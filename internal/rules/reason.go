package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// Los links persisten su diagnóstico como reason string y vuelven de la DB
// como texto, así que los rule engines re-parsean la gramática que serializa
// internal/match. Las dos gramáticas (familia día y familia período) son
// versionadas: cambiarlas allí exige cambiarlas aquí en el mismo commit.
//
//	día:     v2 entity=BITCOIN dateType=day date=0.95(1d) num=1.00[overlap] text=0.42
//	período: MACRO: tier=STRONG me=1.00 per=1.00[exact](202601/202601) num=0.70 txt=0.35
//	rechazo: entity mismatch: BITCOIN vs ETHEREUM

// ParsedReason es el diagnóstico recuperado de un reason string. Los campos
// que la gramática de la familia no lleva quedan en su valor cero.
type ParsedReason struct {
	Valid  bool   // false si el string no casa con ninguna gramática conocida
	Family string // "day" | "period" | "mismatch"

	Entity   string
	Tier     string
	DateType string // day | month | quarter | year | none (solo familia día)

	DateScore   float64
	DayDiff     int // -1 si la gramática no lo lleva
	NumberScore float64
	NumberCtx   string // overlap | gap | nonum | onesided (solo familia día)
	TextScore   float64

	PeriodKind string // exact | contained | none (solo familia período)
	PeriodA    string
	PeriodB    string

	MismatchLeft  string
	MismatchRight string
}

// EntityMismatch indica que el scorer rechazó el par en el gate de entity.
func (p ParsedReason) EntityMismatch() bool { return p.Family == "mismatch" }

var (
	mismatchRe = regexp.MustCompile(`^entity mismatch: (\S+) vs (\S+)$`)
	dayRe      = regexp.MustCompile(`^v2 entity=(\S+) dateType=(\S+) date=([\d.]+)(?:\((\d+)d\))? num=([\d.]+)\[(\w+)\] text=([\d.]+)$`)
	periodRe   = regexp.MustCompile(`^([A-Z]+): tier=(\S+) me=([\d.]+) per=([\d.]+)\[(\w+)\]\(([^/]*)/([^)]*)\) num=([\d.]+) txt=([\d.]+)$`)
)

// ParseReason reconoce la gramática del string y extrae el diagnóstico.
// Un string que no casa con ninguna devuelve Valid=false — los engines lo
// tratan como "sin información", nunca como error.
func ParseReason(reason string) ParsedReason {
	reason = strings.TrimSpace(reason)

	if m := mismatchRe.FindStringSubmatch(reason); m != nil {
		return ParsedReason{
			Valid:         true,
			Family:        "mismatch",
			MismatchLeft:  m[1],
			MismatchRight: m[2],
			DayDiff:       -1,
		}
	}

	if m := dayRe.FindStringSubmatch(reason); m != nil {
		p := ParsedReason{
			Valid:       true,
			Family:      "day",
			Entity:      m[1],
			DateType:    m[2],
			DateScore:   parseScore(m[3]),
			DayDiff:     -1,
			NumberScore: parseScore(m[5]),
			NumberCtx:   m[6],
			TextScore:   parseScore(m[7]),
		}
		if m[4] != "" {
			p.DayDiff, _ = strconv.Atoi(m[4])
		}
		return p
	}

	if m := periodRe.FindStringSubmatch(reason); m != nil {
		return ParsedReason{
			Valid:       true,
			Family:      "period",
			Tier:        m[2],
			DateScore:   parseScore(m[4]),
			DayDiff:     -1,
			PeriodKind:  m[5],
			PeriodA:     m[6],
			PeriodB:     m[7],
			NumberScore: parseScore(m[8]),
			TextScore:   parseScore(m[9]),
		}
	}

	return ParsedReason{DayDiff: -1}
}

func parseScore(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
