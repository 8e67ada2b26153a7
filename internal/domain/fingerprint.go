package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Intent clasifica la estructura del mercado a grandes rasgos.
type Intent string

const (
	IntentPriceDate  Intent = "PRICE_DATE"  // precio + fecha día + comparador
	IntentElection   Intent = "ELECTION"    // keyword electoral
	IntentMetricDate Intent = "METRIC_DATE" // métrica macro + cualquier fecha
	IntentGeneral    Intent = "GENERAL"
)

// Fingerprint es el resumen canónico cross-domain de un título: entidades,
// números, fechas, comparador e intent. Su Key() string es contrato estable
// consumido por tooling de auditoría — no cambiar el formato a la ligera.
type Fingerprint struct {
	Entities   []string // ordenadas y deduplicadas
	Numbers    []float64
	Dates      []ExtractedDate
	Comparator Comparator
	Intent     Intent
}

// Key construye la clave canónica:
//
//	ENTITY[+ENTITY]|N<num>|D<YYYYMMDD|YYYYMM|YYYY>|<COMPARATOR>
//
// Los segmentos ausentes se omiten. Si no hay nada, devuelve "UNKNOWN".
func (f Fingerprint) Key() string {
	var parts []string

	if len(f.Entities) > 0 {
		ents := make([]string, len(f.Entities))
		for i, e := range f.Entities {
			ents[i] = strings.ToUpper(strings.ReplaceAll(e, " ", "_"))
		}
		parts = append(parts, strings.Join(ents, "+"))
	}
	if len(f.Numbers) > 0 {
		parts = append(parts, "N"+formatNumber(f.Numbers[0]))
	}
	if len(f.Dates) > 0 && !f.Dates[0].IsZero() {
		parts = append(parts, "D"+f.Dates[0].Key())
	}
	if f.Comparator != "" && f.Comparator != ComparatorUnknown {
		parts = append(parts, string(f.Comparator))
	}

	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// PrimaryEntity devuelve la primera entidad, o "" si no hay.
func (f Fingerprint) PrimaryEntity() string {
	if len(f.Entities) == 0 {
		return ""
	}
	return f.Entities[0]
}

// PrimaryDate devuelve la primera fecha extraída, o el zero value.
func (f Fingerprint) PrimaryDate() ExtractedDate {
	if len(f.Dates) == 0 {
		return ExtractedDate{}
	}
	return f.Dates[0]
}

// Normalize ordena y deduplica entidades y ordena números ascendente.
// Idempotente; llamar siempre antes de exponer el fingerprint.
func (f *Fingerprint) Normalize() {
	if len(f.Entities) > 1 {
		sort.Strings(f.Entities)
		f.Entities = dedupStrings(f.Entities)
	}
	sort.Float64s(f.Numbers)
}

func dedupStrings(sorted []string) []string {
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

// formatNumber imprime sin ceros sobrantes: 100000 → "100000", 220.5 → "220.5".
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
