package domain

import (
	"fmt"
	"time"
)

// Comparator es la dirección del umbral numérico de un mercado.
type Comparator string

const (
	ComparatorGE      Comparator = "GE"
	ComparatorLE      Comparator = "LE"
	ComparatorBetween Comparator = "BETWEEN"
	ComparatorEQ      Comparator = "EQ"
	ComparatorWin     Comparator = "WIN"
	ComparatorUnknown Comparator = "UNKNOWN"
)

// Canonical colapsa sinónimos direccionales a GE/LE para claves de bracket.
// GT/ABOVE/REACH/HIT → GE; LT/BELOW → LE. Valores ya canónicos pasan tal cual.
func (c Comparator) Canonical() Comparator {
	switch c {
	case "GT", "ABOVE", "REACH", "HIT", ComparatorGE:
		return ComparatorGE
	case "LT", "BELOW", ComparatorLE:
		return ComparatorLE
	case "", ComparatorUnknown:
		return ComparatorUnknown
	default:
		return c
	}
}

// DatePrecision ordena de más fina a más gruesa. Una fecha nunca mezcla
// precisiones: o es un día concreto, o un mes, o un trimestre, o un año.
type DatePrecision int

const (
	PrecisionNone DatePrecision = iota
	PrecisionYear
	PrecisionQuarter
	PrecisionMonth
	PrecisionDay
)

// String devuelve el tag de precisión usado en reason strings.
func (p DatePrecision) String() string {
	switch p {
	case PrecisionDay:
		return "day"
	case PrecisionMonth:
		return "month"
	case PrecisionQuarter:
		return "quarter"
	case PrecisionYear:
		return "year"
	default:
		return "none"
	}
}

// ExtractedDate es una fecha (o período) extraída de un título.
// Solo los campos cubiertos por Precision son válidos: un PrecisionMonth
// tiene Year y Month pero Day==0; un PrecisionQuarter usa Quarter.
type ExtractedDate struct {
	Year      int
	Month     int
	Day       int
	Quarter   int
	Precision DatePrecision
}

// IsZero devuelve true si no se extrajo ninguna fecha.
func (d ExtractedDate) IsZero() bool {
	return d.Precision == PrecisionNone
}

// Key devuelve la clave canónica del período: YYYYMMDD, YYYYMM, YYYYQn o YYYY.
func (d ExtractedDate) Key() string {
	switch d.Precision {
	case PrecisionDay:
		return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
	case PrecisionMonth:
		return fmt.Sprintf("%04d%02d", d.Year, d.Month)
	case PrecisionQuarter:
		return fmt.Sprintf("%04dQ%d", d.Year, d.Quarter)
	case PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	default:
		return ""
	}
}

// Time devuelve la fecha como time.Time (medianoche UTC) para fechas con
// precisión de día. Para otras precisiones devuelve el zero value.
func (d ExtractedDate) Time() time.Time {
	if d.Precision != PrecisionDay {
		return time.Time{}
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DayDiff devuelve la diferencia absoluta en días entre dos fechas day-precision.
// Devuelve -1 si alguna de las dos no es day-precision.
func (d ExtractedDate) DayDiff(other ExtractedDate) int {
	if d.Precision != PrecisionDay || other.Precision != PrecisionDay {
		return -1
	}
	diff := d.Time().Sub(other.Time()).Hours() / 24
	if diff < 0 {
		diff = -diff
	}
	return int(diff)
}

// Threshold es un umbral numérico extraído del título, con unidad opcional.
type Threshold struct {
	Value float64
	Unit  string // "usd", "pct", "bps", "" si desconocida
}

// Quality marca qué campos faltaron o llegaron degradados en la extracción.
// Ambigüedad NO es un error: se representa aquí y baja la confianza.
type Quality struct {
	MissingEntity bool
	MissingDate   bool
	MissingNumber bool
	LowConfidence bool
}

// Penalización fija por campo ausente/degradado al calcular confianza.
const (
	penaltyMissingEntity = 0.40
	penaltyMissingDate   = 0.25
	penaltyMissingNumber = 0.20
	penaltyLowConfidence = 0.15
)

// Confidence devuelve 1.0 menos las penalizaciones acumuladas, con suelo en 0.
func (q Quality) Confidence() float64 {
	c := 1.0
	if q.MissingEntity {
		c -= penaltyMissingEntity
	}
	if q.MissingDate {
		c -= penaltyMissingDate
	}
	if q.MissingNumber {
		c -= penaltyMissingNumber
	}
	if q.LowConfidence {
		c -= penaltyLowConfidence
	}
	if c < 0 {
		return 0
	}
	return c
}

// Signal es la capacidad común de todas las señales de dominio: lo que el
// fingerprint builder y el scorer necesitan, independiente del topic.
// Cada extractor la embebe en su variante y añade sus campos propios.
// Efímera: se recalcula en cada run, nunca se persiste.
type Signal struct {
	Topic      Topic
	Kind       string // tipo de mercado dentro del topic (TOTAL, PRICE_TARGET, CPI...)
	Entity     string // entidad canónica: asset, métrica, event key, región...
	Date       ExtractedDate
	Numbers    []Threshold
	Comparator Comparator
	Quality    Quality
	Confidence float64

	// Excluded marca títulos que nunca deben ser candidatos de matching
	// (props, parlays, live trading), independientemente del score.
	Excluded      bool
	ExcludeReason string
}
