package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/text"
)

// Parsing de fechas compartido por los siete extractores. La cadena de
// prioridad está fijada por contrato (ver también el scorer, que asume que
// una fecha day-precision le gana siempre a un período):
//
//	día explícito > mes+año > "end of / by <año>" > Qn+año >
//	año suelto tras preposición de deadline > ISO YYYY-MM-DD
//
// Primera regla que matchea gana; nunca se mezclan precisiones.

var monthTokens = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// deadlinePrepositions habilitan un año suelto como fecha de resolución.
var deadlinePrepositions = map[string]bool{
	"by": true, "in": true, "before": true, "until": true, "during": true,
}

var isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

// maxDeadlineDistance es la distancia máxima (en tokens, ~20 caracteres)
// entre la preposición de deadline y el año suelto.
const maxDeadlineDistance = 3

// ParseDate extrae la fecha/período del título aplicando la cadena de
// prioridad. closeTime (si no es zero) aporta el año cuando el título trae
// día+mes sin año. Devuelve el zero value si no hay fecha extraíble.
func ParseDate(title string, closeTime time.Time) domain.ExtractedDate {
	tokens := text.Tokenize(title)

	if d, ok := parseExplicitDay(tokens, closeTime); ok {
		return d
	}
	if d, ok := parseMonthYear(tokens); ok {
		return d
	}
	if d, ok := parseDeadlineYear(tokens); ok {
		return d
	}
	if d, ok := parseQuarterYear(tokens); ok {
		return d
	}
	if d, ok := parseBareYearAfterPreposition(tokens); ok {
		return d
	}
	if d, ok := parseISO(title); ok {
		return d
	}
	return domain.ExtractedDate{}
}

// parseExplicitDay busca "jan 15 2026", "15 january 2026" o "jan 15"
// (año inferido del close time).
func parseExplicitDay(tokens []string, closeTime time.Time) (domain.ExtractedDate, bool) {
	for i, tok := range tokens {
		month, isMonth := monthTokens[tok]
		if !isMonth {
			continue
		}

		// "jan 15 [2026]"
		if i+1 < len(tokens) {
			if day, ok := parseDayOfMonth(tokens[i+1]); ok {
				year := 0
				if i+2 < len(tokens) {
					year, _ = parseCalendarYear(tokens[i+2])
				}
				if year == 0 {
					year = inferYear(month, day, closeTime)
				}
				if year > 0 {
					return domain.ExtractedDate{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, true
				}
			}
		}

		// "15 january [2026]"
		if i > 0 {
			if day, ok := parseDayOfMonth(tokens[i-1]); ok {
				year := 0
				if i+1 < len(tokens) {
					year, _ = parseCalendarYear(tokens[i+1])
				}
				if year == 0 {
					year = inferYear(month, day, closeTime)
				}
				if year > 0 {
					return domain.ExtractedDate{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, true
				}
			}
		}
	}
	return domain.ExtractedDate{}, false
}

// parseMonthYear busca "january 2026" sin día.
func parseMonthYear(tokens []string) (domain.ExtractedDate, bool) {
	for i, tok := range tokens {
		month, isMonth := monthTokens[tok]
		if !isMonth || i+1 >= len(tokens) {
			continue
		}
		if year, ok := parseCalendarYear(tokens[i+1]); ok {
			return domain.ExtractedDate{Year: year, Month: month, Precision: domain.PrecisionMonth}, true
		}
	}
	return domain.ExtractedDate{}, false
}

// parseDeadlineYear busca "end of 2026" (year-end), "end of q2 2026"
// (quarter-end) y "by 2026" (deadline directo, año pegado a la preposición).
// "by early 2026" y similares caen en parseBareYearAfterPreposition.
func parseDeadlineYear(tokens []string) (domain.ExtractedDate, bool) {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == "by" {
			if year, ok := parseCalendarYear(tokens[i+1]); ok {
				return domain.ExtractedDate{Year: year, Precision: domain.PrecisionYear}, true
			}
		}
		if tokens[i] != "end" || tokens[i+1] != "of" {
			continue
		}
		rest := tokens[i+2:]
		if len(rest) == 0 {
			continue
		}
		if q, ok := parseQuarterToken(rest[0]); ok && len(rest) > 1 {
			if year, ok := parseCalendarYear(rest[1]); ok {
				return domain.ExtractedDate{Year: year, Quarter: q, Precision: domain.PrecisionQuarter}, true
			}
		}
		if year, ok := parseCalendarYear(rest[0]); ok {
			return domain.ExtractedDate{Year: year, Precision: domain.PrecisionYear}, true
		}
	}
	return domain.ExtractedDate{}, false
}

// parseQuarterYear busca "q3 2026" / "2026 q3".
func parseQuarterYear(tokens []string) (domain.ExtractedDate, bool) {
	for i, tok := range tokens {
		q, ok := parseQuarterToken(tok)
		if !ok {
			continue
		}
		if i+1 < len(tokens) {
			if year, ok := parseCalendarYear(tokens[i+1]); ok {
				return domain.ExtractedDate{Year: year, Quarter: q, Precision: domain.PrecisionQuarter}, true
			}
		}
		if i > 0 {
			if year, ok := parseCalendarYear(tokens[i-1]); ok {
				return domain.ExtractedDate{Year: year, Quarter: q, Precision: domain.PrecisionQuarter}, true
			}
		}
	}
	return domain.ExtractedDate{}, false
}

// parseBareYearAfterPreposition acepta un año suelto solo si viene poco
// después de una preposición de deadline ("by 2026", "before 2027").
func parseBareYearAfterPreposition(tokens []string) (domain.ExtractedDate, bool) {
	for i, tok := range tokens {
		year, ok := parseCalendarYear(tok)
		if !ok {
			continue
		}
		for back := 1; back <= maxDeadlineDistance && i-back >= 0; back++ {
			if deadlinePrepositions[tokens[i-back]] {
				return domain.ExtractedDate{Year: year, Precision: domain.PrecisionYear}, true
			}
		}
	}
	return domain.ExtractedDate{}, false
}

func parseISO(title string) (domain.ExtractedDate, bool) {
	m := isoDateRe.FindStringSubmatch(title)
	if m == nil {
		return domain.ExtractedDate{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return domain.ExtractedDate{}, false
	}
	return domain.ExtractedDate{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, true
}

func parseDayOfMonth(tok string) (int, bool) {
	// tolerar ordinales: "1st", "22nd", "3rd", "15th"
	tok = strings.TrimSuffix(tok, "st")
	tok = strings.TrimSuffix(tok, "nd")
	tok = strings.TrimSuffix(tok, "rd")
	tok = strings.TrimSuffix(tok, "th")
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

func parseCalendarYear(tok string) (int, bool) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1900 || n > 2100 {
		return 0, false
	}
	return n, true
}

func parseQuarterToken(tok string) (int, bool) {
	if len(tok) != 2 || tok[0] != 'q' {
		return 0, false
	}
	q := int(tok[1] - '0')
	if q < 1 || q > 4 {
		return 0, false
	}
	return q, true
}

// inferYear completa el año de un día+mes sin año usando el close time.
// Si el mes extraído queda muy por detrás del close time, asume año siguiente.
func inferYear(month, day int, closeTime time.Time) int {
	if closeTime.IsZero() {
		return 0
	}
	year := closeTime.Year()
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(closeTime.AddDate(0, -6, 0)) {
		return year + 1
	}
	return year
}
