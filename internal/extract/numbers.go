package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Extracción de umbrales numéricos. La trampa clásica es leer componentes
// de fecha como precios: "Jan 15" no es un umbral de 15, y "2026" no es un
// precio de 2026. Reglas de exclusión:
//
//   - dígitos 1–31 inmediatamente después de un token de mes → excluido
//   - valores sueltos 1900–2100 (años de calendario) → excluido
//   - cualquier componente de una fecha ISO YYYY-MM-DD → excluido
//
// Un símbolo de moneda o un sufijo de magnitud (k/m/b/t) anula las dos
// primeras exclusiones ("$2026" y "25k" sí son umbrales), nunca la tercera.

var numberRe = regexp.MustCompile(`(\$)?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)([kmbt])?\s*(%|percent|pct|bps)?`)

var magnitudeMultiplier = map[string]float64{
	"k": 1e3, "m": 1e6, "b": 1e9, "t": 1e12,
}

// ExtractNumbers devuelve los umbrales numéricos del título, ya escalados
// por magnitud, con unidad cuando es inferible.
func ExtractNumbers(title string) []domain.Threshold {
	var out []domain.Threshold
	lower := strings.ToLower(title)
	isoSpans := isoDateRe.FindAllStringIndex(lower, -1)

	for _, loc := range numberRe.FindAllStringSubmatchIndex(lower, -1) {
		currency := group(lower, loc, 1)
		raw := group(lower, loc, 2)
		magnitude := group(lower, loc, 3)
		unitTok := group(lower, loc, 4)

		// descartar dígitos pegados a una palabra: el "3" de "q3", el "500" de "sp500"
		if ds := loc[4]; ds > 0 && lower[ds-1] >= 'a' && lower[ds-1] <= 'z' {
			continue
		}

		// el 03 y el 15 de "2026-03-15" son componentes de fecha, no precios
		if insideISODate(isoSpans, loc[4], loc[5]) {
			continue
		}

		// un sufijo de magnitud pegado a más letras no es magnitud: "4th", "30bps"
		if magnitude != "" {
			if end := loc[7]; end < len(lower) && lower[end] >= 'a' && lower[end] <= 'z' {
				magnitude = ""
			}
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}

		hasOverride := currency != "" || magnitude != ""
		if !hasOverride && isExcludedAsDate(lower, loc[0], value, raw) {
			continue
		}

		if mult, ok := magnitudeMultiplier[magnitude]; ok {
			value *= mult
		}

		out = append(out, domain.Threshold{Value: value, Unit: unit(currency, unitTok)})
	}
	return out
}

// insideISODate reporta si el span [start,end) cae dentro de una fecha
// ISO YYYY-MM-DD ya localizada en el título.
func insideISODate(spans [][]int, start, end int) bool {
	for _, sp := range spans {
		if start >= sp[0] && end <= sp[1] {
			return true
		}
	}
	return false
}

// isExcludedAsDate aplica las reglas de exclusión por contexto de palabra.
func isExcludedAsDate(lower string, start int, value float64, raw string) bool {
	// año de calendario suelto
	if value >= 1900 && value <= 2100 && !strings.Contains(raw, ".") {
		return true
	}
	// día del mes justo después de un token de mes
	if value >= 1 && value <= 31 && !strings.Contains(raw, ".") {
		if _, ok := monthTokens[precedingWord(lower, start)]; ok {
			return true
		}
	}
	return false
}

// precedingWord devuelve la palabra inmediatamente anterior a la posición.
func precedingWord(s string, pos int) string {
	end := pos
	for end > 0 && !isWordByte(s[end-1]) {
		end--
	}
	start := end
	for start > 0 && isWordByte(s[start-1]) {
		start--
	}
	return s[start:end]
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func unit(currency, unitTok string) string {
	switch {
	case currency != "":
		return "usd"
	case unitTok == "%" || unitTok == "percent" || unitTok == "pct":
		return "pct"
	case unitTok == "bps":
		return "bps"
	default:
		return ""
	}
}

func group(s string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}
