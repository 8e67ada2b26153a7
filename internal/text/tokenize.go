package text

import "strings"

// Tokenize pasa el texto a minúsculas, colapsa cualquier secuencia de
// caracteres no alfanuméricos en un separador y descarta tokens vacíos.
// Determinista y ASCII-only: mismo input → mismos tokens, siempre.
func Tokenize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	lastSep := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSep = false
		} else if !lastSep {
			b.WriteByte(' ')
			lastSep = true
		}
	}
	out := strings.Fields(b.String())
	return out
}

// Clean devuelve el texto tokenizado re-unido con espacios simples.
func Clean(s string) string {
	return strings.Join(Tokenize(s), " ")
}

// TokenSet devuelve los tokens como set, para similitud Jaccard.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard calcula |A∩B| / |A∪B| sobre los token sets de ambos textos.
// Devuelve 0 si alguno está vacío.
func Jaccard(a, b string) float64 {
	sa, sb := TokenSet(a), TokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}
