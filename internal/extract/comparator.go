package extract

import (
	"strings"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Vocab parametriza el toolkit compartido por extractor. Los sets de
// keywords difieren sutilmente entre dominios y su orden de prioridad es
// parte del contrato observable — no reordenar.
type Vocab struct {
	GEWords  []string
	LEWords  []string
	WinWords []string
	// AllowBetween habilita la detección de rangos de dos lados.
	AllowBetween bool
}

// DefaultVocab es el vocabulario base que la mayoría de dominios extiende.
func DefaultVocab() Vocab {
	return Vocab{
		GEWords: []string{
			"at least", "or more", "above", "over", "exceed", "reach",
			"hit", "more than", "higher than", "greater than", "surpass",
		},
		LEWords: []string{
			"at most", "or less", "below", "under", "less than",
			"lower than", "fewer than", "fall to", "drop to", "dip under",
		},
		WinWords: []string{
			"to win", "wins", "win the", "winner", "beat", "beats", "defeat",
		},
		AllowBetween: true,
	}
}

// ParseComparator aplica la cadena de prioridad sobre el título:
// BETWEEN (rango de dos lados con números) → GE → LE → WIN → UNKNOWN.
// La primera familia que matchea gana.
func ParseComparator(title string, vocab Vocab) domain.Comparator {
	lower := " " + strings.ToLower(title) + " "

	if vocab.AllowBetween && hasBetweenRange(title, lower) {
		return domain.ComparatorBetween
	}
	for _, w := range vocab.GEWords {
		if strings.Contains(lower, " "+w+" ") {
			return domain.ComparatorGE
		}
	}
	for _, w := range vocab.LEWords {
		if strings.Contains(lower, " "+w+" ") {
			return domain.ComparatorLE
		}
	}
	for _, w := range vocab.WinWords {
		if strings.Contains(lower, " "+w+" ") {
			return domain.ComparatorWin
		}
	}
	return domain.ComparatorUnknown
}

// hasBetweenRange detecta phrasing de rango acotado por dos números:
// "between X and Y", "from X to Y", "X-Y range".
func hasBetweenRange(title, lower string) bool {
	nums := ExtractNumbers(title)
	if len(nums) < 2 {
		return false
	}
	if strings.Contains(lower, " between ") && strings.Contains(lower, " and ") {
		return true
	}
	if strings.Contains(lower, " from ") && strings.Contains(lower, " to ") {
		return true
	}
	if strings.Contains(lower, " range") {
		return true
	}
	return false
}
