package match

import (
	"sort"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Bracket dedup: varios mercados del mismo evento que solo difieren en el
// umbral numérico ("BTC > 95k", "BTC > 100k", "BTC > 105k") forman un
// bracket. En vez de sugerir todos, se retiene un conjunto representativo
// acotado y el resto se descarta con contadores — nunca en silencio.

// BracketGroup es un bracket agrupado con su mejor score.
type BracketGroup struct {
	Key       string
	Members   []domain.ScoredPair
	BestScore float64
}

// Estrategias de selección de representante.
const (
	StrategyBestScore        = "best_score"
	StrategyCentralThreshold = "central_threshold"
)

// GroupingLimits acota cuántos brackets y cuántas líneas por bracket
// sobreviven por mercado izquierdo.
type GroupingLimits struct {
	MaxGroupsPerLeft int
	MaxLinesPerGroup int
}

// GroupingStats conserva la contabilidad del dedup. Invariante:
// SavedCandidates + DroppedByGroupLimit + DroppedWithinGroups == total input.
type GroupingStats struct {
	SavedCandidates     int
	DroppedByGroupLimit int
	DroppedWithinGroups int
}

// BuildBracketKey construye "entity|date|comparator" con el comparador
// normalizado a canónico (GT/ABOVE/REACH/HIT → GE, LT/BELOW → LE).
// Inputs ausentes se materializan como el literal UNKNOWN.
func BuildBracketKey(entity string, date domain.ExtractedDate, comp domain.Comparator) string {
	e := entity
	if e == "" {
		e = "UNKNOWN"
	}
	d := date.Key()
	if d == "" {
		d = "UNKNOWN"
	}
	return e + "|" + d + "|" + string(comp.Canonical())
}

// GroupByBracket agrupa pares puntuados por su clave de bracket,
// preservando el orden de primera aparición de cada clave.
func GroupByBracket(pairs []domain.ScoredPair) []BracketGroup {
	byKey := make(map[string]int)
	var groups []BracketGroup

	for _, p := range pairs {
		i, seen := byKey[p.Bracket]
		if !seen {
			i = len(groups)
			byKey[p.Bracket] = i
			groups = append(groups, BracketGroup{Key: p.Bracket})
		}
		groups[i].Members = append(groups[i].Members, p)
		if p.Result.Score > groups[i].BestScore {
			groups[i].BestScore = p.Result.Score
		}
	}
	return groups
}

// SelectRepresentative elige el miembro representativo del bracket.
//
//   - best_score: máximo score
//   - central_threshold: el miembro cuyo umbral es la mediana estadística
//     de los umbrales del grupo (empate → más cercano a la mediana, luego
//     menor id de mercado, para que la selección sea determinista)
func SelectRepresentative(g BracketGroup, strategy string) domain.ScoredPair {
	if len(g.Members) == 0 {
		return domain.ScoredPair{}
	}

	switch strategy {
	case StrategyCentralThreshold:
		med := medianThreshold(g.Members)
		best := g.Members[0]
		for _, m := range g.Members[1:] {
			if closerToMedian(m, best, med) {
				best = m
			}
		}
		return best
	default: // best_score
		best := g.Members[0]
		for _, m := range g.Members[1:] {
			if m.Result.Score > best.Result.Score {
				best = m
			}
		}
		return best
	}
}

func closerToMedian(candidate, current domain.ScoredPair, med float64) bool {
	dc := abs(candidate.Threshold - med)
	dcur := abs(current.Threshold - med)
	if dc != dcur {
		return dc < dcur
	}
	return candidate.Left.ID < current.Left.ID
}

func medianThreshold(members []domain.ScoredPair) float64 {
	vals := make([]float64, len(members))
	for i, m := range members {
		vals[i] = m.Threshold
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// ApplyBracketGrouping aplica los límites por mercado izquierdo: ordena
// los brackets de cada left por mejor score descendente, retiene los top
// N brackets y dentro de cada uno las top M líneas. El orden dentro del
// bracket depende de la estrategia: best_score ordena por score; con
// central_threshold el representante de la mediana va primero y el resto
// por score. Devuelve los supervivientes más los contadores de descarte.
func ApplyBracketGrouping(pairs []domain.ScoredPair, strategy string, limits GroupingLimits) ([]domain.ScoredPair, GroupingStats) {
	var stats GroupingStats
	if len(pairs) == 0 {
		return nil, stats
	}

	byLeft := make(map[string][]domain.ScoredPair)
	var leftOrder []string
	for _, p := range pairs {
		key := p.Left.Ref().String()
		if _, ok := byLeft[key]; !ok {
			leftOrder = append(leftOrder, key)
		}
		byLeft[key] = append(byLeft[key], p)
	}

	var kept []domain.ScoredPair
	for _, leftKey := range leftOrder {
		groups := GroupByBracket(byLeft[leftKey])
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].BestScore > groups[j].BestScore
		})

		for gi, g := range groups {
			if limits.MaxGroupsPerLeft > 0 && gi >= limits.MaxGroupsPerLeft {
				stats.DroppedByGroupLimit += len(g.Members)
				continue
			}

			for mi, m := range orderMembers(g, strategy) {
				if limits.MaxLinesPerGroup > 0 && mi >= limits.MaxLinesPerGroup {
					stats.DroppedWithinGroups++
					continue
				}
				kept = append(kept, m)
			}
		}
	}

	stats.SavedCandidates = len(kept)
	return kept, stats
}

// orderMembers ordena los miembros de un bracket para el corte top-M:
// el representante de la estrategia primero, el resto por score.
func orderMembers(g BracketGroup, strategy string) []domain.ScoredPair {
	members := append([]domain.ScoredPair(nil), g.Members...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Result.Score > members[j].Result.Score
	})
	if strategy != StrategyCentralThreshold {
		return members
	}

	rep := SelectRepresentative(g, strategy)
	out := []domain.ScoredPair{rep}
	for _, m := range members {
		if m.Left.ID == rep.Left.ID && m.Right.ID == rep.Right.ID {
			continue
		}
		out = append(out, m)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
