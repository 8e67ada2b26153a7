package match

import (
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/extract"
)

// Candidate es un record con su señal y fingerprint ya derivados.
type Candidate struct {
	Record      domain.MarketRecord
	Signal      domain.Signal
	Fingerprint domain.Fingerprint
}

// Index agrupa candidatos por (entity, bucket de fecha) para acotar el
// coste de comparación: en vez del producto cruzado completo entre venues,
// cada record solo se compara contra su bucket (y los adyacentes). Coste
// casi lineal en el total de records.
type Index struct {
	buckets map[string][]Candidate
}

// BuildIndex construye el índice de blocking a partir de candidatos.
// Los excluidos y los que no tienen entity no entran: sin entity no hay
// bucket razonable y el scorer los rechazaría igual.
func BuildIndex(cands []Candidate) *Index {
	idx := &Index{buckets: make(map[string][]Candidate)}
	for _, c := range cands {
		if c.Signal.Excluded || c.Signal.Entity == "" {
			continue
		}
		key := blockKey(c)
		idx.buckets[key] = append(idx.buckets[key], c)
	}
	return idx
}

// Size devuelve el número de buckets no vacíos.
func (idx *Index) Size() int { return len(idx.buckets) }

// FindCandidates devuelve los candidatos del bucket exacto del record y,
// si allowAdjacent, los de los buckets inmediatamente anterior y posterior
// (un día de calendario para mercados diarios, 30 minutos para eventos
// programados).
func (idx *Index) FindCandidates(c Candidate, allowAdjacent bool) []Candidate {
	var out []Candidate
	out = append(out, idx.buckets[blockKey(c)]...)

	if allowAdjacent {
		for _, adj := range adjacentBuckets(c) {
			out = append(out, idx.buckets[c.Signal.Entity+"|"+adj]...)
		}
	}
	return out
}

// blockKey es "entity|bucket".
func blockKey(c Candidate) string {
	return c.Signal.Entity + "|" + dateBucket(c)
}

// dateBucket devuelve el bucket temporal del candidato: para deportes el
// bucket de 30 minutos del evento, para el resto la clave del período.
func dateBucket(c Candidate) string {
	if c.Signal.Topic == domain.TopicSports && !c.Record.CloseTime.IsZero() {
		return extract.GenerateTimeBucket(c.Record.CloseTime)
	}
	return c.Signal.Date.Key()
}

// adjacentBuckets calcula los buckets vecinos del candidato. Solo mercados
// diarios (±1 día) y eventos programados (±30 min) tienen vecinos; los
// períodos mes/trimestre/año no.
func adjacentBuckets(c Candidate) []string {
	if c.Signal.Topic == domain.TopicSports && !c.Record.CloseTime.IsZero() {
		t := c.Record.CloseTime.UTC().Truncate(30 * time.Minute)
		return []string{
			t.Add(-30 * time.Minute).Format("2006-01-02T15:04"),
			t.Add(30 * time.Minute).Format("2006-01-02T15:04"),
		}
	}
	if c.Signal.Date.Precision == domain.PrecisionDay {
		t := c.Signal.Date.Time()
		return []string{
			dayKey(t.AddDate(0, 0, -1)),
			dayKey(t.AddDate(0, 0, 1)),
		}
	}
	return nil
}

func dayKey(t time.Time) string {
	return t.Format("20060102")
}
