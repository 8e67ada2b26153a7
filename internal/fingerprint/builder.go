package fingerprint

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/extract"
)

// Builder resume cualquier título en un Fingerprint cross-domain:
// entidades + números + fechas + comparador + intent, más la clave string
// canónica que consume el tooling de auditoría. A diferencia de los
// extractores por topic, el builder no asume dominio — delega la entidad
// en el extractor detectado y el resto en el toolkit compartido.
type Builder struct {
	vocab extract.Vocab
}

// New crea un Builder con el vocabulario por defecto.
func New() *Builder {
	return &Builder{vocab: extract.DefaultVocab()}
}

// Build construye el fingerprint de un título. closeTime y meta son
// opcionales (zero value / nil si el venue no los da).
func (b *Builder) Build(title string, closeTime time.Time, meta map[string]string) domain.Fingerprint {
	sig := signalFor(title, closeTime, meta)

	fp := domain.Fingerprint{
		Comparator: extract.ParseComparator(title, b.vocab),
	}

	if sig.Entity != "" {
		fp.Entities = append(fp.Entities, sig.Entity)
	}
	for _, t := range extract.ExtractNumbers(title) {
		fp.Numbers = append(fp.Numbers, t.Value)
	}
	if d := extract.ParseDate(title, closeTime); !d.IsZero() {
		fp.Dates = append(fp.Dates, d)
	}

	fp.Intent = classifyIntent(title, sig, fp)
	fp.Normalize()
	return fp
}

// BuildFromRecord es el atajo para records completos.
func (b *Builder) BuildFromRecord(rec domain.MarketRecord) domain.Fingerprint {
	return b.Build(rec.Title, rec.CloseTime, rec.Metadata)
}

func signalFor(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	topic := extract.DetectTopic(title, meta)
	e, ok := extract.ForTopic(topic)
	if !ok {
		return domain.Signal{}
	}
	return e.Extract(title, closeTime, meta)
}

var electionWords = []string{"election", "elected", "president", "senate", "governor", "primary", "referendum", "nominee"}
var metricWords = []string{"cpi", "inflation", "gdp", "unemployment", "payrolls", "pce", "retail sales"}

// classifyIntent aplica las reglas de intent en orden:
//
//	PRICE_DATE:  entidad price-like + número ≥ 1000 + fecha day-precision
//	             + comparador GE/LE/BETWEEN
//	ELECTION:    keyword electoral
//	METRIC_DATE: métrica macro + cualquier fecha
//	GENERAL:     todo lo demás
func classifyIntent(title string, sig domain.Signal, fp domain.Fingerprint) domain.Intent {
	if isPriceDate(sig, fp) {
		return domain.IntentPriceDate
	}

	lower := " " + strings.ToLower(title) + " "
	for _, w := range electionWords {
		if strings.Contains(lower, w) {
			return domain.IntentElection
		}
	}

	hasDate := len(fp.Dates) > 0 && !fp.Dates[0].IsZero()
	if hasDate {
		for _, w := range metricWords {
			if strings.Contains(lower, w) {
				return domain.IntentMetricDate
			}
		}
	}

	return domain.IntentGeneral
}

func isPriceDate(sig domain.Signal, fp domain.Fingerprint) bool {
	priceLike := sig.Entity != "" &&
		(sig.Topic == domain.TopicCrypto || sig.Topic == domain.TopicFinance)
	if !priceLike {
		return false
	}

	bigNumber := false
	for _, n := range fp.Numbers {
		if n >= 1000 {
			bigNumber = true
			break
		}
	}
	if !bigNumber {
		return false
	}

	if len(fp.Dates) == 0 || fp.Dates[0].Precision != domain.PrecisionDay {
		return false
	}

	switch fp.Comparator {
	case domain.ComparatorGE, domain.ComparatorLE, domain.ComparatorBetween:
		return true
	default:
		return false
	}
}
