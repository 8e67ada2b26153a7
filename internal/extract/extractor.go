package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Extractor es el contrato compartido por los siete extractores de dominio:
// título (+ close time y metadata opcionales) → señal estructurada con
// confianza. La extracción es pura y sin estado — una señal nunca se
// persiste, se recalcula en cada run.
type Extractor interface {
	Topic() domain.Topic
	Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal
}

// registry construye los extractores una vez al arrancar el proceso.
var registry = map[domain.Topic]Extractor{
	domain.TopicSports:    NewSports(),
	domain.TopicCrypto:    NewCrypto(),
	domain.TopicMacro:     NewMacro(),
	domain.TopicClimate:   NewClimate(),
	domain.TopicElections: NewElections(),
	domain.TopicRates:     NewRates(),
	domain.TopicFinance:   NewFinance(),
}

// ForTopic devuelve el extractor del topic dado.
func ForTopic(t domain.Topic) (Extractor, bool) {
	e, ok := registry[t]
	return e, ok
}

// Signal extrae la señal de un record completo: detecta el topic (metadata
// primero, keywords después) y delega en su extractor.
func Signal(rec domain.MarketRecord) domain.Signal {
	topic := DetectTopic(rec.Title, rec.Metadata)
	e, ok := registry[topic]
	if !ok {
		e = registry[domain.TopicFinance]
	}
	return e.Extract(rec.Title, rec.CloseTime, rec.Metadata)
}

// Orden de prioridad de detección de topic por keywords. El primero que
// matchea gana; el orden importa ("fed" antes que métricas macro, equipos
// antes que cualquier otra cosa).
var topicKeywords = []struct {
	topic domain.Topic
	words []string
}{
	{domain.TopicSports, []string{"nba", "nfl", "mlb", "nhl", " vs ", " vs. ", "game", "match"}},
	{domain.TopicElections, []string{"election", "president", "presidential", "senate", "governor", "primary", "nominee", "electoral"}},
	{domain.TopicRates, []string{"fed ", "fomc", "rate cut", "rate hike", "interest rate", "federal funds", "ecb", "basis points", "bps"}},
	{domain.TopicCrypto, []string{"bitcoin", "btc", "ethereum", "eth ", "solana", "dogecoin", "crypto", "xrp"}},
	{domain.TopicMacro, []string{"cpi", "inflation", "gdp", "unemployment", "payrolls", "nonfarm", "recession", "pce", "retail sales"}},
	{domain.TopicClimate, []string{"temperature", "hurricane", "rainfall", "snowfall", "heat wave", "degrees", "warmest", "hottest"}},
}

// DetectTopic clasifica el record en uno de los siete topics. La metadata
// del venue (category/series) manda; si no hay, keywords en orden de
// prioridad; finance es el fallback para instrumentos genéricos.
func DetectTopic(title string, meta map[string]string) domain.Topic {
	if t, ok := topicFromMeta(meta); ok {
		return t
	}

	lower := " " + strings.ToLower(title) + " "
	for _, tk := range topicKeywords {
		for _, w := range tk.words {
			if strings.Contains(lower, w) {
				return tk.topic
			}
		}
	}
	return domain.TopicFinance
}

func topicFromMeta(meta map[string]string) (domain.Topic, bool) {
	if meta == nil {
		return "", false
	}
	category := strings.ToLower(meta["category"])
	switch {
	case category == "":
		return "", false
	case strings.Contains(category, "sport"):
		return domain.TopicSports, true
	case strings.Contains(category, "crypto"):
		return domain.TopicCrypto, true
	case strings.Contains(category, "politic") || strings.Contains(category, "election"):
		return domain.TopicElections, true
	case strings.Contains(category, "econom") || strings.Contains(category, "macro"):
		return domain.TopicMacro, true
	case strings.Contains(category, "climate") || strings.Contains(category, "weather"):
		return domain.TopicClimate, true
	case strings.Contains(category, "rate") || strings.Contains(category, "fed"):
		return domain.TopicRates, true
	case strings.Contains(category, "financ") || strings.Contains(category, "indices"):
		return domain.TopicFinance, true
	default:
		return "", false
	}
}
