package domain

import "time"

// Venue identifica el exchange de origen de un mercado.
type Venue string

const (
	VenueKalshi     Venue = "kalshi"
	VenuePolymarket Venue = "polymarket"
)

// Topic es el dominio de matching al que pertenece un mercado.
// Cada topic tiene su propio extractor, pesos de scoring y umbrales.
type Topic string

const (
	TopicSports    Topic = "sports"
	TopicCrypto    Topic = "crypto_daily"
	TopicMacro     Topic = "macro"
	TopicClimate   Topic = "climate"
	TopicElections Topic = "elections"
	TopicRates     Topic = "rates"
	TopicFinance   Topic = "finance"
)

// AlgoVersion se estampa en cada link escrito. Subir la versión cuando
// cambie la gramática de reason strings o los pesos de scoring.
const AlgoVersion = "v2.3"

// MarketRecord es un listing crudo de un venue. Input de solo lectura:
// el core nunca lo muta, solo deriva señales a partir de él.
type MarketRecord struct {
	ID        string
	Venue     Venue
	Title     string
	Status    string // "open" | "closed" | "settled"
	CloseTime time.Time
	Metadata  map[string]string // campos libres del venue (league, ticker, series...)
}

// Meta devuelve el valor de metadata para la key dada, o "" si no existe.
func (r MarketRecord) Meta(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

// Ref identifica un mercado de forma única entre venues.
func (r MarketRecord) Ref() MarketRef {
	return MarketRef{Venue: r.Venue, MarketID: r.ID}
}

// MarketRef es la referencia (venue, id) a un mercado concreto.
type MarketRef struct {
	Venue    Venue
	MarketID string
}

// String devuelve "venue:id", útil para logs y claves de mapa.
func (m MarketRef) String() string {
	return string(m.Venue) + ":" + m.MarketID
}
