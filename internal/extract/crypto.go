package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// CryptoSignal es la variante crypto de la señal compartida.
type CryptoSignal struct {
	domain.Signal
	Asset string // BITCOIN, ETHEREUM, ...
}

// cryptoAssets en orden de prioridad: el primero cuyo keyword aparece gana.
// "eth" va después de "ethereum" pero antes de assets menos líquidos para
// que "ETH/BTC flippening" clasifique como ETHEREUM.
var cryptoAssets = []struct {
	name  string
	words []string
}{
	{"BITCOIN", []string{"bitcoin", "btc", "xbt"}},
	{"ETHEREUM", []string{"ethereum", "eth"}},
	{"SOLANA", []string{"solana", "sol "}},
	{"DOGECOIN", []string{"dogecoin", "doge"}},
	{"XRP", []string{"xrp", "ripple"}},
	{"CARDANO", []string{"cardano", "ada "}},
	{"LITECOIN", []string{"litecoin", "ltc"}},
	{"BNB", []string{"bnb", "binance coin"}},
	{"AVALANCHE", []string{"avalanche", "avax"}},
	{"CHAINLINK", []string{"chainlink", "link "}},
}

// Tipos de mercado crypto en orden de prioridad (primero que matchea gana):
// ETF → DOMINANCE → RANGE → PRICE_TARGET → OTHER.
const (
	cryptoKindETF       = "ETF"
	cryptoKindDominance = "DOMINANCE"
	cryptoKindRange     = "RANGE"
	cryptoKindPrice     = "PRICE_TARGET"
	cryptoKindOther     = "OTHER"
)

// Crypto extrae señales de mercados de precio de criptoactivos.
type Crypto struct {
	vocab Vocab
}

// NewCrypto crea el extractor crypto con el vocabulario por defecto
// ampliado con sinónimos de precio ("close above", "trading at").
func NewCrypto() *Crypto {
	v := DefaultVocab()
	v.GEWords = append([]string{"close above", "closes above", "trading above"}, v.GEWords...)
	v.LEWords = append([]string{"close below", "closes below", "trading below"}, v.LEWords...)
	return &Crypto{vocab: v}
}

func (c *Crypto) Topic() domain.Topic { return domain.TopicCrypto }

// Extract implementa el contrato compartido.
func (c *Crypto) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return c.ExtractCrypto(title, closeTime, meta).Signal
}

// ExtractCrypto devuelve la variante completa con el asset clasificado.
func (c *Crypto) ExtractCrypto(title string, closeTime time.Time, meta map[string]string) CryptoSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := CryptoSignal{}
	sig.Topic = domain.TopicCrypto

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded = true
		sig.ExcludeReason = reason
	}
	// trading intradía no cruza entre venues con resolución diaria
	if strings.Contains(lower, " hourly ") || strings.Contains(lower, " 1h ") || strings.Contains(lower, " 15 min") {
		sig.Excluded = true
		sig.ExcludeReason = "intraday"
	}

	sig.Asset = classifyAsset(lower, meta)
	sig.Entity = sig.Asset

	sig.Numbers = ExtractNumbers(title)
	sig.Comparator = ParseComparator(title, c.vocab)
	sig.Date = ParseDate(title, closeTime)
	sig.Kind = classifyCryptoKind(lower, sig)

	sig.Quality = domain.Quality{
		MissingEntity: sig.Asset == "",
		MissingDate:   sig.Date.IsZero(),
		MissingNumber: len(sig.Numbers) == 0,
		LowConfidence: sig.Comparator == domain.ComparatorUnknown,
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}

func classifyAsset(lower string, meta map[string]string) string {
	if meta != nil {
		if ticker := strings.ToLower(meta["ticker"]); ticker != "" {
			for _, a := range cryptoAssets {
				for _, w := range a.words {
					if strings.TrimSpace(w) == ticker {
						return a.name
					}
				}
			}
		}
	}
	for _, a := range cryptoAssets {
		for _, w := range a.words {
			if strings.Contains(lower, w) {
				return a.name
			}
		}
	}
	return ""
}

func classifyCryptoKind(lower string, sig CryptoSignal) string {
	switch {
	case strings.Contains(lower, " etf "):
		return cryptoKindETF
	case strings.Contains(lower, "dominance"):
		return cryptoKindDominance
	case sig.Comparator == domain.ComparatorBetween:
		return cryptoKindRange
	case len(sig.Numbers) > 0 && sig.Comparator != domain.ComparatorUnknown:
		return cryptoKindPrice
	default:
		return cryptoKindOther
	}
}
