package venues

// kalshi.go — adapter del trade API de Kalshi.
//
// Pagina /markets con cursor hasta agotar resultados. Solo mercados open
// que cierran dentro de la ventana pedida; el resto del filtrado semántico
// (props, parlays, intradía) es responsabilidad de los extractores.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

const (
	defaultKalshiBase = "https://api.elections.kalshi.com/trade-api/v2"
	kalshiPageSize    = 500
)

// Kalshi implementa ports.MarketProvider contra el trade API.
type Kalshi struct {
	client *httpClient
	base   string
}

// NewKalshi crea el provider. Si base está vacío usa el URL de producción.
func NewKalshi(base string) *Kalshi {
	if base == "" {
		base = defaultKalshiBase
	}
	return &Kalshi{
		client: newHTTPClient(kalshiRatePerSec, 5),
		base:   base,
	}
}

func (k *Kalshi) Venue() domain.Venue { return domain.VenueKalshi }

type kalshiMarket struct {
	Ticker       string    `json:"ticker"`
	EventTicker  string    `json:"event_ticker"`
	SeriesTicker string    `json:"series_ticker"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Status       string    `json:"status"`
	Category     string    `json:"category"`
	CloseTime    time.Time `json:"close_time"`
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

// FetchOpenMarkets devuelve los mercados open que cierran antes del límite.
// Pagina automáticamente con cursor hasta agotar resultados.
func (k *Kalshi) FetchOpenMarkets(ctx context.Context, closeBefore time.Time) ([]domain.MarketRecord, error) {
	var all []domain.MarketRecord
	cursor := ""

	for {
		q := url.Values{}
		q.Set("status", "open")
		q.Set("limit", strconv.Itoa(kalshiPageSize))
		q.Set("max_close_ts", strconv.FormatInt(closeBefore.Unix(), 10))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp kalshiMarketsResponse
		if err := k.client.get(ctx, k.base+"/markets?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("venues.Kalshi.FetchOpenMarkets: %w", err)
		}

		all = append(all, mapKalshiMarkets(resp.Markets)...)

		slog.Debug("fetched kalshi markets page",
			"count", len(resp.Markets), "total", len(all), "has_more", resp.Cursor != "")

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	slog.Info("kalshi markets fetched", "total", len(all))
	return all, nil
}
