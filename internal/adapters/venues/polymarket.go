package venues

// polymarket.go — adapter del Gamma API de Polymarket.
//
// Pagina /markets por offset hasta agotar resultados dentro de la ventana.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

const (
	defaultGammaBase = "https://gamma-api.polymarket.com"
	gammaPageSize    = 100
)

// Polymarket implementa ports.MarketProvider contra Gamma.
type Polymarket struct {
	client *httpClient
	base   string
}

// NewPolymarket crea el provider. Si base está vacío usa el URL de producción.
func NewPolymarket(base string) *Polymarket {
	if base == "" {
		base = defaultGammaBase
	}
	return &Polymarket{
		client: newHTTPClient(gammaRatePerSec, 10),
		base:   base,
	}
}

func (p *Polymarket) Venue() domain.Venue { return domain.VenuePolymarket }

type gammaMarket struct {
	ID       string      `json:"id"`
	Question string      `json:"question"`
	Slug     string      `json:"slug"`
	Category string      `json:"category"`
	Active   bool        `json:"active"`
	Closed   bool        `json:"closed"`
	EndDate  string      `json:"endDate"`
	Volume   json.Number `json:"volumeNum"`
}

// FetchOpenMarkets devuelve los mercados activos que cierran antes del
// límite. Gamma no filtra por fecha de cierre en el server, así que el
// corte de ventana se aplica aquí tras mapear.
func (p *Polymarket) FetchOpenMarkets(ctx context.Context, closeBefore time.Time) ([]domain.MarketRecord, error) {
	var all []domain.MarketRecord
	offset := 0

	for {
		q := url.Values{}
		q.Set("closed", "false")
		q.Set("active", "true")
		q.Set("limit", strconv.Itoa(gammaPageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page []gammaMarket
		if err := p.client.get(ctx, p.base+"/markets?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("venues.Polymarket.FetchOpenMarkets: %w", err)
		}

		for _, gm := range page {
			rec, ok := mapGammaMarket(gm, closeBefore)
			if !ok {
				continue
			}
			all = append(all, rec)
		}

		slog.Debug("fetched gamma markets page",
			"count", len(page), "total", len(all), "offset", offset)

		if len(page) < gammaPageSize {
			break
		}
		offset += gammaPageSize
	}

	slog.Info("polymarket markets fetched", "total", len(all))
	return all, nil
}
