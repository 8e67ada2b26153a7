package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// MarketProvider obtiene los listings abiertos de un venue.
type MarketProvider interface {
	// Venue identifica el exchange que sirve este provider.
	Venue() domain.Venue

	// FetchOpenMarkets devuelve los mercados abiertos que cierran dentro
	// de la ventana dada. Pagina automáticamente hasta agotar resultados.
	FetchOpenMarkets(ctx context.Context, closeBefore time.Time) ([]domain.MarketRecord, error)
}
