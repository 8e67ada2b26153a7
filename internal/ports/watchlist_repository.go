package ports

import (
	"context"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// WatchlistRepository persiste la watchlist de mercados a cotizar.
type WatchlistRepository interface {
	// ReplaceWatchlist sustituye la watchlist completa por la deseada.
	// El contrato de upsert es higher-priority-wins por market id.
	ReplaceWatchlist(ctx context.Context, cands []domain.WatchlistCandidate) error

	// Watchlist devuelve las entradas actuales ordenadas por prioridad.
	Watchlist(ctx context.Context) ([]domain.WatchlistCandidate, error)
}
