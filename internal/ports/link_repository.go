package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// LinkRepository persiste los links entre mercados de distintos venues.
type LinkRepository interface {
	// UpsertLinks inserta o actualiza links por clave de par. Un link ya
	// confirmado nunca vuelve a suggested por un upsert: el estado
	// confirmado lo preserva la capa de storage.
	UpsertLinks(ctx context.Context, links []domain.MarketLink) error

	// LinksByStatus devuelve los links en el estado dado.
	LinksByStatus(ctx context.Context, status domain.LinkStatus) ([]domain.MarketLink, error)

	// UpdateStatus transiciona un link a un nuevo estado con su razón.
	UpdateStatus(ctx context.Context, linkID string, status domain.LinkStatus, reason string) error

	// TouchLastSeen marca los links cuyo par sigue vivo en este ciclo.
	TouchLastSeen(ctx context.Context, linkIDs []string, seenAt time.Time) error

	// PruneStale elimina links no vistos desde antes del corte dado.
	// Devuelve cuántos borró. Los confirmados no se podan nunca.
	PruneStale(ctx context.Context, cutoff time.Time) (int, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
