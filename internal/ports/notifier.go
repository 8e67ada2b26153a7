package ports

import (
	"context"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Notifier presenta el resultado de un ciclo de matching al usuario.
type Notifier interface {
	// Notify muestra el resumen del run paso a paso.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, run domain.RunReport) error
}
