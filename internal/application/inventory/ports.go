package inventory

import (
	"context"

	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cada operación del motor
// (sync de reservas, consumo, recompute) se aplica de forma atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
