package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones serializando cada callback con un mutex
// global. No hay rollback: las escrituras parciales quedan (suficiente para
// tests, donde los errores se provocan antes de mutar).
type TxRunner struct {
	mu       sync.Mutex
	movRepo  repository.MovementRepository
	itemRepo repository.InventoryItemRepository
}

// NewTxRunner construye el runner sobre los repos en memoria.
func NewTxRunner(movRepo repository.MovementRepository, itemRepo repository.InventoryItemRepository) *TxRunner {
	return &TxRunner{movRepo: movRepo, itemRepo: itemRepo}
}

// Run ejecuta fn en exclusión mutua con cualquier otra "transacción".
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.movRepo, r.itemRepo)
}
