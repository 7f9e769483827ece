package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// StockAggregator mantiene qty_on_hand y qty_reserved de cada artículo
// consistentes con su historial de movimientos. Siempre recalcula completo
// desde el registro, nunca por deltas: un crash a mitad de una secuencia se
// autorrepara en el siguiente recompute.
type StockAggregator struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	log      *logger.Logger
}

// NewStockAggregator construye el agregador.
func NewStockAggregator(txRunner TxRunner, itemRepo repository.InventoryItemRepository, log *logger.Logger) *StockAggregator {
	return &StockAggregator{txRunner: txRunner, itemRepo: itemRepo, log: log}
}

// Recompute recalcula on_hand y reserved de un artículo dentro de una
// transacción con la fila bloqueada (SELECT FOR UPDATE), que hace de candado
// por artículo frente a recomputes concurrentes.
func (a *StockAggregator) Recompute(ctx context.Context, itemID string) error {
	return a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		return recomputeItem(movRepo, itemRepo, itemID, a.log)
	})
}

// RecomputeAll recorre el catálogo completo recalculando cada artículo.
// Es el trabajo de reconciliación: corrige cualquier deriva entre los campos
// materializados y el registro de movimientos. Puede invocarse bajo demanda
// o programarse periódicamente. Los fallos individuales se registran y no
// detienen el recorrido; devuelve cuántos artículos se recalcularon.
func (a *StockAggregator) RecomputeAll(ctx context.Context) (int, error) {
	const pageSize = 200
	recomputed := 0
	for offset := 0; ; offset += pageSize {
		items, err := a.itemRepo.List(pageSize, offset)
		if err != nil {
			return recomputed, err
		}
		if len(items) == 0 {
			return recomputed, nil
		}
		for _, item := range items {
			if err := a.Recompute(ctx, item.ID); err != nil {
				a.log.Error().Err(err).Str("item_id", item.ID).Msg("recompute de artículo falló")
				continue
			}
			recomputed++
		}
		if len(items) < pageSize {
			return recomputed, nil
		}
	}
}

// recomputeItem es el recompute dentro de la transacción del caller; lo usan
// el agregador y el motor de reservas tras escribir movimientos.
//
//	on_hand  = Σ in(done) − Σ out(done)
//	reserved = Σ reserve/expected_out (planned)
func recomputeItem(
	movRepo repository.MovementRepository,
	itemRepo repository.InventoryItemRepository,
	itemID string,
	log *logger.Logger,
) error {
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	realized, err := movRepo.Query(repository.MovementFilter{
		ItemID: itemID,
		Status: entity.MovementStatusDone,
		Types:  []string{entity.MovementTypeIn, entity.MovementTypeOut},
	})
	if err != nil {
		return err
	}
	onHand := decimal.Zero
	for _, m := range realized {
		if m.Type == entity.MovementTypeIn {
			onHand = onHand.Add(m.Qty)
		} else {
			onHand = onHand.Sub(m.Qty)
		}
	}

	planned, err := movRepo.Query(repository.MovementFilter{
		ItemID: itemID,
		Status: entity.MovementStatusPlanned,
		Types:  []string{entity.MovementTypeReserve, entity.MovementTypeExpectedOut},
	})
	if err != nil {
		return err
	}
	reserved := decimal.Zero
	for _, m := range planned {
		reserved = reserved.Add(m.Qty)
	}

	// Valores negativos indican un bug aguas arriba, no un estado válido:
	// se recorta a cero y se deja constancia en el log.
	if onHand.IsNegative() {
		log.Warn().Str("item_id", itemID).Str("on_hand", onHand.String()).
			Msg("on_hand negativo tras recompute; recortado a 0")
		onHand = decimal.Zero
	}
	if reserved.IsNegative() {
		log.Warn().Str("item_id", itemID).Str("reserved", reserved.String()).
			Msg("reserved negativo tras recompute; recortado a 0")
		reserved = decimal.Zero
	}

	return itemRepo.UpdateQuantities(itemID, onHand, reserved)
}
