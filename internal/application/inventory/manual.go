package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// ManualMovementInput entrada o salida manual ya realizada (ajuste de bodega).
type ManualMovementInput struct {
	ItemID string
	Type   string // solo in | out
	Qty    decimal.Decimal
	Note   string
}

// RegisterManual registra un movimiento realizado con origen manual y recalcula
// el artículo. Una salida que dejaría el stock físico en negativo se rechaza
// con ErrInsufficientStock en vez de depender del recorte del agregador.
func (e *ReservationEngine) RegisterManual(ctx context.Context, in ManualMovementInput) error {
	if in.Type != entity.MovementTypeIn && in.Type != entity.MovementTypeOut {
		return domain.ErrInvalidInput
	}
	if !in.Qty.GreaterThan(decimal.Zero) || in.ItemID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Type == entity.MovementTypeOut && item.QtyOnHand.LessThan(in.Qty) {
			return domain.ErrInsufficientStock
		}
		mov := &entity.Movement{
			ItemID:      in.ItemID,
			Type:        in.Type,
			Status:      entity.MovementStatusDone,
			Source:      entity.MovementSourceManual,
			RefID:       "",
			Qty:         in.Qty,
			EffectiveAt: &now,
			Note:        in.Note,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return recomputeItem(movRepo, itemRepo, in.ItemID, e.log)
	})
}
