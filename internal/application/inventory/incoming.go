package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// IncomingLine cantidades a registrar para un artículo al sincronizar una
// orden de compra: lo ya recibido (done) y lo pendiente por llegar (planned).
type IncomingLine struct {
	DoneQty    decimal.Decimal
	PlannedQty decimal.Decimal
}

// SyncIncoming reconstruye los movimientos de entrada de una orden de compra
// cancela los in planificados previos del documento, registra lo pendiente
// como planned y concilia lo recibido contra el historial. DoneQty es el
// acumulado recibido del documento; como los done son inmutables, solo se
// inserta la diferencia con lo ya registrado. Cubre los tres estados:
//
//	pending  → solo PlannedQty (cantidad pedida, fecha prevista)
//	partial  → DoneQty acumulado recibido + PlannedQty restante
//	received → solo DoneQty (acumulado total)
//
// Idempotente: repetir la llamada con las mismas líneas deja el mismo estado.
func (e *ReservationEngine) SyncIncoming(
	ctx context.Context,
	refID, refNumber string,
	expectedAt *time.Time,
	lines map[string]IncomingLine,
) (*SyncReport, error) {
	if refID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	report := &SyncReport{}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		touched, err := cancelPlannedIncoming(movRepo, refID, report)
		if err != nil {
			return err
		}
		for _, itemID := range sortedIncomingIDs(lines) {
			ln := lines[itemID]
			item, err := itemRepo.GetByID(itemID)
			if err != nil {
				return err
			}
			if item == nil {
				e.log.Warn().Str("item_id", itemID).Str("ref_id", refID).
					Msg("línea de compra omitida: artículo desconocido")
				report.Skipped = append(report.Skipped, itemID)
				continue
			}
			if ln.DoneQty.GreaterThan(decimal.Zero) {
				alreadyDone, err := doneIncomingQty(movRepo, refID, itemID)
				if err != nil {
					return err
				}
				if delta := ln.DoneQty.Sub(alreadyDone); delta.GreaterThan(decimal.Zero) {
					mov := &entity.Movement{
						ItemID:      itemID,
						Type:        entity.MovementTypeIn,
						Status:      entity.MovementStatusDone,
						Source:      entity.MovementSourcePurchase,
						RefID:       refID,
						RefNumber:   refNumber,
						Qty:         delta,
						EffectiveAt: &now,
					}
					if err := movRepo.Create(mov); err != nil {
						return err
					}
					report.Done++
					touched[itemID] = struct{}{}
				}
			}
			if ln.PlannedQty.GreaterThan(decimal.Zero) {
				mov := &entity.Movement{
					ItemID:      itemID,
					Type:        entity.MovementTypeIn,
					Status:      entity.MovementStatusPlanned,
					Source:      entity.MovementSourcePurchase,
					RefID:       refID,
					RefNumber:   refNumber,
					Qty:         ln.PlannedQty,
					ScheduledAt: expectedAt,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
				report.Created++
				touched[itemID] = struct{}{}
			}
		}
		return recomputeTouched(movRepo, itemRepo, touched, e.log)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CancelIncoming anula la entrada pendiente de una orden de compra cancelada:
// cancela sus in planificados y deja un movimiento in con estado canceled por
// línea pedida, como rastro de auditoría sin efecto en stock.
func (e *ReservationEngine) CancelIncoming(
	ctx context.Context,
	refID, refNumber string,
	orderedByItem map[string]decimal.Decimal,
) (*SyncReport, error) {
	if refID == "" {
		return nil, domain.ErrInvalidInput
	}
	report := &SyncReport{}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		touched, err := cancelPlannedIncoming(movRepo, refID, report)
		if err != nil {
			return err
		}
		for _, itemID := range sortedItemIDs(orderedByItem) {
			qty := orderedByItem[itemID]
			if !qty.GreaterThan(decimal.Zero) {
				continue
			}
			audit := &entity.Movement{
				ItemID:    itemID,
				Type:      entity.MovementTypeIn,
				Status:    entity.MovementStatusCanceled,
				Source:    entity.MovementSourcePurchase,
				RefID:     refID,
				RefNumber: refNumber,
				Qty:       qty,
				Note:      "orden de compra cancelada",
			}
			if err := movRepo.Create(audit); err != nil {
				return err
			}
			report.Canceled++
		}
		return recomputeTouched(movRepo, itemRepo, touched, e.log)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// doneIncomingQty suma lo ya registrado como recibido del documento para el
// artículo; el diff contra el acumulado evita duplicar entradas inmutables.
func doneIncomingQty(movRepo repository.MovementRepository, refID, itemID string) (decimal.Decimal, error) {
	done, err := movRepo.Query(repository.MovementFilter{
		ItemID: itemID,
		Source: entity.MovementSourcePurchase,
		RefID:  refID,
		Status: entity.MovementStatusDone,
		Types:  []string{entity.MovementTypeIn},
	})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range done {
		total = total.Add(m.Qty)
	}
	return total, nil
}

func cancelPlannedIncoming(movRepo repository.MovementRepository, refID string, report *SyncReport) (map[string]struct{}, error) {
	existing, err := movRepo.Query(repository.MovementFilter{
		Source: entity.MovementSourcePurchase,
		RefID:  refID,
		Status: entity.MovementStatusPlanned,
		Types:  []string{entity.MovementTypeIn},
	})
	if err != nil {
		return nil, err
	}
	touched := make(map[string]struct{})
	for _, m := range existing {
		if err := movRepo.SetStatus(m.ID, entity.MovementStatusCanceled); err != nil {
			return nil, err
		}
		report.Canceled++
		touched[m.ItemID] = struct{}{}
	}
	return touched, nil
}

func sortedIncomingIDs(lines map[string]IncomingLine) []string {
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
