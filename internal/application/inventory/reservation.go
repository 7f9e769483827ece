package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// ReservationEngine mantiene el invariante central del módulo: la cantidad
// planificada para (artículo, origen, documento) coincide siempre con lo que
// el documento pide, sin duplicar reservas ante llamadas repetidas.
type ReservationEngine struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReservationEngine construye el motor de reservas.
func NewReservationEngine(txRunner TxRunner, log *logger.Logger) *ReservationEngine {
	return &ReservationEngine{txRunner: txRunner, log: log}
}

// ReserveInput entrada para reservar un artículo contra un documento origen.
type ReserveInput struct {
	ItemID      string
	Qty         decimal.Decimal
	Source      string // quote | intervention | purchase
	RefID       string
	RefNumber   string
	ScheduledAt *time.Time
	Note        string
}

// Reserve es el punto de entrada único de reserva individual: si ya existe un
// movimiento planificado para (artículo, origen, documento) se actualiza en
// sitio (cantidad y fecha, sin fila nueva); si no, se crea. Sirve tanto a las
// reservas por cotización como por intervención.
func (e *ReservationEngine) Reserve(ctx context.Context, in ReserveInput) error {
	if !in.Qty.GreaterThan(decimal.Zero) || !entity.ValidMovementSource(in.Source) || in.ItemID == "" || in.RefID == "" {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		item, err := itemRepo.GetByID(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		existing, err := movRepo.Query(repository.MovementFilter{
			ItemID: in.ItemID,
			Source: in.Source,
			RefID:  in.RefID,
			Status: entity.MovementStatusPlanned,
			Types:  []string{entity.MovementTypeReserve, entity.MovementTypeExpectedOut},
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := movRepo.UpdatePlanned(existing[0].ID, in.Qty, in.ScheduledAt); err != nil {
				return err
			}
			// Duplicados anómalos (nunca debería haber más de uno): se cancelan
			// para restaurar el invariante de reserva única.
			for _, m := range existing[1:] {
				if err := movRepo.SetStatus(m.ID, entity.MovementStatusCanceled); err != nil {
					return err
				}
			}
		} else {
			mov := &entity.Movement{
				ItemID:      in.ItemID,
				Type:        entity.PlannedMovementTypeFor(item.Type),
				Status:      entity.MovementStatusPlanned,
				Source:      in.Source,
				RefID:       in.RefID,
				RefNumber:   in.RefNumber,
				Qty:         in.Qty,
				ScheduledAt: in.ScheduledAt,
				Note:        in.Note,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return recomputeItem(movRepo, itemRepo, in.ItemID, e.log)
	})
}

// SyncReservations reconstruye las reservas de un documento completo cuando su
// juego de líneas pudo cambiar (p. ej. cotización editada tras aceptarse).
// Camino frío autoritativo: cancela todos los planificados del documento y
// reinserta reservas frescas según desired; es idempotente y autocorrectivo.
// Los artículos con deseado 0 o ausentes quedan simplemente cancelados.
// Un artículo desconocido se omite con warning y el lote continúa.
func (e *ReservationEngine) SyncReservations(
	ctx context.Context,
	source, refID, refNumber string,
	scheduledAt *time.Time,
	desired map[string]decimal.Decimal,
) (*SyncReport, error) {
	if !entity.ValidMovementSource(source) || refID == "" {
		return nil, domain.ErrInvalidInput
	}
	report := &SyncReport{}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		existing, err := movRepo.Query(repository.MovementFilter{
			Source: source,
			RefID:  refID,
			Status: entity.MovementStatusPlanned,
			Types:  []string{entity.MovementTypeReserve, entity.MovementTypeExpectedOut},
		})
		if err != nil {
			return err
		}
		touched := make(map[string]struct{})
		for _, m := range existing {
			if err := movRepo.SetStatus(m.ID, entity.MovementStatusCanceled); err != nil {
				return err
			}
			report.Canceled++
			touched[m.ItemID] = struct{}{}
		}
		for _, itemID := range sortedItemIDs(desired) {
			qty := desired[itemID]
			if !qty.GreaterThan(decimal.Zero) {
				continue
			}
			item, err := itemRepo.GetByID(itemID)
			if err != nil {
				return err
			}
			if item == nil {
				e.log.Warn().Str("item_id", itemID).Str("source", source).Str("ref_id", refID).
					Msg("línea omitida: artículo desconocido")
				report.Skipped = append(report.Skipped, itemID)
				continue
			}
			mov := &entity.Movement{
				ItemID:      itemID,
				Type:        entity.PlannedMovementTypeFor(item.Type),
				Status:      entity.MovementStatusPlanned,
				Source:      source,
				RefID:       refID,
				RefNumber:   refNumber,
				Qty:         qty,
				ScheduledAt: scheduledAt,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			report.Created++
			touched[itemID] = struct{}{}
		}
		return recomputeTouched(movRepo, itemRepo, touched, e.log)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Unreserve cancela todos los movimientos planificados del documento, sea cual
// sea el artículo o el tipo, y recalcula los artículos afectados.
func (e *ReservationEngine) Unreserve(ctx context.Context, source, refID string) (*SyncReport, error) {
	if !entity.ValidMovementSource(source) || refID == "" {
		return nil, domain.ErrInvalidInput
	}
	report := &SyncReport{}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		planned, err := movRepo.Query(repository.MovementFilter{
			Source: source,
			RefID:  refID,
			Status: entity.MovementStatusPlanned,
		})
		if err != nil {
			return err
		}
		touched := make(map[string]struct{})
		for _, m := range planned {
			if err := movRepo.SetStatus(m.ID, entity.MovementStatusCanceled); err != nil {
				return err
			}
			report.Canceled++
			touched[m.ItemID] = struct{}{}
		}
		return recomputeTouched(movRepo, itemRepo, touched, e.log)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Reschedule actualiza la fecha prevista de los planificados del documento;
// no toca cantidades ni estados, así que no requiere recompute.
func (e *ReservationEngine) Reschedule(ctx context.Context, source, refID string, newScheduledAt time.Time) error {
	if !entity.ValidMovementSource(source) || refID == "" {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.InventoryItemRepository,
	) error {
		planned, err := movRepo.Query(repository.MovementFilter{
			Source: source,
			RefID:  refID,
			Status: entity.MovementStatusPlanned,
		})
		if err != nil {
			return err
		}
		for _, m := range planned {
			if err := movRepo.UpdatePlanned(m.ID, m.Qty, &newScheduledAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// recomputeTouched recalcula cada artículo afectado, en orden estable.
func recomputeTouched(
	movRepo repository.MovementRepository,
	itemRepo repository.InventoryItemRepository,
	touched map[string]struct{},
	log *logger.Logger,
) error {
	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := recomputeItem(movRepo, itemRepo, id, log); err != nil {
			return err
		}
	}
	return nil
}

func sortedItemIDs(desired map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(desired))
	for id := range desired {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
