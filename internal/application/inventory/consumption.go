package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// Consume realiza las reservas planificadas de un documento al terminarse el
// trabajo. Los consumibles (expected_out) salen del stock: se cancela el
// planificado y se registra un out realizado por la misma cantidad. Los
// materiales (reserve) solo se liberan: la cancelación basta, porque reservar
// nunca descontó stock físico y la herramienta vuelve a bodega.
func (e *ReservationEngine) Consume(ctx context.Context, source, refID, refNumber string) (*SyncReport, error) {
	if !entity.ValidMovementSource(source) || refID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	report := &SyncReport{}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		planned, err := movRepo.Query(repository.MovementFilter{
			Source: source,
			RefID:  refID,
			Status: entity.MovementStatusPlanned,
			Types:  []string{entity.MovementTypeReserve, entity.MovementTypeExpectedOut},
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

			if m.Type == entity.MovementTypeExpectedOut {
				out := &entity.Movement{
					ItemID:      m.ItemID,
					Type:        entity.MovementTypeOut,
					Status:      entity.MovementStatusDone,
					Source:      source,
					RefID:       refID,
					RefNumber:   refNumber,
					Qty:         m.Qty,
					EffectiveAt: &now,
					Note:        m.Note,
				}
				if err := movRepo.Create(out); err != nil {
					return err
				}
				report.Done++
			}
		}
		return recomputeTouched(movRepo, itemRepo, touched, e.log)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
