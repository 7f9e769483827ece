package lifecycle

import (
	"context"
	"time"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// InterventionConverter traduce el ciclo de vida de una intervención a
// operaciones de inventario:
//
//	→ scheduled (con fecha)      reserva las líneas con la fecha de la visita
//	cambio de fecha (activa)     reprograma los planificados
//	→ completed                  consume: consumibles salen, materiales se liberan
//	→ canceled                   libera todas las reservas
//
// Si la intervención nace de una cotización, el consumo al completarse se
// delega por completo a las reservas de la cotización: las líneas propias de
// la intervención se liberan sin consumirse para no descontar dos veces.
type InterventionConverter struct {
	interventionRepo repository.InterventionRepository
	quoteRepo        repository.QuoteRepository
	resolver         *inventory.LineResolver
	engine           *inventory.ReservationEngine
	log              *logger.Logger
}

// NewInterventionConverter construye el convertidor de intervenciones.
func NewInterventionConverter(
	interventionRepo repository.InterventionRepository,
	quoteRepo repository.QuoteRepository,
	resolver *inventory.LineResolver,
	engine *inventory.ReservationEngine,
	log *logger.Logger,
) *InterventionConverter {
	return &InterventionConverter{
		interventionRepo: interventionRepo,
		quoteRepo:        quoteRepo,
		resolver:         resolver,
		engine:           engine,
		log:              log,
	}
}

// HandleStatusChange aplica la transición (prev → new) y devuelve el mensaje
// de resultado para la UI.
func (c *InterventionConverter) HandleStatusChange(ctx context.Context, p StatusChanged) (string, error) {
	iv, err := c.interventionRepo.GetByID(p.ID)
	if err != nil {
		return "", err
	}
	if iv == nil {
		return "", domain.ErrNotFound
	}

	switch p.NewStatus {
	case entity.InterventionStatusScheduled:
		if iv.Date == nil || p.PrevStatus == entity.InterventionStatusCanceled {
			return (&inventory.SyncReport{}).Summary(), nil
		}
		desired, skipped := c.resolver.DesiredByItem(iv.Lines)
		report, err := c.engine.SyncReservations(ctx,
			entity.MovementSourceIntervention, iv.ID, iv.Number, iv.Date, desired)
		if err != nil {
			return "", err
		}
		report.Skipped = append(report.Skipped, skipped...)
		c.log.Info().Str("intervention_id", iv.ID).Str("resultado", report.Summary()).
			Msg("intervención agendada: reservas sincronizadas")
		return report.Summary(), nil

	case entity.InterventionStatusCompleted:
		return c.complete(ctx, iv)

	case entity.InterventionStatusCanceled:
		report, err := c.engine.Unreserve(ctx, entity.MovementSourceIntervention, iv.ID)
		if err != nil {
			return "", err
		}
		c.log.Info().Str("intervention_id", iv.ID).Str("resultado", report.Summary()).
			Msg("intervención cancelada: reservas liberadas")
		return report.Summary(), nil
	}

	return (&inventory.SyncReport{}).Summary(), nil
}

// complete consume las reservas al terminar el trabajo. Con cotización origen,
// las líneas propias se liberan y el consumo corre contra la cotización.
func (c *InterventionConverter) complete(ctx context.Context, iv *entity.Intervention) (string, error) {
	if iv.QuoteID != "" {
		if _, err := c.engine.Unreserve(ctx, entity.MovementSourceIntervention, iv.ID); err != nil {
			return "", err
		}
		refNumber := iv.Number
		if q, err := c.quoteRepo.GetByID(iv.QuoteID); err == nil && q != nil {
			refNumber = q.Number
		}
		report, err := c.engine.Consume(ctx, entity.MovementSourceQuote, iv.QuoteID, refNumber)
		if err != nil {
			return "", err
		}
		c.log.Info().Str("intervention_id", iv.ID).Str("quote_id", iv.QuoteID).
			Str("resultado", report.Summary()).
			Msg("intervención completada: consumo delegado a la cotización")
		return report.Summary(), nil
	}

	report, err := c.engine.Consume(ctx, entity.MovementSourceIntervention, iv.ID, iv.Number)
	if err != nil {
		return "", err
	}
	c.log.Info().Str("intervention_id", iv.ID).Str("resultado", report.Summary()).
		Msg("intervención completada: reservas consumidas")
	return report.Summary(), nil
}

// HandleReschedule actualiza la fecha prevista de los planificados de una
// intervención que sigue activa; no toca cantidades ni estados.
func (c *InterventionConverter) HandleReschedule(ctx context.Context, id string, newDate time.Time) (string, error) {
	iv, err := c.interventionRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if iv == nil {
		return "", domain.ErrNotFound
	}
	if !entity.InterventionStatusActive(iv.Status) {
		return (&inventory.SyncReport{}).Summary(), nil
	}
	if err := c.engine.Reschedule(ctx, entity.MovementSourceIntervention, iv.ID, newDate); err != nil {
		return "", err
	}
	return "reservas reprogramadas", nil
}
