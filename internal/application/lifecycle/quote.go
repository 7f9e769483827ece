package lifecycle

import (
	"context"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// QuoteConverter traduce las transiciones de estado de una cotización a
// operaciones del motor de reservas:
//
//	→ aceptada (desde cualquier estado no aceptado)   sincroniza reservas
//	aceptada → rechazada/cancelada                    libera reservas
//	cualquier otra transición                         sin acción de inventario
type QuoteConverter struct {
	quoteRepo repository.QuoteRepository
	resolver  *inventory.LineResolver
	engine    *inventory.ReservationEngine
	log       *logger.Logger
}

// NewQuoteConverter construye el convertidor de cotizaciones.
func NewQuoteConverter(
	quoteRepo repository.QuoteRepository,
	resolver *inventory.LineResolver,
	engine *inventory.ReservationEngine,
	log *logger.Logger,
) *QuoteConverter {
	return &QuoteConverter{quoteRepo: quoteRepo, resolver: resolver, engine: engine, log: log}
}

// HandleStatusChange aplica la transición (prev → new) y devuelve el mensaje
// de resultado para la UI. Un fallo del sync nunca revierte el guardado de la
// cotización: el documento ya se persistió antes de publicarse el evento.
func (c *QuoteConverter) HandleStatusChange(ctx context.Context, p StatusChanged) (string, error) {
	q, err := c.quoteRepo.GetByID(p.ID)
	if err != nil {
		return "", err
	}
	if q == nil {
		return "", domain.ErrNotFound
	}

	switch {
	case entity.QuoteStatusAcceptedLike(p.NewStatus) && !entity.QuoteStatusAcceptedLike(p.PrevStatus):
		desired, skipped := c.resolver.DesiredByItem(q.Lines)
		report, err := c.engine.SyncReservations(ctx, entity.MovementSourceQuote, q.ID, q.Number, nil, desired)
		if err != nil {
			return "", err
		}
		report.Skipped = append(report.Skipped, skipped...)
		c.log.Info().Str("quote_id", q.ID).Str("resultado", report.Summary()).
			Msg("cotización aceptada: reservas sincronizadas")
		return report.Summary(), nil

	case entity.QuoteStatusAcceptedLike(p.PrevStatus) &&
		(p.NewStatus == entity.QuoteStatusRefused || p.NewStatus == entity.QuoteStatusCanceled):
		report, err := c.engine.Unreserve(ctx, entity.MovementSourceQuote, q.ID)
		if err != nil {
			return "", err
		}
		c.log.Info().Str("quote_id", q.ID).Str("resultado", report.Summary()).
			Msg("cotización anulada: reservas liberadas")
		return report.Summary(), nil
	}

	return (&inventory.SyncReport{}).Summary(), nil
}
