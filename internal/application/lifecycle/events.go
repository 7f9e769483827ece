package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/servicampo-api/pkg/bus"
)

// Eventos canónicos publicados por los editores de documentos. Las pantallas
// publican el evento después de persistir el cambio; nunca llaman al motor de
// reservas directamente.
const (
	EventQuoteAccepted    = "quote-accepted"
	EventQuoteCanceled    = "quote-canceled"
	EventJobScheduled     = "job-scheduled"
	EventJobRescheduled   = "job-rescheduled"
	EventJobCompleted     = "job-completed"
	EventJobCanceled      = "job-canceled"
	EventPurchaseReceived = "purchase-received"
	EventPurchaseUpdated  = "purchase-updated"
	// EventDataChanged es la señal genérica de refresco para la UI; el motor de
	// inventario no la consume, pero la emite con el resumen de cada sync.
	EventDataChanged = "data-changed"
)

// StatusChanged es el payload común de los eventos de cambio de estado.
type StatusChanged struct {
	ID         string
	PrevStatus string
	NewStatus  string
}

// Rescheduled es el payload de un cambio de fecha de intervención.
type Rescheduled struct {
	ID      string
	NewDate time.Time
}

// RegisterHandlers suscribe los convertidores de ciclo de vida a sus eventos.
// Cada handler publica después un data-changed con el resumen del resultado,
// que es el mensaje que la UI muestra como notificación.
func RegisterHandlers(b *bus.Bus, quotes *QuoteConverter, jobs *InterventionConverter, purchases *PurchaseConverter) {
	statusHandler := func(apply func(ctx context.Context, p StatusChanged) (string, error)) bus.Handler {
		return func(ctx context.Context, e bus.Event) error {
			p, ok := e.Payload.(StatusChanged)
			if !ok {
				return fmt.Errorf("%s: payload inesperado %T", e.Name, e.Payload)
			}
			summary, err := apply(ctx, p)
			if err != nil {
				return err
			}
			b.Publish(ctx, EventDataChanged, summary)
			return nil
		}
	}

	b.Subscribe(EventQuoteAccepted, statusHandler(quotes.HandleStatusChange))
	b.Subscribe(EventQuoteCanceled, statusHandler(quotes.HandleStatusChange))
	b.Subscribe(EventJobScheduled, statusHandler(jobs.HandleStatusChange))
	b.Subscribe(EventJobCompleted, statusHandler(jobs.HandleStatusChange))
	b.Subscribe(EventJobCanceled, statusHandler(jobs.HandleStatusChange))
	b.Subscribe(EventPurchaseReceived, statusHandler(purchases.HandleStatusChange))
	b.Subscribe(EventPurchaseUpdated, statusHandler(purchases.HandleStatusChange))

	b.Subscribe(EventJobRescheduled, func(ctx context.Context, e bus.Event) error {
		p, ok := e.Payload.(Rescheduled)
		if !ok {
			return fmt.Errorf("%s: payload inesperado %T", e.Name, e.Payload)
		}
		summary, err := jobs.HandleReschedule(ctx, p.ID, p.NewDate)
		if err != nil {
			return err
		}
		b.Publish(ctx, EventDataChanged, summary)
		return nil
	})
}
