package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// Event es una notificación de aplicación: un cambio en un documento origen
// (cotización, intervención, orden de compra) que otros módulos pueden escuchar.
type Event struct {
	Name    string
	Payload any
	At      time.Time
}

// Handler procesa un evento. El error retornado se registra en el log;
// nunca se propaga al publicador.
type Handler func(ctx context.Context, e Event) error

// Subscription identifica una suscripción activa para poder cancelarla.
type Subscription struct {
	id   int
	name string
}

type subscriber struct {
	id int
	fn Handler
}

// Bus es el puente de eventos en proceso: fan-out síncrono a los handlers
// suscritos, en orden de suscripción, sobre la goroutine del publicador.
// Se construye explícitamente y se inyecta; cada test puede usar su propia
// instancia sin estado global compartido.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscriber
	log      *logger.Logger
}

// New construye un bus vacío.
func New(log *logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]subscriber),
		log:      log,
	}
}

// Subscribe registra un handler para el evento name y devuelve la suscripción.
func (b *Bus) Subscribe(name string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[name] = append(b.handlers[name], subscriber{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, name: name}
}

// Unsubscribe elimina la suscripción; es seguro llamarla más de una vez.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[s.name]
	for i, sub := range subs {
		if sub.id == s.id {
			b.handlers[s.name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish entrega el evento a todos los suscriptores de name, de forma síncrona
// y en orden de suscripción. Los fallos (error o panic) de un handler se
// registran y no interrumpen a los demás ni al publicador: un fallo del
// inventario nunca debe tumbar el guardado del documento que lo originó.
func (b *Bus) Publish(ctx context.Context, name string, payload any) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.handlers[name]))
	copy(subs, b.handlers[name])
	b.mu.RUnlock()

	e := Event{Name: name, Payload: payload, At: time.Now()}
	for _, sub := range subs {
		b.dispatch(ctx, sub, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, sub subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Error().Str("event", e.Name).Int("subscriber", sub.id).
				Err(fmt.Errorf("panic: %v", r)).Msg("handler de evento abortó")
		}
	}()
	if err := sub.fn(ctx, e); err != nil && b.log != nil {
		b.log.Error().Str("event", e.Name).Int("subscriber", sub.id).
			Err(err).Msg("handler de evento falló")
	}
}
