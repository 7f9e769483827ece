package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn          = "in"           // entrada física (recepción de compra, devolución)
	MovementTypeOut         = "out"          // salida física (consumo en intervención, salida manual)
	MovementTypeReserve     = "reserve"      // aparta material sin descontar stock físico
	MovementTypeExpectedOut = "expected_out" // anticipa el consumo futuro de un consumible
)

// Estados de un movimiento.
const (
	MovementStatusPlanned  = "planned"  // reserva o entrada futura aún no realizada
	MovementStatusDone     = "done"     // realizado; inmutable, ya refleja en qty_on_hand
	MovementStatusCanceled = "canceled" // anulado; inmutable, sin efecto en stock
)

// Orígenes de un movimiento (documento que lo generó).
const (
	MovementSourcePurchase     = "purchase"
	MovementSourceQuote        = "quote"
	MovementSourceIntervention = "intervention"
	MovementSourceManual       = "manual"
)

// Movement es una fila del registro de movimientos de stock.
// Las correcciones sobre movimientos done se hacen con un movimiento de
// compensación nuevo; el historial nunca se edita en sitio.
type Movement struct {
	ID          string
	ItemID      string
	Type        string // in | out | reserve | expected_out
	Status      string // planned | done | canceled
	Source      string // purchase | quote | intervention | manual
	RefID       string // id del documento origen
	RefNumber   string // etiqueta legible del documento (DEV-0042, OC-0017…)
	Qty         decimal.Decimal
	ScheduledAt *time.Time // fecha prevista (movimientos planned)
	EffectiveAt *time.Time // fecha de realización (movimientos done)
	Note        string
	CreatedAt   time.Time
}

// Validate aplica las reglas de admisión del registro: cantidad positiva,
// enums conocidos y artículo presente. Nada más; la coherencia de negocio es
// responsabilidad del motor de reservas.
func (m *Movement) Validate() error {
	if m == nil || !m.Qty.GreaterThan(decimal.Zero) || m.ItemID == "" {
		return domain.ErrInvalidInput
	}
	if !ValidMovementType(m.Type) || !ValidMovementStatus(m.Status) || !ValidMovementSource(m.Source) {
		return domain.ErrInvalidInput
	}
	return nil
}

// IsTerminal indica si el movimiento está en un estado final (done o canceled).
func (m *Movement) IsTerminal() bool {
	return m.Status == MovementStatusDone || m.Status == MovementStatusCanceled
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeReserve, MovementTypeExpectedOut:
		return true
	}
	return false
}

// ValidMovementStatus indica si s es un estado conocido.
func ValidMovementStatus(s string) bool {
	switch s {
	case MovementStatusPlanned, MovementStatusDone, MovementStatusCanceled:
		return true
	}
	return false
}

// ValidMovementSource indica si s es un origen conocido.
func ValidMovementSource(s string) bool {
	switch s {
	case MovementSourcePurchase, MovementSourceQuote, MovementSourceIntervention, MovementSourceManual:
		return true
	}
	return false
}

// PlannedMovementTypeFor devuelve el tipo de movimiento planificado que
// corresponde a una reserva según el tipo de artículo: los materiales se
// apartan (reserve), los consumibles anticipan su salida (expected_out).
func PlannedMovementTypeFor(itemType string) string {
	if itemType == ItemTypeConsumable {
		return MovementTypeExpectedOut
	}
	return MovementTypeReserve
}
