package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// MovementFilter predicados para consultar el registro de movimientos.
// Los campos vacíos no filtran; Types vacío acepta cualquier tipo.
type MovementFilter struct {
	ItemID          string
	Source          string
	RefID           string
	Status          string
	Types           []string
	OrderByDateDesc bool // por defecto se respeta el orden de inserción
	Limit           int  // 0 = sin límite
	Offset          int
}

// MovementRepository define el puerto de persistencia del registro de movimientos.
// El registro es append-mostly: la única mutación permitida sobre un movimiento
// existente es el cambio de estado (SetStatus) o el ajuste de un planned vivo
// (UpdatePlanned); done y canceled son inmutables.
type MovementRepository interface {
	// Create valida qty > 0 y enums conocidos (domain.ErrInvalidInput si no),
	// asigna ID si falta y persiste el movimiento con el estado dado.
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// SetStatus transiciona planned → done|canceled. Retorna domain.ErrNotFound
	// si no existe y domain.ErrInvalidTransition si el estado actual es terminal.
	SetStatus(id, status string) error
	// UpdatePlanned ajusta cantidad y fecha prevista de un movimiento planned
	// en sitio (protocolo de upsert de reservas). Falla con
	// domain.ErrInvalidTransition si el movimiento ya es terminal.
	UpdatePlanned(id string, qty decimal.Decimal, scheduledAt *time.Time) error
	Query(filter MovementFilter) ([]*entity.Movement, error)
}
