package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia del catálogo de artículos.
// Los campos qty_on_hand / qty_reserved solo los escribe el agregador vía
// UpdateQuantities; el resto del artículo se gestiona desde el catálogo.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetBySKU(sku string) (*entity.InventoryItem, error)
	// GetByNameKey busca por nombre normalizado (ver inventory.NameKey).
	GetByNameKey(key string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del artículo para update (SELECT FOR UPDATE).
	// Es el candado por artículo que serializa recomputes concurrentes.
	GetForUpdate(id string) (*entity.InventoryItem, error)
	// UpdateQuantities persiste on_hand y reserved de forma atómica.
	UpdateQuantities(id string, onHand, reserved decimal.Decimal) error
	List(limit, offset int) ([]*entity.InventoryItem, error)
	// ListBelowMinAlert devuelve los artículos bajo su umbral de alerta,
	// ordenados por mayor déficit primero.
	ListBelowMinAlert() ([]*entity.InventoryItem, error)
}
