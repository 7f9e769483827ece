package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de artículo de inventario.
const (
	ItemTypeConsumable = "consumable" // se consume en la intervención (cable, tornillería, repuestos)
	ItemTypeMaterial   = "material"   // se reserva y se devuelve (herramienta, equipo de obra)
)

// ValidItemType indica si t es un tipo de artículo conocido.
func ValidItemType(t string) bool {
	return t == ItemTypeConsumable || t == ItemTypeMaterial
}

// InventoryItem representa un artículo del catálogo de inventario.
// QtyOnHand y QtyReserved son campos materializados: el agregador los recalcula
// siempre desde el historial de movimientos, nunca se editan a mano.
type InventoryItem struct {
	ID          string
	SKU         string // código único del artículo
	Name        string
	Type        string          // consumable | material
	QtyOnHand   decimal.Decimal // cantidad física presente (≥ 0)
	QtyReserved decimal.Decimal // cantidad apartada por movimientos planificados (≥ 0)
	MinQtyAlert decimal.Decimal // umbral de alerta de bajo stock (0 = sin alerta)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QtyAvailable devuelve la cantidad disponible (derivada): OnHand − Reserved.
func (i *InventoryItem) QtyAvailable() decimal.Decimal {
	return i.QtyOnHand.Sub(i.QtyReserved)
}

// BelowMinQty indica si el artículo está por debajo de su umbral de alerta.
func (i *InventoryItem) BelowMinQty() bool {
	return i.MinQtyAlert.GreaterThan(decimal.Zero) && i.QtyOnHand.LessThanOrEqual(i.MinQtyAlert)
}
