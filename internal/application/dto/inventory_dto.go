package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// CreateItemRequest entrada para crear un artículo del catálogo.
type CreateItemRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Type        string          `json:"type" validate:"required,oneof=consumable material"`
	MinQtyAlert decimal.Decimal `json:"min_qty_alert"`
}

// ItemResponse artículo del catálogo con sus cantidades derivadas.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku,omitempty"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	QtyOnHand    decimal.Decimal `json:"qty_on_hand"`
	QtyReserved  decimal.Decimal `json:"qty_reserved"`
	QtyAvailable decimal.Decimal `json:"qty_available"`
	MinQtyAlert  decimal.Decimal `json:"min_qty_alert"`
	BelowMinQty  bool            `json:"below_min_qty"`
}

// ToItemResponse mapea la entidad a su representación HTTP.
func ToItemResponse(item *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		SKU:          item.SKU,
		Name:         item.Name,
		Type:         item.Type,
		QtyOnHand:    item.QtyOnHand,
		QtyReserved:  item.QtyReserved,
		QtyAvailable: item.QtyAvailable(),
		MinQtyAlert:  item.MinQtyAlert,
		BelowMinQty:  item.BelowMinQty(),
	}
}

// ManualMovementRequest body para registrar una entrada o salida manual.
type ManualMovementRequest struct {
	ItemID string          `json:"item_id" validate:"required"`
	Type   string          `json:"type" validate:"required,oneof=in out"`
	Qty    decimal.Decimal `json:"qty"`
	Note   string          `json:"note"`
}

// MovementResponse fila del historial de movimientos de un artículo.
type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Source      string          `json:"source"`
	RefID       string          `json:"ref_id,omitempty"`
	RefNumber   string          `json:"ref_number,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	EffectiveAt *time.Time      `json:"effective_at,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToMovementResponse mapea la entidad a su representación HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Type:        m.Type,
		Status:      m.Status,
		Source:      m.Source,
		RefID:       m.RefID,
		RefNumber:   m.RefNumber,
		Qty:         m.Qty,
		ScheduledAt: m.ScheduledAt,
		EffectiveAt: m.EffectiveAt,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}
