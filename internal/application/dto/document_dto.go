package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// DocumentLineDTO línea de documento con referencias laxas al artículo:
// basta con uno de item_id, sku o name; la resolución la hace el backend.
type DocumentLineDTO struct {
	ItemID      string          `json:"item_id,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	QtyReceived decimal.Decimal `json:"qty_received,omitempty"`
}

// ToDocumentLines mapea las líneas DTO a entidad.
func ToDocumentLines(lines []DocumentLineDTO) []entity.DocumentLine {
	out := make([]entity.DocumentLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.DocumentLine{
			ItemID:      l.ItemID,
			SKU:         l.SKU,
			Name:        l.Name,
			Qty:         l.Qty,
			QtyReceived: l.QtyReceived,
		})
	}
	return out
}

// FromDocumentLines mapea las líneas de entidad al DTO.
func FromDocumentLines(lines []entity.DocumentLine) []DocumentLineDTO {
	out := make([]DocumentLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, DocumentLineDTO{
			ItemID:      l.ItemID,
			SKU:         l.SKU,
			Name:        l.Name,
			Qty:         l.Qty,
			QtyReceived: l.QtyReceived,
		})
	}
	return out
}

// CreateQuoteRequest entrada para crear una cotización.
type CreateQuoteRequest struct {
	Number     string            `json:"number"`
	ClientName string            `json:"client_name" validate:"required"`
	Date       time.Time         `json:"date"`
	Lines      []DocumentLineDTO `json:"lines"`
}

// CreateInterventionRequest entrada para crear una intervención. QuoteID es
// opcional: si viene, la intervención queda enlazada a esa cotización y su
// consumo al completarse se delega a las reservas de la cotización.
type CreateInterventionRequest struct {
	Number     string            `json:"number"`
	ClientName string            `json:"client_name" validate:"required"`
	QuoteID    string            `json:"quote_id,omitempty"`
	Date       *time.Time        `json:"date,omitempty"`
	Lines      []DocumentLineDTO `json:"lines"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	Number       string            `json:"number"`
	SupplierName string            `json:"supplier_name" validate:"required"`
	ExpectedAt   *time.Time        `json:"expected_at,omitempty"`
	Lines        []DocumentLineDTO `json:"lines"`
}

// ChangeStatusRequest body para los endpoints PATCH .../status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RescheduleRequest body para reprogramar una intervención.
type RescheduleRequest struct {
	Date time.Time `json:"date" validate:"required"`
}

// ReceiveRequest body para registrar una recepción (total o parcial) de una
// orden de compra. qty_received es el acumulado recibido del documento, no el
// delta de esta entrega; las líneas que no vengan conservan lo ya recibido.
type ReceiveRequest struct {
	Lines []DocumentLineDTO `json:"lines"`
}
