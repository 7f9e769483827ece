package entity

import "time"

// Estados de orden de compra.
const (
	PurchaseStatusPending  = "pending"
	PurchaseStatusPartial  = "partial"
	PurchaseStatusReceived = "received"
	PurchaseStatusCanceled = "canceled"
)

// ValidPurchaseStatus indica si s es un estado de orden de compra conocido.
func ValidPurchaseStatus(s string) bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusPartial, PurchaseStatusReceived, PurchaseStatusCanceled:
		return true
	}
	return false
}

// PurchaseOrder representa una orden de compra a proveedor.
// Qty de cada línea es la cantidad pedida; QtyReceived la cantidad ya recibida
// (relevante en recepciones parciales).
type PurchaseOrder struct {
	ID           string
	Number       string // etiqueta legible (OC-0017)
	SupplierName string
	Status       string
	ExpectedAt   *time.Time // fecha prevista de recepción
	ReceivedAt   *time.Time
	Lines        []DocumentLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
