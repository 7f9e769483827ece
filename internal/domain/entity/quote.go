package entity

import "time"

// Estados de cotización.
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusSigned    = "signed"
	QuoteStatusValidated = "validated"
	QuoteStatusCompleted = "completed"
	QuoteStatusRefused   = "refused"
	QuoteStatusCanceled  = "canceled"
)

// QuoteStatusAcceptedLike agrupa los estados que comprometen el inventario:
// una cotización aceptada, firmada, validada o completada reserva sus líneas.
func QuoteStatusAcceptedLike(s string) bool {
	switch s {
	case QuoteStatusAccepted, QuoteStatusSigned, QuoteStatusValidated, QuoteStatusCompleted:
		return true
	}
	return false
}

// ValidQuoteStatus indica si s es un estado de cotización conocido.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusSigned,
		QuoteStatusValidated, QuoteStatusCompleted, QuoteStatusRefused, QuoteStatusCanceled:
		return true
	}
	return false
}

// Quote representa una cotización (devis) para un cliente.
type Quote struct {
	ID         string
	Number     string // etiqueta legible (COT-0042)
	ClientName string
	Status     string
	Date       time.Time
	Lines      []DocumentLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
