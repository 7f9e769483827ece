package entity

import "time"

// Estados de intervención (orden de trabajo en campo).
const (
	InterventionStatusToSchedule = "to_schedule"
	InterventionStatusScheduled  = "scheduled"
	InterventionStatusInProgress = "in_progress"
	InterventionStatusCompleted  = "completed"
	InterventionStatusCanceled   = "canceled"
)

// InterventionStatusActive indica si la intervención sigue viva
// (ni completada ni cancelada).
func InterventionStatusActive(s string) bool {
	return s != InterventionStatusCompleted && s != InterventionStatusCanceled
}

// ValidInterventionStatus indica si s es un estado de intervención conocido.
func ValidInterventionStatus(s string) bool {
	switch s {
	case InterventionStatusToSchedule, InterventionStatusScheduled,
		InterventionStatusInProgress, InterventionStatusCompleted, InterventionStatusCanceled:
		return true
	}
	return false
}

// Intervention representa una orden de trabajo en campo. Si nace de una
// cotización aceptada, QuoteID la enlaza: al completarse, el consumo de stock
// se delega a las reservas de la cotización para no descontar dos veces.
type Intervention struct {
	ID         string
	Number     string // etiqueta legible (INT-0107)
	ClientName string
	Status     string
	QuoteID    string     // cotización origen (vacío si es intervención directa)
	Date       *time.Time // fecha programada (nil si aún sin agendar)
	Lines      []DocumentLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
