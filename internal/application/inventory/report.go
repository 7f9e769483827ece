package inventory

import (
	"fmt"
	"strings"
)

// SyncReport resume el resultado de una operación de inventario. Es la base
// del mensaje visible al usuario: toda operación emite al menos un mensaje,
// de éxito o el aviso explícito de que no hubo acción de inventario.
type SyncReport struct {
	Created  int      `json:"created"`           // movimientos planificados insertados
	Updated  int      `json:"updated"`           // planificados ajustados en sitio
	Canceled int      `json:"canceled"`          // planificados anulados
	Done     int      `json:"done"`              // movimientos realizados (in/out done)
	Skipped  []string `json:"skipped,omitempty"` // referencias de líneas no resueltas
}

// Empty indica que la operación no tocó el inventario.
func (r *SyncReport) Empty() bool {
	return r == nil || (r.Created == 0 && r.Updated == 0 && r.Canceled == 0 && r.Done == 0 && len(r.Skipped) == 0)
}

// Summary devuelve el mensaje de resultado para la UI.
func (r *SyncReport) Summary() string {
	if r.Empty() {
		return "sin acción de inventario"
	}
	var parts []string
	if r.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d planificados", r.Created))
	}
	if r.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d actualizados", r.Updated))
	}
	if r.Canceled > 0 {
		parts = append(parts, fmt.Sprintf("%d cancelados", r.Canceled))
	}
	if r.Done > 0 {
		parts = append(parts, fmt.Sprintf("%d realizados", r.Done))
	}
	msg := "movimientos: " + strings.Join(parts, ", ")
	if len(parts) == 0 {
		msg = "movimientos: ninguno"
	}
	if n := len(r.Skipped); n > 0 {
		msg += fmt.Sprintf(" (%d líneas omitidas: %s)", n, strings.Join(r.Skipped, ", "))
	}
	return msg
}
