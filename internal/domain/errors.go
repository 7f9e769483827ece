package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("el movimiento está en estado terminal")
	ErrUnresolvedItem    = errors.New("artículo de inventario no resuelto")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
