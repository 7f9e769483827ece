package entity

import "github.com/shopspring/decimal"

// DocumentLine es una línea de un documento origen (cotización, intervención
// u orden de compra). Los campos de referencia son laxos a propósito: el editor
// puede aportar el ID del artículo, solo el SKU o únicamente el nombre; la
// resolución al artículo real la hace el LineResolver con esa cadena de fallback.
type DocumentLine struct {
	ItemID      string
	SKU         string
	Name        string
	Qty         decimal.Decimal
	QtyReceived decimal.Decimal // solo órdenes de compra con recepción parcial
}
