package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// Las líneas de los tres documentos (cotización, intervención, orden de compra)
// comparten forma: referencias laxas al artículo más cantidades. Cada documento
// tiene su propia tabla de líneas pero el SQL es idéntico salvo nombres.

func insertLines(q Querier, table, fkColumn, docID string, lines []entity.DocumentLine) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, position, item_id, sku, name, qty, qty_received)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, table, fkColumn)
	for i, line := range lines {
		_, err := q.Exec(context.Background(), query,
			docID, i, line.ItemID, line.SKU, line.Name, line.Qty, line.QtyReceived,
		)
		if err != nil {
			return fmt.Errorf("insert line %d: %w", i, err)
		}
	}
	return nil
}

func selectLines(q Querier, table, fkColumn, docID string) ([]entity.DocumentLine, error) {
	query := fmt.Sprintf(`
		SELECT item_id, sku, name, qty, qty_received
		FROM %s WHERE %s = $1 ORDER BY position`, table, fkColumn)
	rows, err := q.Query(context.Background(), query, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ItemID, &l.SKU, &l.Name, &l.Qty, &l.QtyReceived); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func deleteLines(q Querier, table, fkColumn, docID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, fkColumn)
	_, err := q.Exec(context.Background(), query, docID)
	return err
}
