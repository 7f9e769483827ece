package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera de la orden de compra y sus líneas.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	now := time.Now()
	query := `
		INSERT INTO purchase_orders (id, number, supplier_name, status, expected_at, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.Number, po.SupplierName, po.Status, po.ExpectedAt, po.ReceivedAt, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	if err := insertLines(r.q, "purchase_order_lines", "purchase_order_id", po.ID, po.Lines); err != nil {
		return fmt.Errorf("insert purchase order lines: %w", err)
	}
	po.CreatedAt = now
	po.UpdatedAt = now
	return nil
}

// GetByID obtiene una orden de compra completa (cabecera + líneas). Nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, number, supplier_name, status, expected_at, received_at, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&po.ID, &po.Number, &po.SupplierName, &po.Status, &po.ExpectedAt, &po.ReceivedAt,
		&po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	lines, err := selectLines(r.q, "purchase_order_lines", "purchase_order_id", id)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	po.Lines = lines
	return &po, nil
}

// List devuelve una página de órdenes de compra (solo cabeceras).
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, number, supplier_name, status, expected_at, received_at, created_at, updated_at
		FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.SupplierName, &po.Status, &po.ExpectedAt, &po.ReceivedAt, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la orden. Al pasar a received fija
// received_at si todavía no estaba.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $2,
		    received_at = CASE WHEN $2 = 'received' THEN COALESCE(received_at, now()) ELSE received_at END,
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update reescribe cabecera y líneas. Se usa al registrar recepciones
// parciales, donde cambian las cantidades recibidas por línea.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET number = $2, supplier_name = $3, status = $4, expected_at = $5, received_at = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		po.ID, po.Number, po.SupplierName, po.Status, po.ExpectedAt, po.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := deleteLines(r.q, "purchase_order_lines", "purchase_order_id", po.ID); err != nil {
		return fmt.Errorf("delete purchase order lines: %w", err)
	}
	if err := insertLines(r.q, "purchase_order_lines", "purchase_order_id", po.ID, po.Lines); err != nil {
		return fmt.Errorf("insert purchase order lines: %w", err)
	}
	return nil
}
