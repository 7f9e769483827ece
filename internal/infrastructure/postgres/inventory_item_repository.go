package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación del catálogo sobre PostgreSQL (usable con pool o tx).
// La columna name_key guarda el nombre normalizado (inventory.NameKey) para la
// resolución difusa de líneas.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, sku, name, type, qty_on_hand, qty_reserved, min_qty_alert, created_at, updated_at`

// Create persiste un artículo nuevo. SKU duplicado retorna domain.ErrDuplicate.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.Name == "" || !entity.ValidItemType(item.Type) {
		return domain.ErrInvalidInput
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	query := `
		INSERT INTO inventory_items (id, sku, name, name_key, type, qty_on_hand, qty_reserved, min_qty_alert, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, inventory.NameKey(item.Name), item.Type,
		item.QtyOnHand, item.QtyReserved, item.MinQtyAlert, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// GetByID obtiene un artículo por ID (nil si no existe).
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.getBy("id = $1", id)
}

// GetBySKU obtiene un artículo por SKU (nil si no existe).
func (r *InventoryItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	return r.getBy("sku = $1", sku)
}

// GetByNameKey busca por nombre normalizado (nil si no existe).
func (r *InventoryItemRepo) GetByNameKey(key string) (*entity.InventoryItem, error) {
	return r.getBy("name_key = $1", key)
}

func (r *InventoryItemRepo) getBy(where string, arg any) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE ` + where
	item, err := scanItem(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el artículo y bloquea su fila (SELECT FOR UPDATE).
// El bloqueo serializa los recomputes concurrentes del mismo artículo.
func (r *InventoryItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return item, nil
}

// UpdateQuantities persiste on_hand y reserved de forma atómica.
func (r *InventoryItemRepo) UpdateQuantities(id string, onHand, reserved decimal.Decimal) error {
	query := `
		UPDATE inventory_items
		SET qty_on_hand = $2, qty_reserved = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, onHand, reserved)
	if err != nil {
		return fmt.Errorf("update item quantities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve una página del catálogo ordenada por nombre.
func (r *InventoryItemRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListBelowMinAlert devuelve los artículos bajo su umbral de alerta,
// ordenados por mayor déficit primero.
func (r *InventoryItemRepo) ListBelowMinAlert() ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE min_qty_alert > 0 AND qty_on_hand <= min_qty_alert
		ORDER BY (min_qty_alert - qty_on_hand) DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list items below alert: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(
		&i.ID, &i.SKU, &i.Name, &i.Type,
		&i.QtyOnHand, &i.QtyReserved, &i.MinQtyAlert,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
