package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo catálogo de artículos en memoria. Mantiene los mismos
// índices que las columnas únicas de PostgreSQL (sku, name_key).
type InventoryItemRepo struct {
	mu        sync.RWMutex
	items     map[string]*entity.InventoryItem
	bySKU     map[string]string // sku → id
	byNameKey map[string]string // name_key → id
}

// NewInventoryItemRepository construye un catálogo vacío.
func NewInventoryItemRepository() *InventoryItemRepo {
	return &InventoryItemRepo{
		items:     make(map[string]*entity.InventoryItem),
		bySKU:     make(map[string]string),
		byNameKey: make(map[string]string),
	}
}

// Create persiste un artículo nuevo. SKU o nombre normalizado duplicado
// retorna domain.ErrDuplicate.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.Name == "" || !entity.ValidItemType(item.Type) {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	key := inventory.NameKey(item.Name)
	if _, dup := r.items[item.ID]; dup {
		return domain.ErrDuplicate
	}
	if item.SKU != "" {
		if _, dup := r.bySKU[item.SKU]; dup {
			return domain.ErrDuplicate
		}
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := *item
	r.items[stored.ID] = &stored
	if stored.SKU != "" {
		r.bySKU[stored.SKU] = stored.ID
	}
	r.byNameKey[key] = stored.ID
	return nil
}

// GetByID devuelve una copia del artículo (nil si no existe).
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(id), nil
}

// GetBySKU devuelve una copia del artículo con ese SKU (nil si no existe).
func (r *InventoryItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(r.bySKU[sku]), nil
}

// GetByNameKey busca por nombre normalizado (nil si no existe).
func (r *InventoryItemRepo) GetByNameKey(key string) (*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(r.byNameKey[key]), nil
}

// GetForUpdate equivale a GetByID: el candado por artículo lo aporta el
// TxRunner en memoria, que serializa las transacciones completas.
func (r *InventoryItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

// UpdateQuantities persiste on_hand y reserved.
func (r *InventoryItemRepo) UpdateQuantities(id string, onHand, reserved decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.QtyOnHand = onHand
	item.QtyReserved = reserved
	item.UpdatedAt = time.Now()
	return nil
}

// List devuelve una página del catálogo ordenada por nombre.
func (r *InventoryItemRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	r.mu.RLock()
	all := make([]*entity.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		cp := *item
		all = append(all, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListBelowMinAlert devuelve los artículos bajo su umbral de alerta,
// ordenados por mayor déficit primero.
func (r *InventoryItemRepo) ListBelowMinAlert() ([]*entity.InventoryItem, error) {
	r.mu.RLock()
	var low []*entity.InventoryItem
	for _, item := range r.items {
		if item.MinQtyAlert.GreaterThan(decimal.Zero) && item.QtyOnHand.LessThanOrEqual(item.MinQtyAlert) {
			cp := *item
			low = append(low, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(low, func(i, j int) bool {
		di := low[i].MinQtyAlert.Sub(low[i].QtyOnHand)
		dj := low[j].MinQtyAlert.Sub(low[j].QtyOnHand)
		return di.GreaterThan(dj)
	})
	return low, nil
}

func (r *InventoryItemRepo) copyOf(id string) *entity.InventoryItem {
	item, ok := r.items[id]
	if !ok {
		return nil
	}
	cp := *item
	return &cp
}
