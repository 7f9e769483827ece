package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// Repositorios en memoria de los tres documentos origen. Guardan copias y
// devuelven copias, como sus pares de PostgreSQL.

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo cotizaciones en memoria.
type QuoteRepo struct {
	mu     sync.RWMutex
	quotes map[string]*entity.Quote
}

// NewQuoteRepository construye un repositorio vacío.
func NewQuoteRepository() *QuoteRepo {
	return &QuoteRepo{quotes: make(map[string]*entity.Quote)}
}

func (r *QuoteRepo) Create(q *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if _, dup := r.quotes[q.ID]; dup {
		return domain.ErrDuplicate
	}
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	stored := *q
	stored.Lines = append([]entity.DocumentLine(nil), q.Lines...)
	r.quotes[stored.ID] = &stored
	return nil
}

func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	cp.Lines = append([]entity.DocumentLine(nil), q.Lines...)
	return &cp, nil
}

func (r *QuoteRepo) List(limit, offset int) ([]*entity.Quote, error) {
	r.mu.RLock()
	all := make([]*entity.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		cp := *q
		cp.Lines = append([]entity.DocumentLine(nil), q.Lines...)
		all = append(all, &cp)
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *QuoteRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Status = status
	q.UpdatedAt = time.Now()
	return nil
}

var _ repository.InterventionRepository = (*InterventionRepo)(nil)

// InterventionRepo intervenciones en memoria.
type InterventionRepo struct {
	mu            sync.RWMutex
	interventions map[string]*entity.Intervention
}

// NewInterventionRepository construye un repositorio vacío.
func NewInterventionRepository() *InterventionRepo {
	return &InterventionRepo{interventions: make(map[string]*entity.Intervention)}
}

func (r *InterventionRepo) Create(iv *entity.Intervention) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv.ID == "" {
		iv.ID = uuid.New().String()
	}
	if _, dup := r.interventions[iv.ID]; dup {
		return domain.ErrDuplicate
	}
	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	stored := *iv
	stored.Lines = append([]entity.DocumentLine(nil), iv.Lines...)
	r.interventions[stored.ID] = &stored
	return nil
}

func (r *InterventionRepo) GetByID(id string) (*entity.Intervention, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.interventions[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	cp.Lines = append([]entity.DocumentLine(nil), iv.Lines...)
	return &cp, nil
}

func (r *InterventionRepo) List(limit, offset int) ([]*entity.Intervention, error) {
	r.mu.RLock()
	all := make([]*entity.Intervention, 0, len(r.interventions))
	for _, iv := range r.interventions {
		cp := *iv
		cp.Lines = append([]entity.DocumentLine(nil), iv.Lines...)
		all = append(all, &cp)
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *InterventionRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interventions[id]
	if !ok {
		return domain.ErrNotFound
	}
	iv.Status = status
	iv.UpdatedAt = time.Now()
	return nil
}

func (r *InterventionRepo) UpdateDate(id string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interventions[id]
	if !ok {
		return domain.ErrNotFound
	}
	iv.Date = &date
	iv.UpdatedAt = time.Now()
	return nil
}

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*entity.PurchaseOrder
}

// NewPurchaseOrderRepository construye un repositorio vacío.
func NewPurchaseOrderRepository() *PurchaseOrderRepo {
	return &PurchaseOrderRepo{orders: make(map[string]*entity.PurchaseOrder)}
}

func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	if _, dup := r.orders[po.ID]; dup {
		return domain.ErrDuplicate
	}
	now := time.Now()
	po.CreatedAt = now
	po.UpdatedAt = now
	stored := *po
	stored.Lines = append([]entity.DocumentLine(nil), po.Lines...)
	r.orders[stored.ID] = &stored
	return nil
}

func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	cp.Lines = append([]entity.DocumentLine(nil), po.Lines...)
	return &cp, nil
}

func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.mu.RLock()
	all := make([]*entity.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		cp := *po
		cp.Lines = append([]entity.DocumentLine(nil), po.Lines...)
		all = append(all, &cp)
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	if status == entity.PurchaseStatusReceived && po.ReceivedAt == nil {
		now := time.Now()
		po.ReceivedAt = &now
	}
	po.UpdatedAt = time.Now()
	return nil
}

func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored := *po
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now()
	stored.Lines = append([]entity.DocumentLine(nil), po.Lines...)
	r.orders[po.ID] = &stored
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}
