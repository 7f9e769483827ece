package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo registro de movimientos en memoria (tests y arranques locales).
// Conserva el orden de inserción, igual que la columna created_at en PostgreSQL.
type MovementRepo struct {
	mu        sync.RWMutex
	movements []*entity.Movement
	byID      map[string]int
}

// NewMovementRepository construye un registro vacío.
func NewMovementRepository() *MovementRepo {
	return &MovementRepo{byID: make(map[string]int)}
}

// Create valida y persiste el movimiento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if _, dup := r.byID[movement.ID]; dup {
		return domain.ErrDuplicate
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	stored := *movement
	r.byID[stored.ID] = len(r.movements)
	r.movements = append(r.movements, &stored)
	return nil
}

// GetByID devuelve una copia del movimiento (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r.movements[idx]
	return &cp, nil
}

// SetStatus transiciona planned → done|canceled respetando la inmutabilidad
// de los estados terminales.
func (r *MovementRepo) SetStatus(id, status string) error {
	if !entity.ValidMovementStatus(status) {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	m := r.movements[idx]
	if m.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	m.Status = status
	if status == entity.MovementStatusDone && m.EffectiveAt == nil {
		now := time.Now()
		m.EffectiveAt = &now
	}
	return nil
}

// UpdatePlanned ajusta cantidad y fecha prevista de un movimiento planned vivo.
func (r *MovementRepo) UpdatePlanned(id string, qty decimal.Decimal, scheduledAt *time.Time) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	m := r.movements[idx]
	if m.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	m.Qty = qty
	m.ScheduledAt = scheduledAt
	return nil
}

// Query aplica el filtro sobre el registro y devuelve copias.
func (r *MovementRepo) Query(filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.mu.RLock()
	var matched []*entity.Movement
	for _, m := range r.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.Source != "" && m.Source != filter.Source {
			continue
		}
		if filter.RefID != "" && m.RefID != filter.RefID {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, m.Type) {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	if filter.OrderByDateDesc {
		sort.SliceStable(matched, func(i, j int) bool {
			return movementDate(matched[i]).After(movementDate(matched[j]))
		})
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// movementDate replica COALESCE(effective_at, scheduled_at, created_at).
func movementDate(m *entity.Movement) time.Time {
	if m.EffectiveAt != nil {
		return *m.EffectiveAt
	}
	if m.ScheduledAt != nil {
		return *m.ScheduledAt
	}
	return m.CreatedAt
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
