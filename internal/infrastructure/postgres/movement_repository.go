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
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del registro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, type, status, source, ref_id, ref_number, qty, scheduled_at, effective_at, note, created_at`

// Create valida y persiste un movimiento con el estado dado.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.Type, movement.Status, movement.Source,
		movement.RefID, movement.RefNumber, movement.Qty,
		movement.ScheduledAt, movement.EffectiveAt, movement.Note, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// SetStatus transiciona un movimiento planned a done o canceled. Los estados
// terminales son inmutables: el update condiciona sobre status='planned' y si
// no afecta filas se distingue entre inexistente y transición inválida.
func (r *MovementRepo) SetStatus(id, status string) error {
	if !entity.ValidMovementStatus(status) {
		return domain.ErrInvalidInput
	}
	query := `
		UPDATE movements
		SET status = $2,
		    effective_at = CASE WHEN $2 = 'done' THEN now() ELSE effective_at END
		WHERE id = $1 AND status = 'planned'`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("set movement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// UpdatePlanned ajusta cantidad y fecha prevista de un movimiento planned en sitio.
func (r *MovementRepo) UpdatePlanned(id string, qty decimal.Decimal, scheduledAt *time.Time) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	query := `
		UPDATE movements SET qty = $2, scheduled_at = $3
		WHERE id = $1 AND status = 'planned'`
	tag, err := r.q.Exec(context.Background(), query, id, qty, scheduledAt)
	if err != nil {
		return fmt.Errorf("update planned movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// Query devuelve los movimientos que cumplen el filtro, en orden de inserción
// salvo que se pida orden por fecha descendente.
func (r *MovementRepo) Query(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(clause string, value any) {
		query += fmt.Sprintf(" AND %s = $%d", clause, pos)
		args = append(args, value)
		pos++
	}
	if filter.ItemID != "" {
		add("item_id", filter.ItemID)
	}
	if filter.Source != "" {
		add("source", filter.Source)
	}
	if filter.RefID != "" {
		add("ref_id", filter.RefID)
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if len(filter.Types) > 0 {
		query += fmt.Sprintf(" AND type = ANY($%d)", pos)
		args = append(args, filter.Types)
		pos++
	}
	if filter.OrderByDateDesc {
		query += " ORDER BY COALESCE(effective_at, scheduled_at, created_at) DESC"
	} else {
		query += " ORDER BY created_at ASC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Type, &m.Status, &m.Source, &m.RefID, &m.RefNumber,
		&m.Qty, &m.ScheduledAt, &m.EffectiveAt, &m.Note, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
