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

var _ repository.InterventionRepository = (*InterventionRepo)(nil)

// InterventionRepo implementación de InterventionRepository (usable con pool o tx).
type InterventionRepo struct {
	q Querier
}

// NewInterventionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInterventionRepository(q Querier) *InterventionRepo {
	return &InterventionRepo{q: q}
}

// Create persiste la cabecera de la intervención y sus líneas.
func (r *InterventionRepo) Create(iv *entity.Intervention) error {
	if iv.ID == "" {
		iv.ID = uuid.New().String()
	}
	now := time.Now()
	query := `
		INSERT INTO interventions (id, number, client_name, status, quote_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		iv.ID, iv.Number, iv.ClientName, iv.Status, nullIfEmpty(iv.QuoteID), iv.Date, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert intervention: %w", err)
	}
	if err := insertLines(r.q, "intervention_lines", "intervention_id", iv.ID, iv.Lines); err != nil {
		return fmt.Errorf("insert intervention lines: %w", err)
	}
	iv.CreatedAt = now
	iv.UpdatedAt = now
	return nil
}

// GetByID obtiene una intervención completa (cabecera + líneas). Nil si no existe.
func (r *InterventionRepo) GetByID(id string) (*entity.Intervention, error) {
	query := `
		SELECT id, number, client_name, status, quote_id, date, created_at, updated_at
		FROM interventions WHERE id = $1`
	var iv entity.Intervention
	var quoteID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&iv.ID, &iv.Number, &iv.ClientName, &iv.Status, &quoteID, &iv.Date,
		&iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get intervention: %w", err)
	}
	if quoteID != nil {
		iv.QuoteID = *quoteID
	}
	lines, err := selectLines(r.q, "intervention_lines", "intervention_id", id)
	if err != nil {
		return nil, fmt.Errorf("list intervention lines: %w", err)
	}
	iv.Lines = lines
	return &iv, nil
}

// List devuelve una página de intervenciones (solo cabeceras).
func (r *InterventionRepo) List(limit, offset int) ([]*entity.Intervention, error) {
	query := `
		SELECT id, number, client_name, status, quote_id, date, created_at, updated_at
		FROM interventions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Intervention
	for rows.Next() {
		var iv entity.Intervention
		var quoteID *string
		if err := rows.Scan(&iv.ID, &iv.Number, &iv.ClientName, &iv.Status, &quoteID, &iv.Date, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		if quoteID != nil {
			iv.QuoteID = *quoteID
		}
		list = append(list, &iv)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la intervención.
func (r *InterventionRepo) UpdateStatus(id, status string) error {
	query := `UPDATE interventions SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update intervention status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDate reprograma la intervención sin tocar su estado.
func (r *InterventionRepo) UpdateDate(id string, date time.Time) error {
	query := `UPDATE interventions SET date = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, date)
	if err != nil {
		return fmt.Errorf("update intervention date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
