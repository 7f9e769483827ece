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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste la cabecera de la cotización y sus líneas.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	now := time.Now()
	query := `
		INSERT INTO quotes (id, number, client_name, status, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.Number, quote.ClientName, quote.Status, quote.Date, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	if err := insertLines(r.q, "quote_lines", "quote_id", quote.ID, quote.Lines); err != nil {
		return fmt.Errorf("insert quote lines: %w", err)
	}
	quote.CreatedAt = now
	quote.UpdatedAt = now
	return nil
}

// GetByID obtiene una cotización completa (cabecera + líneas). Nil si no existe.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `
		SELECT id, number, client_name, status, date, created_at, updated_at
		FROM quotes WHERE id = $1`
	var q entity.Quote
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&q.ID, &q.Number, &q.ClientName, &q.Status, &q.Date, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	lines, err := selectLines(r.q, "quote_lines", "quote_id", id)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	q.Lines = lines
	return &q, nil
}

// List devuelve una página de cotizaciones (solo cabeceras, de más reciente a más antigua).
func (r *QuoteRepo) List(limit, offset int) ([]*entity.Quote, error) {
	query := `
		SELECT id, number, client_name, status, date, created_at, updated_at
		FROM quotes ORDER BY date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		var q entity.Quote
		if err := rows.Scan(&q.ID, &q.Number, &q.ClientName, &q.Status, &q.Date, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, &q)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la cotización.
func (r *QuoteRepo) UpdateStatus(id, status string) error {
	query := `UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
