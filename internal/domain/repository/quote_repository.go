package repository

import "github.com/jhoicas/servicampo-api/internal/domain/entity"

// QuoteRepository define el puerto de persistencia de cotizaciones (DIP).
type QuoteRepository interface {
	Create(q *entity.Quote) error
	GetByID(id string) (*entity.Quote, error)
	List(limit, offset int) ([]*entity.Quote, error)
	UpdateStatus(id, status string) error
}
