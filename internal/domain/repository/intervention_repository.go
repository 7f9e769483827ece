package repository

import (
	"time"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// InterventionRepository define el puerto de persistencia de intervenciones (DIP).
type InterventionRepository interface {
	Create(iv *entity.Intervention) error
	GetByID(id string) (*entity.Intervention, error)
	List(limit, offset int) ([]*entity.Intervention, error)
	UpdateStatus(id, status string) error
	// UpdateDate reprograma la intervención sin tocar su estado.
	UpdateDate(id string, date time.Time) error
}
