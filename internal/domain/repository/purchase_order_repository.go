package repository

import "github.com/jhoicas/servicampo-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra (DIP).
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	List(limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateStatus(id, status string) error
	// Update reescribe cabecera y líneas (cantidades recibidas en recepciones parciales).
	Update(po *entity.PurchaseOrder) error
}
