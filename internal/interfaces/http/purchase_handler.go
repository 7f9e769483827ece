package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/application/dto"
	"github.com/jhoicas/servicampo-api/internal/application/lifecycle"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/bus"
)

// PurchaseHandler maneja las órdenes de compra (protegido).
type PurchaseHandler struct {
	repo repository.PurchaseOrderRepository
	bus  *bus.Bus
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(repo repository.PurchaseOrderRepository, b *bus.Bus) *PurchaseHandler {
	return &PurchaseHandler{repo: repo, bus: b}
}

// Create da de alta una orden de compra pendiente. Si trae fecha prevista, el
// evento genera las entradas planificadas.
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SupplierName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "supplier_name es obligatorio"})
	}
	po := &entity.PurchaseOrder{
		Number:       in.Number,
		SupplierName: in.SupplierName,
		Status:       entity.PurchaseStatusPending,
		ExpectedAt:   in.ExpectedAt,
		Lines:        dto.ToDocumentLines(in.Lines),
	}
	if err := h.repo.Create(po); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de orden ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.bus.Publish(c.Context(), lifecycle.EventPurchaseUpdated, lifecycle.StatusChanged{
		ID: po.ID, PrevStatus: "", NewStatus: entity.PurchaseStatusPending,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": po.ID, "message": "orden de compra creada"})
}

// List lista órdenes de compra paginadas.
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.repo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"purchase_orders": list, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID devuelve una orden de compra completa.
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if po == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
	}
	return c.JSON(po)
}

// ChangeStatus transiciona el estado de la orden (received o canceled desde
// aquí; las recepciones parciales van por Receive).
func (h *PurchaseHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !entity.ValidPurchaseStatus(in.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado de orden desconocido"})
	}
	po, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if po == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
	}
	prev := po.Status
	if err := h.repo.UpdateStatus(po.ID, in.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	payload := lifecycle.StatusChanged{ID: po.ID, PrevStatus: prev, NewStatus: in.Status}
	if in.Status == entity.PurchaseStatusReceived || in.Status == entity.PurchaseStatusPartial {
		h.bus.Publish(c.Context(), lifecycle.EventPurchaseReceived, payload)
	} else {
		h.bus.Publish(c.Context(), lifecycle.EventPurchaseUpdated, payload)
	}
	return c.JSON(fiber.Map{"message": "orden de compra guardada"})
}

// Receive registra una recepción total o parcial: actualiza las cantidades
// recibidas por línea, deriva el estado (partial o received) y publica el
// evento para que el motor convierta lo recibido en entradas realizadas.
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if po == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
	}
	if po.Status == entity.PurchaseStatusCanceled {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la orden está cancelada"})
	}

	applyReceived(po.Lines, in.Lines)
	prev := po.Status
	po.Status = receiveStatus(po.Lines)
	if po.Status == entity.PurchaseStatusReceived && po.ReceivedAt == nil {
		now := time.Now()
		po.ReceivedAt = &now
	}
	if err := h.repo.Update(po); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	h.bus.Publish(c.Context(), lifecycle.EventPurchaseReceived, lifecycle.StatusChanged{
		ID: po.ID, PrevStatus: prev, NewStatus: po.Status,
	})
	return c.JSON(fiber.Map{"message": "recepción registrada", "status": po.Status})
}

// applyReceived vuelca qty_received de la petición sobre las líneas de la
// orden, casando por la misma referencia laxa con la que se editó la línea.
func applyReceived(lines []entity.DocumentLine, received []dto.DocumentLineDTO) {
	for i := range lines {
		for _, r := range received {
			if sameLineRef(lines[i], r) {
				lines[i].QtyReceived = r.QtyReceived
				break
			}
		}
	}
}

func sameLineRef(l entity.DocumentLine, r dto.DocumentLineDTO) bool {
	if r.ItemID != "" && r.ItemID == l.ItemID {
		return true
	}
	if r.SKU != "" && r.SKU == l.SKU {
		return true
	}
	return r.Name != "" && r.Name == l.Name
}

// receiveStatus deriva el estado de la orden de sus líneas: received si todo
// lo pedido llegó, partial si llegó algo, pending si nada.
func receiveStatus(lines []entity.DocumentLine) string {
	anyReceived := false
	allReceived := true
	for _, l := range lines {
		if l.QtyReceived.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if l.QtyReceived.LessThan(l.Qty) {
			allReceived = false
		}
	}
	switch {
	case allReceived && len(lines) > 0:
		return entity.PurchaseStatusReceived
	case anyReceived:
		return entity.PurchaseStatusPartial
	default:
		return entity.PurchaseStatusPending
	}
}
