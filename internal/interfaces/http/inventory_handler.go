package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicampo-api/internal/application/dto"
	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
)

// InventoryHandler maneja el catálogo de artículos, su historial de
// movimientos y las operaciones de mantenimiento del stock (protegido).
type InventoryHandler struct {
	itemRepo   repository.InventoryItemRepository
	movRepo    repository.MovementRepository
	engine     *inventory.ReservationEngine
	aggregator *inventory.StockAggregator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.MovementRepository,
	engine *inventory.ReservationEngine,
	aggregator *inventory.StockAggregator,
) *InventoryHandler {
	return &InventoryHandler{itemRepo: itemRepo, movRepo: movRepo, engine: engine, aggregator: aggregator}
}

// CreateItem da de alta un artículo del catálogo.
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || !entity.ValidItemType(in.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y type (consumable|material) son obligatorios"})
	}
	item := &entity.InventoryItem{
		SKU:         in.SKU,
		Name:        in.Name,
		Type:        in.Type,
		MinQtyAlert: in.MinQtyAlert,
	}
	if err := h.itemRepo.Create(item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un artículo con ese SKU o nombre"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// ListItems lista el catálogo paginado.
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.itemRepo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(fiber.Map{"items": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetItem devuelve un artículo por ID.
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemRepo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	}
	return c.JSON(dto.ToItemResponse(item))
}

// ListItemMovements devuelve el historial de movimientos de un artículo,
// del más reciente al más antiguo.
func (h *InventoryHandler) ListItemMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.movRepo.Query(repository.MovementFilter{
		ItemID:          c.Params("id"),
		Status:          c.Query("status"),
		OrderByDateDesc: true,
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(fiber.Map{"movements": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// RegisterManual registra una entrada o salida manual inmediata.
func (h *InventoryHandler) RegisterManual(c *fiber.Ctx) error {
	var in dto.ManualMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.RegisterManual(c.Context(), inventory.ManualMovementInput{
		ItemID: in.ItemID,
		Type:   in.Type,
		Qty:    in.Qty,
		Note:   in.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos (type in|out, qty > 0)"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// ListAlerts devuelve los artículos bajo su umbral mínimo, ordenados por déficit.
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	items, err := h.itemRepo.ListBelowMinAlert()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// Recompute recalcula las cantidades derivadas de un artículo desde su historial.
func (h *InventoryHandler) Recompute(c *fiber.Ctx) error {
	if err := h.aggregator.Recompute(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cantidades recalculadas"})
}

// RecomputeAll recorre todo el catálogo recalculando cantidades (reparación de drift).
func (h *InventoryHandler) RecomputeAll(c *fiber.Ctx) error {
	n, err := h.aggregator.RecomputeAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cantidades recalculadas", "items": n})
}
