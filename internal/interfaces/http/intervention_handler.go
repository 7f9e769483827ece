package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicampo-api/internal/application/dto"
	"github.com/jhoicas/servicampo-api/internal/application/lifecycle"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/bus"
)

// InterventionHandler maneja las intervenciones en campo (protegido).
type InterventionHandler struct {
	repo repository.InterventionRepository
	bus  *bus.Bus
}

// NewInterventionHandler construye el handler.
func NewInterventionHandler(repo repository.InterventionRepository, b *bus.Bus) *InterventionHandler {
	return &InterventionHandler{repo: repo, bus: b}
}

// Create da de alta una intervención. Si viene con fecha nace scheduled y se
// publica el evento de agendado; si no, queda to_schedule.
func (h *InterventionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInterventionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_name es obligatorio"})
	}
	status := entity.InterventionStatusToSchedule
	if in.Date != nil {
		status = entity.InterventionStatusScheduled
	}
	iv := &entity.Intervention{
		Number:     in.Number,
		ClientName: in.ClientName,
		Status:     status,
		QuoteID:    in.QuoteID,
		Date:       in.Date,
		Lines:      dto.ToDocumentLines(in.Lines),
	}
	if err := h.repo.Create(iv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de intervención ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if status == entity.InterventionStatusScheduled {
		h.bus.Publish(c.Context(), lifecycle.EventJobScheduled, lifecycle.StatusChanged{
			ID: iv.ID, PrevStatus: entity.InterventionStatusToSchedule, NewStatus: status,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": iv.ID, "message": "intervención creada"})
}

// List lista intervenciones paginadas.
func (h *InterventionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.repo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"interventions": list, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID devuelve una intervención completa.
func (h *InterventionHandler) GetByID(c *fiber.Ctx) error {
	iv, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if iv == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "intervención no encontrada"})
	}
	return c.JSON(iv)
}

// ChangeStatus transiciona el estado de la intervención y publica el evento
// que corresponda (agendada, completada o cancelada).
func (h *InterventionHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !entity.ValidInterventionStatus(in.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado de intervención desconocido"})
	}
	iv, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if iv == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "intervención no encontrada"})
	}
	prev := iv.Status
	if err := h.repo.UpdateStatus(iv.ID, in.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	payload := lifecycle.StatusChanged{ID: iv.ID, PrevStatus: prev, NewStatus: in.Status}
	switch in.Status {
	case entity.InterventionStatusScheduled:
		h.bus.Publish(c.Context(), lifecycle.EventJobScheduled, payload)
	case entity.InterventionStatusCompleted:
		h.bus.Publish(c.Context(), lifecycle.EventJobCompleted, payload)
	case entity.InterventionStatusCanceled:
		h.bus.Publish(c.Context(), lifecycle.EventJobCanceled, payload)
	}
	return c.JSON(fiber.Map{"message": "intervención guardada"})
}

// Reschedule cambia la fecha de una intervención viva y publica el evento de
// reprogramación (las reservas siguen la nueva fecha).
func (h *InterventionHandler) Reschedule(c *fiber.Ctx) error {
	var in dto.RescheduleRequest
	if err := c.BodyParser(&in); err != nil || in.Date.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "date es obligatorio"})
	}
	iv, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if iv == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "intervención no encontrada"})
	}
	if !entity.InterventionStatusActive(iv.Status) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la intervención ya no admite cambios de fecha"})
	}
	if err := h.repo.UpdateDate(iv.ID, in.Date); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.bus.Publish(c.Context(), lifecycle.EventJobRescheduled, lifecycle.Rescheduled{ID: iv.ID, NewDate: in.Date})
	return c.JSON(fiber.Map{"message": "intervención reprogramada"})
}
