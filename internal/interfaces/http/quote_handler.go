package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicampo-api/internal/application/dto"
	"github.com/jhoicas/servicampo-api/internal/application/lifecycle"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/bus"
)

// QuoteHandler maneja las cotizaciones (protegido). Los cambios de estado se
// persisten primero y después se publican en el bus; la pantalla nunca habla
// con el motor de reservas.
type QuoteHandler struct {
	repo repository.QuoteRepository
	bus  *bus.Bus
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(repo repository.QuoteRepository, b *bus.Bus) *QuoteHandler {
	return &QuoteHandler{repo: repo, bus: b}
}

// Create da de alta una cotización en borrador.
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_name es obligatorio"})
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	q := &entity.Quote{
		Number:     in.Number,
		ClientName: in.ClientName,
		Status:     entity.QuoteStatusDraft,
		Date:       date,
		Lines:      dto.ToDocumentLines(in.Lines),
	}
	if err := h.repo.Create(q); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de cotización ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": q.ID, "message": "cotización creada"})
}

// List lista cotizaciones paginadas.
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	quotes, err := h.repo.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"quotes": quotes, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID devuelve una cotización completa.
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	q, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if q == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cotización no encontrada"})
	}
	return c.JSON(q)
}

// ChangeStatus transiciona el estado de la cotización. El documento se guarda
// siempre; la sincronización de reservas corre detrás del evento y su fallo
// no revierte el guardado.
func (h *QuoteHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !entity.ValidQuoteStatus(in.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado de cotización desconocido"})
	}
	q, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if q == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cotización no encontrada"})
	}
	prev := q.Status
	if err := h.repo.UpdateStatus(q.ID, in.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	payload := lifecycle.StatusChanged{ID: q.ID, PrevStatus: prev, NewStatus: in.Status}
	switch {
	case entity.QuoteStatusAcceptedLike(in.Status):
		h.bus.Publish(c.Context(), lifecycle.EventQuoteAccepted, payload)
	case in.Status == entity.QuoteStatusRefused || in.Status == entity.QuoteStatusCanceled:
		h.bus.Publish(c.Context(), lifecycle.EventQuoteCanceled, payload)
	}
	return c.JSON(fiber.Map{"message": "cotización guardada"})
}
