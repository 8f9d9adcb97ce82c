package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ticket"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// TicketHandler maneja las peticiones HTTP de tickets de stock (protegido).
type TicketHandler struct {
	uc *ticket.UseCase
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *ticket.UseCase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ticket de stock
// @Description  IMPORT se aplica de inmediato; EXPORT y TRANSFER quedan pendientes de aprobación.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTicketRequest  true  "workflow_code, transaction_data"
// @Success      201   {object}  dto.TicketCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/tickets [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type submitRequest struct {
	WorkflowCode string `json:"workflow_code"`
}

// Submit godoc
// @Summary      Enviar un borrador a su flujo
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Ticket ID"
// @Success      200   {object}  dto.TicketCreatedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/submit [post]
func (h *TicketHandler) Submit(c *fiber.Ctx) error {
	var in submitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Submit(c.Context(), GetActor(c), paramID(c), in.WorkflowCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar el paso actual
// @Description  En el último paso aplica el ledger; si falta stock el ticket queda rechazado.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "Ticket ID"
// @Param        body  body  dto.TicketActionRequest  false  "comment"
// @Success      200   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/approve [post]
func (h *TicketHandler) Approve(c *fiber.Ctx) error {
	return h.action(c, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar el ticket
// @Tags         tickets
// @Security     Bearer
// @Param        id    path  string                   true   "Ticket ID"
// @Param        body  body  dto.TicketActionRequest  false  "comment"
// @Success      200   {object}  dto.TicketResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/reject [post]
func (h *TicketHandler) Reject(c *fiber.Ctx) error {
	return h.action(c, h.uc.Reject)
}

// Cancel godoc
// @Summary      Cancelar el ticket (solo su creador)
// @Tags         tickets
// @Security     Bearer
// @Param        id    path  string  true  "Ticket ID"
// @Success      200   {object}  dto.TicketResponse
// @Router       /api/tickets/{id}/cancel [post]
func (h *TicketHandler) Cancel(c *fiber.Ctx) error {
	return h.action(c, h.uc.Cancel)
}

type ticketAction func(ctx context.Context, actor entity.Actor, ticketID string, in dto.TicketActionRequest) (*dto.TicketResponse, error)

func (h *TicketHandler) action(c *fiber.Ctx, fn ticketAction) error {
	var in dto.TicketActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := fn(c.Context(), GetActor(c), paramID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pending godoc
// @Summary      Tickets que esperan acción del usuario
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TicketResponse
// @Router       /api/tickets/pending [get]
func (h *TicketHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle del ticket
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Ticket ID"
// @Success      200  {object}  dto.TicketResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id} [get]
func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDetail(c.Context(), GetActor(c), paramID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de transacciones
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "IMPORT | EXPORT | TRANSFER"
// @Param        status      query  string  false  "Estados separados por coma"
// @Param        factory_id  query  string  false  "Planta (solo super-admin)"
// @Param        limit       query  int     false  "Límite"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {object}  dto.TicketListResponse
// @Router       /api/tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	filter := entity.TicketFilter{
		FactoryID: c.Query("factory_id"),
		Type:      strings.ToUpper(c.Query("type")),
		Limit:     c.QueryInt("limit", 20),
		Offset:    c.QueryInt("offset", 0),
	}
	if s := c.Query("status"); s != "" {
		for _, st := range strings.Split(s, ",") {
			if st = strings.ToUpper(strings.TrimSpace(st)); st != "" {
				filter.Statuses = append(filter.Statuses, st)
			}
		}
	}
	out, err := h.uc.List(c.Context(), GetActor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
