package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
)

// WorkflowHandler CRUD de flujos de aprobación (requiere WORKFLOW_MANAGE).
type WorkflowHandler struct {
	uc *workflow.UseCase
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(uc *workflow.UseCase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

// Create godoc
// @Summary      Crear flujo de aprobación
// @Tags         workflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WorkflowRequest  true  "code, name, applies_to, steps"
// @Success      201   {object}  dto.WorkflowResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workflows [post]
func (h *WorkflowHandler) Create(c *fiber.Ctx) error {
	var in dto.WorkflowRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar flujo (reemplaza los pasos)
// @Tags         workflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Workflow ID"
// @Param        body  body  dto.WorkflowRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.WorkflowResponse
// @Router       /api/workflows/{id} [put]
func (h *WorkflowHandler) Update(c *fiber.Ctx) error {
	var in dto.WorkflowRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), paramID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar flujo sin tickets asociados
// @Tags         workflows
// @Security     Bearer
// @Param        id   path  string  true  "Workflow ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), paramID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener flujo
// @Tags         workflows
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Workflow ID"
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflows/{id} [get]
func (h *WorkflowHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetActor(c), paramID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar flujos
// @Tags         workflows
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkflowResponse
// @Router       /api/workflows [get]
func (h *WorkflowHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
