package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// CatalogHandler artículos, plantas, bodegas y ubicaciones.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateItem godoc
// @Summary      Crear artículo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "code, name, base_unit, min_stock"
// @Success      201   {object}  dto.ItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateItem(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddConversion godoc
// @Summary      Agregar unidad alternativa al artículo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Item ID"
// @Param        body  body  dto.AddConversionRequest  true  "unit_name, factor"
// @Success      201   {object}  dto.ItemResponse
// @Router       /api/items/{id}/conversions [post]
func (h *CatalogHandler) AddConversion(c *fiber.Ctx) error {
	var in dto.AddConversionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddConversion(c.Context(), GetActor(c), paramID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetItem godoc
// @Summary      Obtener artículo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.Context(), paramID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Listar artículos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListItems(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateFactory godoc
// @Summary      Crear planta
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFactoryRequest  true  "name"
// @Success      201   {object}  dto.FactoryResponse
// @Router       /api/factories [post]
func (h *CatalogHandler) CreateFactory(c *fiber.Ctx) error {
	var in dto.CreateFactoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateFactory(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListFactories lista las plantas.
func (h *CatalogHandler) ListFactories(c *fiber.Ctx) error {
	out, err := h.uc.ListFactories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateWarehouse godoc
// @Summary      Crear bodega
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "code, name, factory_id"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateWarehouse(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListWarehouses lista bodegas, opcionalmente por ?factory_id=.
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	out, err := h.uc.ListWarehouses(c.Context(), c.Query("factory_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateLocation godoc
// @Summary      Crear ubicación en una bodega
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Warehouse ID"
// @Param        body  body  dto.CreateLocationRequest  true  "code, rack, level, bin"
// @Success      201   {object}  dto.LocationResponse
// @Router       /api/warehouses/{id}/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLocation(c.Context(), GetActor(c), paramID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations ubicaciones de la bodega.
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.uc.ListLocations(c.Context(), paramID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteLocation godoc
// @Summary      Eliminar ubicación sin stock
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "Location ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *CatalogHandler) DeleteLocation(c *fiber.Ctx) error {
	if err := h.uc.DeleteLocation(c.Context(), GetActor(c), paramID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
