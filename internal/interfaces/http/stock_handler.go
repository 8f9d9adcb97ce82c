package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockHandler consultas del ledger vivo.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Check godoc
// @Summary      Cantidad disponible de un artículo en una ubicación
// @Description  Física menos lo comprometido por salidas pendientes, con tope inferior 0.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  true  "Item ID"
// @Param        location_id  query  string  true  "Location ID"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/check [get]
func (h *StockHandler) Check(c *fiber.Ctx) error {
	out, err := h.uc.CheckAvailability(c.Context(), GetActor(c), c.Query("item_id"), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Stock vivo (cantidad > 0)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "Item ID"
// @Param        warehouse_id  query  string  false  "Warehouse ID"
// @Param        factory_id    query  string  false  "Factory ID"
// @Success      200  {array}  dto.StockRowResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	filter := entity.StockFilter{
		FactoryID:   c.Query("factory_id"),
		WarehouseID: c.Query("warehouse_id"),
		LocationID:  c.Query("location_id"),
		ItemID:      c.Query("item_id"),
	}
	out, err := h.uc.ListStock(c.Context(), GetActor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
