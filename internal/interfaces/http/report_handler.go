package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/report"
)

// ReportHandler reportes históricos de stock.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockHistory godoc
// @Summary      Stock a la fecha de corte de un periodo
// @Description  El corte es el último instante del día, mes o año indicado.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "day | month | year"
// @Param        date        query  string  true   "2006-01-02 | 2006-01 | 2006"
// @Param        factory_id  query  string  false  "Planta"
// @Param        format      query  string  false  "json | pdf | xlsx"
// @Success      200  {object}  dto.StockHistoryReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-history [get]
func (h *ReportHandler) StockHistory(c *fiber.Ctx) error {
	out, err := h.uc.StockHistory(c.Context(), GetActor(c), c.Query("type"), c.Query("date"), c.Query("factory_id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.send(c, out)
}

// MonthlyStock godoc
// @Summary      Stock al cierre del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month       query  int     true   "1-12"
// @Param        year        query  int     true   "Año"
// @Param        factory_id  query  string  false  "Planta"
// @Param        format      query  string  false  "json | pdf | xlsx"
// @Success      200  {object}  dto.StockHistoryReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly-stock [get]
func (h *ReportHandler) MonthlyStock(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyStock(c.Context(), GetActor(c), c.QueryInt("month"), c.QueryInt("year"), c.Query("factory_id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.send(c, out)
}

func (h *ReportHandler) send(c *fiber.Ctx, out *dto.StockHistoryReport) error {
	format := strings.ToLower(c.Query("format", "json"))
	if format == "json" {
		return c.JSON(out)
	}
	body, contentType, err := h.uc.Render(out, format)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock_%s.%s"`, out.CutoffDate.Format("20060102"), format))
	return c.Send(body)
}
