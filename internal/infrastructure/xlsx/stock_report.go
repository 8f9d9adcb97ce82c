// Package xlsx exporta el reporte de stock a una fecha de corte como libro Excel.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
)

// SheetName hoja donde se escriben las filas.
const SheetName = "Stock"

var headers = []string{"Código", "Artículo", "Unidad", "Planta", "Bodega", "Ubicación", "Estante", "Celda", "Cantidad"}

var _ ports.ReportRenderer = (*StockReportRenderer)(nil)

// StockReportRenderer implementa ports.ReportRenderer con excelize.
type StockReportRenderer struct{}

// NewStockReportRenderer construye el renderer.
func NewStockReportRenderer() *StockReportRenderer { return &StockReportRenderer{} }

func (r *StockReportRenderer) Format() string { return "xlsx" }
func (r *StockReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render escribe título, fecha de corte, encabezados en la fila 3 y una fila por registro.
func (r *StockReportRenderer) Render(report *dto.StockHistoryReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A1", "Stock a la fecha de corte"); err != nil {
		return nil, fmt.Errorf("xlsx: título: %w", err)
	}
	if err := f.SetCellValue(SheetName, "B1", report.CutoffDate.Format("2006-01-02 15:04:05")); err != nil {
		return nil, fmt.Errorf("xlsx: fecha de corte: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 3)
	if err := f.SetCellStyle(SheetName, "A3", last, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}

	for i, row := range report.Rows {
		qty, _ := row.Quantity.Float64()
		values := []any{
			row.ItemCode, row.ItemName, row.Unit, row.FactoryName, row.WarehouseName,
			row.LocationCode, row.Rack, row.Bin, qty,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 16)
	_ = f.SetColWidth(SheetName, "B", "B", 36)
	_ = f.SetColWidth(SheetName, "D", "F", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
