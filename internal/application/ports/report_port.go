package ports

import "github.com/jhoicas/Inventario-ledger/internal/application/dto"

// ReportRenderer define el puerto de salida para exportar el reporte de stock histórico
// a un formato de archivo (PDF, XLSX).
type ReportRenderer interface {
	// Format identificador del formato en la API (ej. "pdf").
	Format() string
	ContentType() string
	Render(report *dto.StockHistoryReport) ([]byte, error)
}
