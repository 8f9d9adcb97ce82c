package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockHistoryRow fila del reporte de stock a una fecha de corte.
type StockHistoryRow struct {
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	FactoryName   string          `json:"factory_name"`
	WarehouseName string          `json:"warehouse_name"`
	LocationCode  string          `json:"location_code"`
	Rack          string          `json:"rack"`
	Bin           string          `json:"bin"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// StockHistoryReport resultado de la reconstrucción.
type StockHistoryReport struct {
	CutoffDate time.Time         `json:"cutoff_date"`
	FactoryID  string            `json:"factory_id,omitempty"`
	Rows       []StockHistoryRow `json:"data"`
}
