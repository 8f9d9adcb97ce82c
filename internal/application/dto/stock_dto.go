package dto

import "github.com/shopspring/decimal"

// AvailabilityResponse respuesta de GET /api/stock/check.
type AvailabilityResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Physical   decimal.Decimal `json:"physical"`
	Pending    decimal.Decimal `json:"pending"`
	Available  decimal.Decimal `json:"quantity"`
}

// StockRowResponse fila del listado de stock vivo.
type StockRowResponse struct {
	ItemID        string          `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	LocationID    string          `json:"location_id"`
	LocationCode  string          `json:"location_code"`
	WarehouseName string          `json:"warehouse_name"`
	FactoryID     string          `json:"factory_id"`
	FactoryName   string          `json:"factory_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
	IsLow         bool            `json:"is_low"`
}
