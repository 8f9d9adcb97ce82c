package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock cantidad actual de un artículo en una ubicación, en unidad base.
// La ausencia de fila equivale a cantidad 0.
type Stock struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// StockView fila de stock enriquecida con datos de catálogo y ubicación.
type StockView struct {
	ItemID        string
	ItemCode      string
	ItemName      string
	Unit          string
	MinStock      decimal.Decimal
	LocationID    string
	LocationCode  string
	Rack          string
	Bin           string
	WarehouseID   string
	WarehouseName string
	FactoryID     string
	FactoryName   string
	Quantity      decimal.Decimal
}

// StockFilter filtros opcionales para listar el snapshot vivo (vacío = sin filtro).
type StockFilter struct {
	FactoryID   string
	WarehouseID string
	LocationID  string
	ItemID      string
}
