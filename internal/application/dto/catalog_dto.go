package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	BaseUnit   string          `json:"base_unit"`
	CategoryID string          `json:"category_id,omitempty"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// AddConversionRequest body para POST /api/items/:id/conversions.
type AddConversionRequest struct {
	UnitName string          `json:"unit_name"`
	Factor   decimal.Decimal `json:"factor"`
}

// ItemResponse artículo con sus conversiones.
type ItemResponse struct {
	ID          string               `json:"id"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	BaseUnit    string               `json:"base_unit"`
	CategoryID  string               `json:"category_id,omitempty"`
	MinStock    decimal.Decimal      `json:"min_stock"`
	Conversions []ConversionResponse `json:"conversions"`
}

// ConversionResponse factor de una unidad alternativa.
type ConversionResponse struct {
	UnitName string          `json:"unit_name"`
	Factor   decimal.Decimal `json:"factor"`
}

// CreateFactoryRequest body para POST /api/factories.
type CreateFactoryRequest struct {
	Name string `json:"name"`
}

// FactoryResponse planta.
type FactoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	FactoryID   string `json:"factory_id"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// WarehouseResponse bodega.
type WarehouseResponse struct {
	ID          string `json:"id"`
	FactoryID   string `json:"factory_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// CreateLocationRequest body para POST /api/warehouses/:id/locations.
type CreateLocationRequest struct {
	Code  string `json:"code"`
	Rack  string `json:"rack,omitempty"`
	Level string `json:"level,omitempty"`
	Bin   string `json:"bin,omitempty"`
}

// LocationResponse ubicación.
type LocationResponse struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Code        string `json:"code"`
	QRCode      string `json:"qr_code"`
	Rack        string `json:"rack,omitempty"`
	Level       string `json:"level,omitempty"`
	Bin         string `json:"bin,omitempty"`
}
