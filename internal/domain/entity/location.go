package entity

import "time"

// Factory planta de producción. Raíz de la jerarquía Factory → Warehouse → Location.
type Factory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Warehouse bodega; pertenece a exactamente una Factory.
type Warehouse struct {
	ID          string
	FactoryID   string
	Code        string // único en todo el sistema, en mayúsculas
	Name        string
	Type        string // PHYSICAL por defecto
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location posición física (estante/nivel/celda) dentro de una Warehouse.
type Location struct {
	ID          string
	WarehouseID string
	Code        string // único dentro de la bodega, en mayúsculas
	QRCode      string // WAREHOUSECODE-LOCATIONCODE
	Rack        string
	Level       string
	Bin         string
	CreatedAt   time.Time
}

// LocationPath ubicación con su bodega y planta resueltas (para reportes y filtros).
type LocationPath struct {
	Location  Location
	Warehouse Warehouse
	Factory   Factory
}
