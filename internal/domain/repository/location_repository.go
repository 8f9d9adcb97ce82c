package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia del grafo Factory → Warehouse → Location.
type LocationRepository interface {
	CreateFactory(ctx context.Context, f *entity.Factory) error
	GetFactory(ctx context.Context, id string) (*entity.Factory, error)
	ListFactories(ctx context.Context) ([]*entity.Factory, error)
	CreateWarehouse(ctx context.Context, w *entity.Warehouse) error
	GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error)
	GetWarehouseByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	ListWarehouses(ctx context.Context, factoryID string) ([]*entity.Warehouse, error)
	CreateLocation(ctx context.Context, l *entity.Location) error
	DeleteLocation(ctx context.Context, id string) error
	ListLocations(ctx context.Context, warehouseID string) ([]*entity.Location, error)
	// GetPath resuelve la ubicación con su bodega y planta. nil si no existe.
	GetPath(ctx context.Context, locationID string) (*entity.LocationPath, error)
}
