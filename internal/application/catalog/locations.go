package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CreateFactory registra una planta.
func (uc *UseCase) CreateFactory(ctx context.Context, actor entity.Actor, in dto.CreateFactoryRequest) (*dto.FactoryResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name es requerido")
	}
	f := &entity.Factory{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.locations.CreateFactory(ctx, f); err != nil {
		return nil, err
	}
	return &dto.FactoryResponse{ID: f.ID, Name: f.Name}, nil
}

// ListFactories lista las plantas.
func (uc *UseCase) ListFactories(ctx context.Context) ([]dto.FactoryResponse, error) {
	list, err := uc.locations.ListFactories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FactoryResponse, 0, len(list))
	for _, f := range list {
		out = append(out, dto.FactoryResponse{ID: f.ID, Name: f.Name})
	}
	return out, nil
}

// CreateWarehouse registra una bodega. El código se guarda en mayúsculas y es único.
func (uc *UseCase) CreateWarehouse(ctx context.Context, actor entity.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || in.FactoryID == "" {
		return nil, domain.Validation("code, name y factory_id son requeridos")
	}
	f, err := uc.locations.GetFactory(ctx, in.FactoryID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("planta %s", in.FactoryID)
	}
	existing, err := uc.locations.GetWarehouseByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el código de bodega %q ya existe", code)
	}
	typ := in.Type
	if typ == "" {
		typ = defaultWarehouseType
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:          uuid.New().String(),
		FactoryID:   f.ID,
		Code:        code,
		Name:        name,
		Type:        typ,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locations.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// ListWarehouses lista las bodegas de una planta (vacío = todas).
func (uc *UseCase) ListWarehouses(ctx context.Context, factoryID string) ([]dto.WarehouseResponse, error) {
	list, err := uc.locations.ListWarehouses(ctx, factoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, *toWarehouseResponse(w))
	}
	return out, nil
}

// CreateLocation registra una ubicación dentro de la bodega. El código es único dentro de
// la bodega y el QR se deriva como BODEGA-UBICACION.
func (uc *UseCase) CreateLocation(ctx context.Context, actor entity.Actor, warehouseID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, domain.Validation("code es requerido")
	}
	w, err := uc.locations.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NotFound("bodega %s", warehouseID)
	}
	siblings, err := uc.locations.ListLocations(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	for _, l := range siblings {
		if l.Code == code {
			return nil, domain.Conflict("la ubicación %q ya existe en la bodega %s", code, w.Code)
		}
	}
	l := &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: w.ID,
		Code:        code,
		QRCode:      w.Code + "-" + code,
		Rack:        in.Rack,
		Level:       in.Level,
		Bin:         in.Bin,
		CreatedAt:   time.Now(),
	}
	if err := uc.locations.CreateLocation(ctx, l); err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

// ListLocations lista las ubicaciones de una bodega.
func (uc *UseCase) ListLocations(ctx context.Context, warehouseID string) ([]dto.LocationResponse, error) {
	list, err := uc.locations.ListLocations(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// DeleteLocation elimina una ubicación sin stock.
func (uc *UseCase) DeleteLocation(ctx context.Context, actor entity.Actor, locationID string) error {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return err
	}
	path, err := uc.locations.GetPath(ctx, locationID)
	if err != nil {
		return err
	}
	if path == nil {
		return domain.NotFound("ubicación %s", locationID)
	}
	rows, err := uc.stock.ListSnapshot(ctx, entity.StockFilter{LocationID: locationID})
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return domain.Conflict("la ubicación %s tiene stock en %d artículos", path.Location.QRCode, len(rows))
	}
	return uc.locations.DeleteLocation(ctx, locationID)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID: w.ID, FactoryID: w.FactoryID, Code: w.Code, Name: w.Name, Type: w.Type, Description: w.Description,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID: l.ID, WarehouseID: l.WarehouseID, Code: l.Code, QRCode: l.QRCode, Rack: l.Rack, Level: l.Level, Bin: l.Bin,
	}
}
