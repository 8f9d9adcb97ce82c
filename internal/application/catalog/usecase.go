package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

const defaultWarehouseType = "PHYSICAL"

// UseCase administra artículos, conversiones de unidad y la jerarquía de ubicaciones.
type UseCase struct {
	items     repository.ItemRepository
	locations repository.LocationRepository
	stock     repository.StockRepository
	authz     *authz.Authorizer
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(items repository.ItemRepository, locations repository.LocationRepository, stock repository.StockRepository, az *authz.Authorizer) *UseCase {
	return &UseCase{items: items, locations: locations, stock: stock, authz: az}
}

// CreateItem registra un artículo. El código es único.
func (uc *UseCase) CreateItem(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.BaseUnit)
	if code == "" || name == "" || unit == "" {
		return nil, domain.Validation("code, name y base_unit son requeridos")
	}
	if in.MinStock.IsNegative() {
		return nil, domain.Validation("min_stock no puede ser negativo")
	}
	existing, err := uc.items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el código de artículo %q ya existe", code)
	}
	now := time.Now()
	item := &entity.Item{
		ID:         uuid.New().String(),
		Code:       code,
		Name:       name,
		BaseUnit:   unit,
		CategoryID: in.CategoryID,
		MinStock:   in.MinStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// AddConversion registra el factor de una unidad alternativa del artículo.
func (uc *UseCase) AddConversion(ctx context.Context, actor entity.Actor, itemID string, in dto.AddConversionRequest) (*dto.ItemResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermCatalogManage); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("artículo %s", itemID)
	}
	conv := entity.UnitConversion{UnitName: strings.TrimSpace(in.UnitName), Factor: in.Factor}
	if err := invdomain.ValidateConversion(item, conv); err != nil {
		return nil, err
	}
	if err := uc.items.AddConversion(ctx, itemID, conv); err != nil {
		return nil, err
	}
	replaced := false
	for i := range item.Conversions {
		if item.Conversions[i].UnitName == conv.UnitName {
			item.Conversions[i] = conv
			replaced = true
		}
	}
	if !replaced {
		item.Conversions = append(item.Conversions, conv)
	}
	return toItemResponse(item), nil
}

// GetItem obtiene un artículo con sus conversiones.
func (uc *UseCase) GetItem(ctx context.Context, itemID string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("artículo %s", itemID)
	}
	return toItemResponse(item), nil
}

// ListItems lista artículos paginados.
func (uc *UseCase) ListItems(ctx context.Context, page dto.PageRequest) ([]*dto.ItemResponse, error) {
	page = page.Normalize()
	list, err := uc.items.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	out := &dto.ItemResponse{
		ID:          item.ID,
		Code:        item.Code,
		Name:        item.Name,
		BaseUnit:    item.BaseUnit,
		CategoryID:  item.CategoryID,
		MinStock:    item.MinStock,
		Conversions: make([]dto.ConversionResponse, 0, len(item.Conversions)),
	}
	for _, c := range item.Conversions {
		out.Conversions = append(out.Conversions, dto.ConversionResponse{UnitName: c.UnitName, Factor: c.Factor})
	}
	return out
}
