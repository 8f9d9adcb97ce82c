package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

var (
	keeper = entity.Actor{ID: "u-keeper", RoleID: "keeper"}
	viewer = entity.Actor{ID: "u-viewer", RoleID: "viewer"}
)

func setup(t *testing.T) (*catalog.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Roles.PutRole(entity.Role{ID: "keeper", Permissions: []string{entity.PermCatalogManage}})
	store.Roles.PutRole(entity.Role{ID: "viewer", Permissions: []string{entity.PermStockView}})
	repos := store.Repos()
	return catalog.NewUseCase(repos.Items, repos.Locations, repos.Stock, authz.NewAuthorizer(store.Roles)), store
}

func TestCreateItem_YConversiones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	item, err := uc.CreateItem(ctx, keeper, dto.CreateItemRequest{Code: " BOLT-01 ", Name: "Perno", BaseUnit: "PCS", MinStock: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "BOLT-01", item.Code)

	_, err = uc.CreateItem(ctx, keeper, dto.CreateItemRequest{Code: "BOLT-01", Name: "Otro", BaseUnit: "PCS"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.CreateItem(ctx, keeper, dto.CreateItemRequest{Code: "NEG", Name: "x", BaseUnit: "PCS", MinStock: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.CreateItem(ctx, viewer, dto.CreateItemRequest{Code: "V", Name: "x", BaseUnit: "PCS"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.AddConversion(ctx, keeper, item.ID, dto.AddConversionRequest{UnitName: "BOX", Factor: decimal.NewFromInt(50)})
	require.NoError(t, err)
	out, err := uc.AddConversion(ctx, keeper, item.ID, dto.AddConversionRequest{UnitName: "BOX", Factor: decimal.NewFromInt(40)})
	require.NoError(t, err)
	require.Len(t, out.Conversions, 1, "la misma unidad reemplaza el factor")
	assert.True(t, out.Conversions[0].Factor.Equal(decimal.NewFromInt(40)))

	for name, in := range map[string]dto.AddConversionRequest{
		"unidad base": {UnitName: "PCS", Factor: decimal.NewFromInt(2)},
		"factor cero": {UnitName: "PACK", Factor: decimal.Zero},
		"sin unidad":  {Factor: decimal.NewFromInt(2)},
	} {
		_, err := uc.AddConversion(ctx, keeper, item.ID, in)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}

	got, err := uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, got.Conversions, 1)
	assert.True(t, got.Conversions[0].Factor.Equal(decimal.NewFromInt(40)))

	_, err = uc.GetItem(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListItems_Paginado(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	for _, code := range []string{"C", "A", "B"} {
		_, err := uc.CreateItem(ctx, keeper, dto.CreateItemRequest{Code: code, Name: code, BaseUnit: "PCS"})
		require.NoError(t, err)
	}

	list, err := uc.ListItems(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Code)

	list, err = uc.ListItems(ctx, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Code)
}

func TestJerarquiaDeUbicaciones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	f, err := uc.CreateFactory(ctx, keeper, dto.CreateFactoryRequest{Name: "Planta Sur"})
	require.NoError(t, err)
	wh, err := uc.CreateWarehouse(ctx, keeper, dto.CreateWarehouseRequest{Code: "wh-01", Name: "Principal", FactoryID: f.ID})
	require.NoError(t, err)
	assert.Equal(t, "WH-01", wh.Code)
	assert.Equal(t, "PHYSICAL", wh.Type)

	_, err = uc.CreateWarehouse(ctx, keeper, dto.CreateWarehouseRequest{Code: "WH-01", Name: "Duplicada", FactoryID: f.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.CreateWarehouse(ctx, keeper, dto.CreateWarehouseRequest{Code: "WH-02", Name: "Huérfana", FactoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	loc, err := uc.CreateLocation(ctx, keeper, wh.ID, dto.CreateLocationRequest{Code: "a-1", Rack: "A", Level: "1", Bin: "3"})
	require.NoError(t, err)
	assert.Equal(t, "A-1", loc.Code)
	assert.Equal(t, "WH-01-A-1", loc.QRCode)

	_, err = uc.CreateLocation(ctx, keeper, wh.ID, dto.CreateLocationRequest{Code: "A-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	whs, err := uc.ListWarehouses(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, whs, 1)
	locs, err := uc.ListLocations(ctx, wh.ID)
	require.NoError(t, err)
	assert.Len(t, locs, 1)
	factories, err := uc.ListFactories(ctx)
	require.NoError(t, err)
	assert.Len(t, factories, 1)
}

func TestDeleteLocation_ConStockEsConflicto(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	f, err := uc.CreateFactory(ctx, keeper, dto.CreateFactoryRequest{Name: "P"})
	require.NoError(t, err)
	wh, err := uc.CreateWarehouse(ctx, keeper, dto.CreateWarehouseRequest{Code: "W", Name: "W", FactoryID: f.ID})
	require.NoError(t, err)
	full, err := uc.CreateLocation(ctx, keeper, wh.ID, dto.CreateLocationRequest{Code: "FULL"})
	require.NoError(t, err)
	empty, err := uc.CreateLocation(ctx, keeper, wh.ID, dto.CreateLocationRequest{Code: "EMPTY"})
	require.NoError(t, err)
	item, err := uc.CreateItem(ctx, keeper, dto.CreateItemRequest{Code: "I", Name: "I", BaseUnit: "PCS"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Stock.Upsert(ctx, &entity.Stock{ItemID: item.ID, LocationID: full.ID, Quantity: decimal.NewFromInt(3), UpdatedAt: time.Now()}))

	assert.ErrorIs(t, uc.DeleteLocation(ctx, keeper, full.ID), domain.ErrConflict)
	require.NoError(t, uc.DeleteLocation(ctx, keeper, empty.ID))
	assert.ErrorIs(t, uc.DeleteLocation(ctx, keeper, empty.ID), domain.ErrNotFound)
}
