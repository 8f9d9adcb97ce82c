package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func quantityAt(t *testing.T, store *memory.Store, item, loc string) decimal.Decimal {
	t.Helper()
	s, err := store.Repos().Stock.Get(context.Background(), item, loc)
	require.NoError(t, err)
	return s.Quantity
}

func TestLedgerApply_CreditaYRegistraMovimientos(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	ctx := context.Background()

	err := store.Run(ctx, func(tx repository.TxRepos) error {
		return ledger.Apply(ctx, tx, "t-1", "u-1", []inventory.Delta{
			{ItemID: "i-1", LocationID: "L1", Quantity: qty(30), Type: entity.MovementImportIn, DetailID: "d-1"},
			{ItemID: "i-1", LocationID: "L1", Quantity: qty(20), Type: entity.MovementImportIn, DetailID: "d-2"},
		}, now)
	})
	require.NoError(t, err)
	assert.True(t, quantityAt(t, store, "i-1", "L1").Equal(qty(50)))

	movs, err := store.Repos().Movements.ListByTicket(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, movs, 2, "un movimiento por delta")
	assert.Equal(t, "u-1", movs[0].CreatedBy)
	assert.Equal(t, now, movs[1].CreatedAt)
}

func TestLedgerApply_StockInsuficienteNoDejaRastro(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	ctx := context.Background()
	require.NoError(t, store.Repos().Stock.Upsert(ctx, &entity.Stock{ItemID: "i-1", LocationID: "L1", Quantity: qty(20)}))

	err := store.Run(ctx, func(tx repository.TxRepos) error {
		return ledger.Apply(ctx, tx, "t-2", "u-1", []inventory.Delta{
			{ItemID: "i-1", LocationID: "L2", Quantity: qty(30), Type: entity.MovementTransferIn},
			{ItemID: "i-1", LocationID: "L1", Quantity: qty(-30), Type: entity.MovementTransferOut},
		}, now)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, quantityAt(t, store, "i-1", "L1").Equal(qty(20)))
	assert.True(t, quantityAt(t, store, "i-1", "L2").IsZero())

	movs, err := store.Repos().Movements.ListByTicket(ctx, "t-2")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestLedgerApply_SumaDeltasDeLaMismaFila(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	ctx := context.Background()
	require.NoError(t, store.Repos().Stock.Upsert(ctx, &entity.Stock{ItemID: "i-1", LocationID: "L1", Quantity: qty(5)}))

	// -8 solo sería negativo, pero el crédito de la misma fila lo cubre.
	err := store.Run(ctx, func(tx repository.TxRepos) error {
		return ledger.Apply(ctx, tx, "t-3", "u-1", []inventory.Delta{
			{ItemID: "i-1", LocationID: "L1", Quantity: qty(-8), Type: entity.MovementExportOut},
			{ItemID: "i-1", LocationID: "L1", Quantity: qty(10), Type: entity.MovementImportIn},
		}, now)
	})
	require.NoError(t, err)
	assert.True(t, quantityAt(t, store, "i-1", "L1").Equal(qty(7)))
}

func TestCheckAvailable_AcumulaLineasHermanas(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	ctx := context.Background()
	stock := store.Repos().Stock
	require.NoError(t, stock.Upsert(ctx, &entity.Stock{ItemID: "i-1", LocationID: "L1", Quantity: qty(20)}))

	assert.NoError(t, ledger.CheckAvailable(ctx, stock, []inventory.Delta{
		{ItemID: "i-1", LocationID: "L1", Quantity: qty(-12)},
		{ItemID: "i-1", LocationID: "L1", Quantity: qty(-8)},
	}))

	err := ledger.CheckAvailable(ctx, stock, []inventory.Delta{
		{ItemID: "i-1", LocationID: "L1", Quantity: qty(-12)},
		{ItemID: "i-1", LocationID: "L1", Quantity: qty(-9)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, domain.Reason(err), "disponible 8")

	assert.ErrorIs(t, ledger.CheckAvailable(ctx, stock, []inventory.Delta{{ItemID: "i-1", LocationID: "L9", Quantity: qty(-1)}}), domain.ErrInsufficientStock)
}
