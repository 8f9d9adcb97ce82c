package memory_test

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

func TestRun_RollbackDescartaEscrituras(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(tx repository.TxRepos) error {
		if err := tx.Stock.Upsert(ctx, &entity.Stock{ItemID: "i-1", LocationID: "L1", Quantity: decimal.NewFromInt(9)}); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, &entity.Movement{ID: "m-1", TicketID: "t-1", ItemID: "i-1", LocationID: "L1"}); err != nil {
			return err
		}
		s, err := tx.Stock.Get(ctx, "i-1", "L1")
		require.NoError(t, err)
		assert.True(t, s.Quantity.Equal(decimal.NewFromInt(9)), "la tx ve sus propias escrituras")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := store.Repos().Stock.Get(ctx, "i-1", "L1")
	require.NoError(t, err)
	assert.True(t, s.Quantity.IsZero())
	movs, err := store.Repos().Movements.ListByTicket(ctx, "t-1")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRun_CommitPublica(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(tx repository.TxRepos) error {
		n, err := tx.Tickets.NextSequence(ctx, "IM-2403")
		assert.Equal(t, 1, n)
		return err
	}))
	n, err := store.Repos().Tickets.NextSequence(ctx, "IM-2403")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(repository.TxRepos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestItems_CloneAislaConversiones(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	items := store.Repos().Items
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "i-1", Code: "BOLT-01", BaseUnit: "PCS"}))
	require.NoError(t, items.AddConversion(ctx, "i-1", entity.UnitConversion{UnitName: "BOX", Factor: decimal.NewFromInt(50)}))

	got, err := items.GetByID(ctx, "i-1")
	require.NoError(t, err)
	got.Conversions[0].Factor = decimal.NewFromInt(1)

	again, err := items.GetByCode(ctx, "BOLT-01")
	require.NoError(t, err)
	assert.True(t, again.Conversions[0].Factor.Equal(decimal.NewFromInt(50)))

	assert.ErrorIs(t, items.AddConversion(ctx, "nope", entity.UnitConversion{UnitName: "BOX"}), domain.ErrNotFound)
	assert.ErrorIs(t, items.Create(ctx, &entity.Item{ID: "i-2", Code: "BOLT-01"}), domain.ErrConflict)
}

func TestTickets_UpdateConservaDetallesYLogs(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	tickets := store.Repos().Tickets
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{
		ID: "t-1", Code: "EX2403-0001", Type: entity.TransactionExport, Status: entity.TicketPending, CurrentStep: 1,
		Details: []entity.TransactionDetail{{ID: "d-1", ItemID: "i-1", Quantity: decimal.NewFromInt(5), FromLocationID: "L1"}},
		Logs:    []entity.TicketLog{{UserID: "u-1", Action: entity.LogCreate}},
	}))
	require.NoError(t, tickets.Update(ctx, &entity.Ticket{ID: "t-1", Code: "EX2403-0001", Type: entity.TransactionExport, Status: entity.TicketApplied}))
	require.NoError(t, tickets.AddLog(ctx, "t-1", entity.TicketLog{UserID: "u-2", Action: entity.LogApply}))

	got, err := tickets.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TicketApplied, got.Status)
	assert.Len(t, got.Details, 1)
	assert.Len(t, got.Logs, 2)

	pending, err := tickets.PendingExportQuantity(ctx, "i-1", "L1")
	require.NoError(t, err)
	assert.True(t, pending.IsZero(), "un ticket aplicado ya no compromete stock")
}

// volatileID devuelve un string que comparte memoria con buf, como los parámetros de ruta de fiber.
func volatileID(buf []byte) string {
	return unsafe.String(&buf[0], len(buf))
}

func TestItems_AddConversionNoRetieneElIDRecibido(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	items := store.Repos().Items
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "i-1", Code: "BOLT-01", BaseUnit: "PCS"}))

	buf := []byte("i-1")
	require.NoError(t, items.AddConversion(ctx, volatileID(buf), entity.UnitConversion{UnitName: "BOX", Factor: decimal.NewFromInt(50)}))
	copy(buf, "zzz")

	got, err := items.GetByID(ctx, "i-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Conversions, 1)
}

func TestTickets_AddLogNoRetieneElIDRecibido(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	tickets := store.Repos().Tickets
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{ID: "t-1", Code: "IM2403-0001", Type: entity.TransactionImport, Status: entity.TicketApplied}))

	buf := []byte("t-1")
	require.NoError(t, tickets.AddLog(ctx, volatileID(buf), entity.TicketLog{UserID: "u-1", Action: entity.LogApply}))
	copy(buf, "zzz")

	got, err := tickets.GetByID(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Logs, 1)
}
