package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/report"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

var analyst = entity.Actor{ID: "u-analyst", RoleID: "analyst"}

type csvRenderer struct{}

func (csvRenderer) Format() string      { return "csv" }
func (csvRenderer) ContentType() string { return "text/csv" }
func (csvRenderer) Render(r *dto.StockHistoryReport) ([]byte, error) {
	return []byte(r.CutoffDate.Format(time.RFC3339)), nil
}

func newReport(store *memory.Store, cfg report.Config) *report.UseCase {
	repos := store.Repos()
	return report.NewUseCase(repos.Stock, repos.Movements, authz.NewAuthorizer(store.Roles), cfg, csvRenderer{})
}

func setupPlant(t *testing.T, codes ...string) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.Roles.PutRole(entity.Role{ID: "analyst", Permissions: []string{entity.PermReportView}})
	repos := store.Repos()
	require.NoError(t, repos.Locations.CreateFactory(ctx, &entity.Factory{ID: "f-1", Name: "Planta Norte"}))
	require.NoError(t, repos.Locations.CreateWarehouse(ctx, &entity.Warehouse{ID: "w-1", FactoryID: "f-1", Code: "WH1", Name: "Principal"}))
	require.NoError(t, repos.Locations.CreateLocation(ctx, &entity.Location{ID: "L1", WarehouseID: "w-1", Code: "A-01"}))
	for _, c := range codes {
		require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: c, Code: c, Name: c, BaseUnit: "PCS"}))
	}
	return store
}

func credit(t *testing.T, store *memory.Store, item string, n int64, at time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(tx repository.TxRepos) error {
		return inventory.NewLedger().Apply(ctx, tx, "t-"+at.Format("0102"), "u-1", []inventory.Delta{
			{ItemID: item, LocationID: "L1", Quantity: decimal.NewFromInt(n), Type: entity.MovementImportIn},
		}, at)
	}))
}

// exportApplied registra la salida de un EXPORT en el instante de su aprobación final.
func exportApplied(t *testing.T, store *memory.Store, item string, n int64, approvedAt time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(tx repository.TxRepos) error {
		return inventory.NewLedger().Apply(ctx, tx, "t-ex", "u-1", []inventory.Delta{
			{ItemID: item, LocationID: "L1", Quantity: decimal.NewFromInt(-n), Type: entity.MovementExportOut},
		}, approvedAt)
	}))
}

func TestCutoff(t *testing.T) {
	uc := newReport(memory.NewStore(), report.Config{})
	end := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)
	}
	tests := []struct {
		period, date string
		want         time.Time
	}{
		{report.PeriodDay, "2024-03-15", end(2024, 3, 16)},
		{"", "2024-12-31", end(2025, 1, 1)},
		{report.PeriodMonth, "2024-02", end(2024, 3, 1)},
		{report.PeriodYear, "2023", end(2024, 1, 1)},
	}
	for _, tt := range tests {
		got, err := uc.Cutoff(tt.period, tt.date)
		require.NoError(t, err, tt.date)
		assert.Equal(t, tt.want, got, tt.date)
	}

	for _, bad := range [][2]string{{report.PeriodDay, ""}, {report.PeriodDay, "15/03/2024"}, {report.PeriodMonth, "2024-13"}, {"week", "2024-03"}} {
		_, err := uc.Cutoff(bad[0], bad[1])
		assert.ErrorIs(t, err, domain.ErrValidation, bad[1])
	}
}

func TestCutoff_ZonaHoraria(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	uc := newReport(memory.NewStore(), report.Config{Location: bogota})
	got, err := uc.Cutoff(report.PeriodDay, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 16, 4, 59, 59, 999999000, time.UTC), got.UTC())
}

func TestStockHistory_ImportPosteriorAlCorte(t *testing.T) {
	store := setupPlant(t, "BOLT-01")
	credit(t, store, "BOLT-01", 50, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	credit(t, store, "BOLT-01", 100, time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	uc := newReport(store, report.Config{Locale: "es"})

	got, err := uc.StockHistory(context.Background(), analyst, report.PeriodDay, "2024-03-15", "")
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.True(t, got.Rows[0].Quantity.Equal(decimal.NewFromInt(50)), "vivo 150, menos el IMPORT de 100 posterior")
	assert.Equal(t, "Principal", got.Rows[0].WarehouseName)

	got, err = uc.MonthlyStock(context.Background(), analyst, 3, 2024, "f-1")
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.True(t, got.Rows[0].Quantity.Equal(decimal.NewFromInt(150)))

	got, err = uc.StockHistory(context.Background(), analyst, report.PeriodDay, "2024-03-01", "")
	require.NoError(t, err)
	assert.Empty(t, got.Rows)

	got, err = uc.StockHistory(context.Background(), analyst, report.PeriodDay, "2024-03-15", "f-otra")
	require.NoError(t, err)
	assert.Empty(t, got.Rows)
}

func TestStockHistory_OrdenNumerico(t *testing.T) {
	store := setupPlant(t, "ITEM-10", "ITEM-2", "item-3")
	at := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	credit(t, store, "ITEM-10", 1, at)
	credit(t, store, "ITEM-2", 1, at.Add(time.Hour))
	credit(t, store, "item-3", 1, at.Add(2*time.Hour))
	uc := newReport(store, report.Config{Locale: "es"})

	got, err := uc.StockHistory(context.Background(), analyst, report.PeriodYear, "2024", "")
	require.NoError(t, err)
	codes := make([]string, 0, len(got.Rows))
	for _, r := range got.Rows {
		codes = append(codes, r.ItemCode)
	}
	assert.Equal(t, []string{"ITEM-2", "item-3", "ITEM-10"}, codes)
}

func TestStockHistory_PermisosYValidacion(t *testing.T) {
	uc := newReport(setupPlant(t), report.Config{})
	ctx := context.Background()

	_, err := uc.StockHistory(ctx, entity.Actor{ID: "u-x", RoleID: "guest"}, report.PeriodDay, "2024-03-15", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.MonthlyStock(ctx, analyst, 13, 2024, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.AtCutoff(ctx, time.Time{}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRender(t *testing.T) {
	uc := newReport(memory.NewStore(), report.Config{})
	rep := &dto.StockHistoryReport{CutoffDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}

	b, ct, err := uc.Render(rep, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", ct)
	assert.Equal(t, "2024-03-15T00:00:00Z", string(b))

	_, _, err = uc.Render(rep, "docx")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStockHistory_ExportAprobadoTrasElCorteSeRevierte(t *testing.T) {
	store := setupPlant(t, "BOLT-01")
	credit(t, store, "BOLT-01", 50, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	// ticket creado el 14, aprobado el 20: el ledger cambia el 20
	exportApplied(t, store, "BOLT-01", 20, time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	uc := newReport(store, report.Config{Locale: "es"})

	got, err := uc.StockHistory(context.Background(), analyst, report.PeriodDay, "2024-03-15", "")
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.True(t, got.Rows[0].Quantity.Equal(decimal.NewFromInt(50)), "al corte la mercancía seguía en L1")

	got, err = uc.StockHistory(context.Background(), analyst, report.PeriodDay, "2024-03-21", "")
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.True(t, got.Rows[0].Quantity.Equal(decimal.NewFromInt(30)))
}
