package ticket_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/ticket"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const (
	roleOperator   = "operator"
	roleSupervisor = "supervisor"
	roleAdmin      = "admin"
	managerID      = "u-manager"
)

var (
	operator   = entity.Actor{ID: "u-operator", RoleID: roleOperator}
	operator2  = entity.Actor{ID: "u-operator-2", RoleID: roleOperator}
	supervisor = entity.Actor{ID: "u-supervisor", RoleID: roleSupervisor}
	manager    = entity.Actor{ID: managerID, RoleID: roleSupervisor}
	admin      = entity.Actor{ID: "u-admin", RoleID: roleAdmin}
	outsider   = entity.Actor{ID: "u-outsider", RoleID: "guest"}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(event string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	uc        *ticket.UseCase
	notifier  *recordingNotifier
	clock     *clock
	factoryID string
	itemID    string
	l1, l2    string
}

// newFixture arma planta, bodega, dos ubicaciones, el artículo BOLT-01 (PCS, BOX=50) y tres
// flujos: EXP-1 y TRF-1 con un paso de supervisor, EXP-2 con supervisor y luego u-manager.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.Roles.PutRole(entity.Role{ID: roleOperator, Name: "Operador", Permissions: []string{
		entity.PermStockImport, entity.PermStockExport, entity.PermStockTransfer, entity.PermStockView,
	}})
	store.Roles.PutRole(entity.Role{ID: roleSupervisor, Name: "Supervisor", Permissions: []string{entity.PermStockView}})
	store.Roles.PutRole(entity.Role{ID: roleAdmin, Name: "Admin", IsSuperAdmin: true})

	repos := store.Repos()
	az := authz.NewAuthorizer(store.Roles)
	cat := catalog.NewUseCase(repos.Items, repos.Locations, repos.Stock, az)
	wf := workflow.NewUseCase(repos.Workflows, repos.Tickets, az)

	factory, err := cat.CreateFactory(ctx, admin, dto.CreateFactoryRequest{Name: "Planta Norte"})
	require.NoError(t, err)
	wh, err := cat.CreateWarehouse(ctx, admin, dto.CreateWarehouseRequest{Code: "wh1", Name: "Bodega 1", FactoryID: factory.ID})
	require.NoError(t, err)
	l1, err := cat.CreateLocation(ctx, admin, wh.ID, dto.CreateLocationRequest{Code: "a-01", Rack: "A", Bin: "01"})
	require.NoError(t, err)
	l2, err := cat.CreateLocation(ctx, admin, wh.ID, dto.CreateLocationRequest{Code: "b-01", Rack: "B", Bin: "01"})
	require.NoError(t, err)
	item, err := cat.CreateItem(ctx, admin, dto.CreateItemRequest{Code: "BOLT-01", Name: "Perno", BaseUnit: "PCS"})
	require.NoError(t, err)
	_, err = cat.AddConversion(ctx, admin, item.ID, dto.AddConversionRequest{UnitName: "BOX", Factor: decimal.NewFromInt(50)})
	require.NoError(t, err)

	supervisorStep := dto.WorkflowStepRequest{Name: "Supervisor", ApproverType: entity.ApproverRole, RoleID: roleSupervisor}
	for _, w := range []dto.WorkflowRequest{
		{Code: "EXP-1", Name: "Salida simple", AppliesTo: entity.TransactionExport, Steps: []dto.WorkflowStepRequest{supervisorStep}},
		{Code: "EXP-2", Name: "Salida doble", AppliesTo: entity.TransactionExport, Steps: []dto.WorkflowStepRequest{
			supervisorStep,
			{Name: "Gerente", ApproverType: entity.ApproverSpecificUser, SpecificUserID: managerID},
		}},
		{Code: "TRF-1", Name: "Traslado", AppliesTo: entity.TransactionTransfer, Steps: []dto.WorkflowStepRequest{supervisorStep}},
	} {
		_, err := wf.Create(ctx, admin, w)
		require.NoError(t, err)
	}

	clk := &clock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}
	uc := ticket.NewUseCase(
		store, repos.Tickets, repos.Items, repos.Locations, az, inventory.NewLedger(), logger.Nop(),
		ticket.WithClock(clk.Now), ticket.WithNotifier(n),
	)
	return &fixture{
		t: t, ctx: ctx, store: store, uc: uc, notifier: n, clock: clk,
		factoryID: factory.ID, itemID: item.ID, l1: l1.ID, l2: l2.ID,
	}
}

func (f *fixture) qty(locationID string) decimal.Decimal {
	f.t.Helper()
	s, err := f.store.Repos().Stock.Get(f.ctx, f.itemID, locationID)
	require.NoError(f.t, err)
	return s.Quantity
}

func (f *fixture) request(txType, workflowCode string, lines ...dto.TicketLineRequest) dto.CreateTicketRequest {
	return dto.CreateTicketRequest{
		WorkflowCode: workflowCode,
		TransactionData: dto.TransactionData{
			Type:      txType,
			FactoryID: f.factoryID,
			Details:   lines,
		},
	}
}

func (f *fixture) importLine(qty int64, unit, to string) dto.TicketLineRequest {
	return dto.TicketLineRequest{ItemID: f.itemID, Quantity: decimal.NewFromInt(qty), InputUnit: unit, ToLocationID: to}
}

func (f *fixture) exportLine(qty int64, from string) dto.TicketLineRequest {
	return dto.TicketLineRequest{ItemID: f.itemID, Quantity: decimal.NewFromInt(qty), FromLocationID: from}
}

func (f *fixture) transferLine(qty int64, from, to string) dto.TicketLineRequest {
	return dto.TicketLineRequest{ItemID: f.itemID, Quantity: decimal.NewFromInt(qty), FromLocationID: from, ToLocationID: to}
}

// seed deja qty PCS en locationID mediante un IMPORT.
func (f *fixture) seed(qty int64, locationID string) {
	f.t.Helper()
	_, err := f.uc.Create(f.ctx, operator, f.request(entity.TransactionImport, "", f.importLine(qty, "", locationID)))
	require.NoError(f.t, err)
}

func (f *fixture) ticket(id string) *entity.Ticket {
	f.t.Helper()
	tk, err := f.store.Repos().Tickets.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, tk)
	return tk
}

func (f *fixture) movements(ticketID string) []*entity.Movement {
	f.t.Helper()
	list, err := f.store.Repos().Movements.ListByTicket(f.ctx, ticketID)
	require.NoError(f.t, err)
	return list
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
