package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/report"
	"github.com/jhoicas/Inventario-ledger/internal/application/ticket"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// api app completa sobre el store en memoria, con tokens por perfil.
type api struct {
	t          *testing.T
	app        *fiber.App
	admin      string
	operator   string
	supervisor string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	store.Roles.PutRole(entity.Role{ID: "admin", IsSuperAdmin: true})
	store.Roles.PutRole(entity.Role{ID: "operator", Permissions: []string{
		entity.PermStockImport, entity.PermStockExport, entity.PermStockView,
	}})
	store.Roles.PutRole(entity.Role{ID: "supervisor", Permissions: []string{entity.PermStockView}})

	repos := store.Repos()
	az := authz.NewAuthorizer(store.Roles)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		TicketUC:   ticket.NewUseCase(store, repos.Tickets, repos.Items, repos.Locations, az, inventory.NewLedger(), logger.Nop()),
		WorkflowUC: workflow.NewUseCase(repos.Workflows, repos.Tickets, az),
		CatalogUC:  catalog.NewUseCase(repos.Items, repos.Locations, repos.Stock, az),
		StockUC:    inventory.NewStockUseCase(repos.Stock, repos.Tickets, az),
		ReportUC:   report.NewUseCase(repos.Stock, repos.Movements, az, report.Config{Locale: "es"}, xlsx.NewStockReportRenderer()),
		JWTSecret:  testJWTSecret,
		Logger:     logger.Nop(),
	})
	return &api{
		t:          t,
		app:        app,
		admin:      bearer(t, pkgjwt.Identity{UserID: "u-admin", RoleID: "admin"}),
		operator:   bearer(t, pkgjwt.Identity{UserID: "u-op", RoleID: "operator"}),
		supervisor: bearer(t, pkgjwt.Identity{UserID: "u-sup", RoleID: "supervisor"}),
	}
}

func (a *api) do(method, path, auth string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

// call ejecuta la petición, verifica el status y decodifica el cuerpo JSON.
func (a *api) call(method, path, auth string, body any, wantStatus int) map[string]any {
	a.t.Helper()
	resp := a.do(method, path, auth, body)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	require.Equal(a.t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	}
	return out
}

type catalogIDs struct {
	factory, location, item string
}

func (a *api) seedCatalog() catalogIDs {
	a.t.Helper()
	f := a.call(http.MethodPost, "/api/factories", a.admin, map[string]any{"name": "Planta Norte"}, http.StatusCreated)
	wh := a.call(http.MethodPost, "/api/warehouses", a.admin, map[string]any{"code": "wh1", "name": "Principal", "factory_id": f["id"]}, http.StatusCreated)
	loc := a.call(http.MethodPost, "/api/warehouses/"+wh["id"].(string)+"/locations", a.admin, map[string]any{"code": "a-01"}, http.StatusCreated)
	assert.Equal(a.t, "WH1-A-01", loc["qr_code"])
	item := a.call(http.MethodPost, "/api/items", a.admin, map[string]any{"code": "BOLT-01", "name": "Perno", "base_unit": "PCS"}, http.StatusCreated)
	a.call(http.MethodPost, "/api/items/"+item["id"].(string)+"/conversions", a.admin, map[string]any{"unit_name": "BOX", "factor": 50}, http.StatusCreated)
	a.call(http.MethodPost, "/api/workflows", a.admin, map[string]any{
		"code": "EXP-1", "name": "Salida", "applies_to": "EXPORT",
		"steps": []map[string]any{{"name": "Supervisor", "approver_type": "ROLE", "role_id": "supervisor"}},
	}, http.StatusCreated)
	return catalogIDs{factory: f["id"].(string), location: loc["id"].(string), item: item["id"].(string)}
}

func ticketBody(txType, factoryID string, line map[string]any) map[string]any {
	return map[string]any{"transaction_data": map[string]any{
		"type": txType, "factory_id": factoryID, "details": []map[string]any{line},
	}}
}

func TestAPI_ArticuloSigueVisibleTrasOtrasPeticiones(t *testing.T) {
	a := newAPI(t)
	ids := a.seedCatalog()

	a.call(http.MethodGet, "/api/items", a.admin, nil, http.StatusOK)
	a.call(http.MethodGet, "/api/warehouses", a.admin, nil, http.StatusOK)

	item := a.call(http.MethodGet, "/api/items/"+ids.item, a.admin, nil, http.StatusOK)
	assert.Equal(t, ids.item, item["id"])
	convs, ok := item["conversions"].([]any)
	require.True(t, ok, "conversions: %v", item["conversions"])
	require.Len(t, convs, 1)
	assert.Equal(t, "BOX", convs[0].(map[string]any)["unit_name"])
}

func TestAPI_CicloDeTickets(t *testing.T) {
	a := newAPI(t)
	ids := a.seedCatalog()

	imp := a.call(http.MethodPost, "/api/tickets", a.operator,
		ticketBody("IMPORT", ids.factory, map[string]any{"item_id": ids.item, "quantity": 2, "input_unit": "BOX", "to_location_id": ids.location}),
		http.StatusCreated)
	assert.Equal(t, entity.TicketApplied, imp["status"])
	assert.True(t, strings.HasPrefix(imp["code"].(string), "IM"))

	over := a.call(http.MethodPost, "/api/tickets", a.operator,
		ticketBody("EXPORT", ids.factory, map[string]any{"item_id": ids.item, "quantity": 150, "from_location_id": ids.location}),
		http.StatusBadRequest)
	assert.Equal(t, "INSUFFICIENT_STOCK", over["code"])

	exp := a.call(http.MethodPost, "/api/tickets", a.operator,
		ticketBody("EXPORT", ids.factory, map[string]any{"item_id": ids.item, "quantity": 10, "from_location_id": ids.location}),
		http.StatusCreated)
	assert.Equal(t, "PENDING_STEP(1)", exp["status"])
	id := exp["id"].(string)

	check := a.call(http.MethodGet, "/api/stock/check?item_id="+ids.item+"&location_id="+ids.location, a.operator, nil, http.StatusOK)
	assert.Equal(t, "90", check["quantity"], "el EXPORT pendiente compromete stock")

	denied := a.call(http.MethodPost, "/api/tickets/"+id+"/approve", a.operator, nil, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", denied["code"])

	done := a.call(http.MethodPost, "/api/tickets/"+id+"/approve", a.supervisor, map[string]any{"comment": "ok"}, http.StatusOK)
	assert.Equal(t, entity.TicketApplied, done["status"])

	again := a.call(http.MethodPost, "/api/tickets/"+id+"/approve", a.supervisor, nil, http.StatusConflict)
	assert.Equal(t, "CONFLICT", again["code"])

	detail := a.call(http.MethodGet, "/api/tickets/"+id, a.operator, nil, http.StatusOK)
	assert.Len(t, detail["steps"], 1)

	a.call(http.MethodGet, "/api/tickets/no-existe", a.operator, nil, http.StatusNotFound)
}

func TestAPI_ErroresDeEntrada(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodGet, "/api/tickets", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.operator)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_BODY")

	bad := a.call(http.MethodPost, "/api/workflows", a.operator, map[string]any{"code": "X"}, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", bad["code"])

	a.call(http.MethodGet, "/api/reports/stock-history?date=2024-03-15", a.operator, nil, http.StatusForbidden)
	invalid := a.call(http.MethodGet, "/api/reports/stock-history?type=week&date=2024-03", a.admin, nil, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION", invalid["code"])
}

func TestAPI_ReporteXLSX(t *testing.T) {
	a := newAPI(t)
	ids := a.seedCatalog()
	a.call(http.MethodPost, "/api/tickets", a.operator,
		ticketBody("IMPORT", ids.factory, map[string]any{"item_id": ids.item, "quantity": 7, "to_location_id": ids.location}),
		http.StatusCreated)

	today := time.Now().UTC()
	path := "/api/reports/stock-history?type=year&date=" + today.Format("2006") + "&format=xlsx"
	resp := a.do(http.MethodGet, path, a.admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stock_`+today.Format("2006")+`1231.xlsx"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx es un zip")

	js := a.call(http.MethodGet, "/api/reports/stock-history?type=year&date="+today.Format("2006"), a.admin, nil, http.StatusOK)
	rows := js["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0].(map[string]any)["quantity"])

	a.call(http.MethodGet, "/api/reports/stock-history?type=year&date=2024&format=docx", a.admin, nil, http.StatusBadRequest)
}
