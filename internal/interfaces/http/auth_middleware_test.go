package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
)

// bearer genera un Authorization header para la identidad indicada.
func bearer(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, id)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// buildMeApp expone GET /me detrás de AuthMiddleware y devuelve el actor resuelto.
func buildMeApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"role_id":    actor.RoleID,
			"factory_id": actor.FactoryID,
		})
	})
	return app
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	resp := getMe(t, buildMeApp(), bearer(t, pkgjwt.Identity{UserID: "u-1", RoleID: "supervisor", FactoryID: "f-1"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "supervisor", body["role_id"])
	assert.Equal(t, "f-1", body["factory_id"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Identity{UserID: "u-1"})
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret-completamente-distinto", testIssuer, testExpMin, pkgjwt.Identity{UserID: "u-1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secret", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	app := buildMeApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getMe(t, app, tt.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.code)
		})
	}
}

func TestAuthMiddleware_BearerSinDistinguirMayusculas(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Identity{UserID: "u-1"})
	require.NoError(t, err)
	resp := getMe(t, buildMeApp(), "bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
