package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	apphttp "github.com/jhoicas/invoicing-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoicing-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "invoicing-api-test"
	testExpMin    = 60
)

// usersState simula el estado guardado de cada usuario: lo que RequireActiveUser consulta.
type usersState struct {
	users map[string]*entity.User
	err   error
}

func (s usersState) CurrentRole(_ context.Context, userID string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return "", false, nil
	}
	return u.Role(), u.IsActive, nil
}

// chainApp monta la misma cadena que Router para una ruta de administración.
func chainApp(state usersState) *fiber.App {
	app := fiber.New()
	app.Get("/users",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireActiveUser(state),
		apphttp.RequireRole(entity.RoleAdmin),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c), "username": apphttp.GetUsername(c)})
		},
	)
	return app
}

func bearer(t *testing.T, u *entity.User, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Username, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthChain_RolVigenteManda(t *testing.T) {
	superuser := &entity.User{ID: "u-super", Username: "superuser", IsSuperuser: true, IsActive: true}
	admin := &entity.User{ID: "u-admin", Username: "m.rojas", Groups: []string{entity.GroupAdmin}, IsActive: true}
	demoted := &entity.User{ID: "u-demoted", Username: "c.perez", Groups: []string{entity.GroupCustomer}, IsActive: true}
	promoted := &entity.User{ID: "u-promoted", Username: "a.diaz", Groups: []string{entity.GroupCustomer, entity.GroupAdmin}, IsActive: true}
	customer := &entity.User{ID: "u-customer", Username: "l.gomez", Groups: []string{entity.GroupCustomer}, IsActive: true}
	inactive := &entity.User{ID: "u-inactive", Username: "j.ruiz", Groups: []string{entity.GroupAdmin}, IsActive: false}
	deleted := &entity.User{ID: "u-deleted", Username: "borrado"}

	state := usersState{users: map[string]*entity.User{}}
	for _, u := range []*entity.User{superuser, admin, demoted, promoted, customer, inactive} {
		state.users[u.ID] = u
	}
	app := chainApp(state)

	cases := []struct {
		name     string
		user     *entity.User
		tokRole  string
		wantCode int
		wantBody string
	}{
		{"superusuario sin grupos", superuser, entity.RoleAdmin, http.StatusOK, `"role":"admin"`},
		{"miembro de ADMIN", admin, entity.RoleAdmin, http.StatusOK, `"username":"m.rojas"`},
		{"admin degradado con token viejo", demoted, entity.RoleAdmin, http.StatusForbidden, "FORBIDDEN"},
		{"cliente promovido con token viejo", promoted, entity.RoleUser, http.StatusOK, `"role":"admin"`},
		{"cliente", customer, entity.RoleUser, http.StatusForbidden, "FORBIDDEN"},
		{"admin desactivado", inactive, entity.RoleAdmin, http.StatusForbidden, "USER_INACTIVE"},
		{"usuario borrado", deleted, entity.RoleAdmin, http.StatusForbidden, "USER_INACTIVE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := get(t, app, "/users", bearer(t, tc.user, tc.tokRole))
			assert.Equal(t, tc.wantCode, code, body)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestAuthChain_FalloAlConsultarUsuario(t *testing.T) {
	app := chainApp(usersState{err: errors.New("conexión cerrada")})
	u := &entity.User{ID: "u-1", Username: "superuser"}

	code, body := get(t, app, "/users", bearer(t, u, entity.RoleAdmin))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "USER_CHECK_FAILED")
}

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	app := chainApp(usersState{})
	u := &entity.User{ID: "u-1", Username: "superuser"}

	foreign, err := pkgjwt.Generate("otro-secret", u.ID, u.Username, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Username, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	cases := []struct {
		name, header, code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"solo el esquema", "Bearer", "INVALID_TOKEN"},
		{"firma de otro secret", "Bearer " + foreign, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, app, "/users", tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestRequireRole_SinRolEnContexto(t *testing.T) {
	app := fiber.New()
	app.Get("/users", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	code, body := get(t, app, "/users", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, "MISSING_ROLE")
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	u := &entity.User{ID: "u-ana", Username: "a.diaz"}
	code, body := get(t, app, "/me", bearer(t, u, entity.RoleUser))
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"user_id":"u-ana","username":"a.diaz","role":"user"}`, body)
}
