package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authd/config"
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router"
	"authd/internal/delivery/http/router/handler"
	"authd/internal/delivery/http/validator"
	"authd/internal/infra/auth"
	"authd/internal/infra/memstore"
	"authd/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer wires the full HTTP stack against real in-memory
// infrastructure, the same shape main() builds via fx.
func newTestServer(t *testing.T, secret string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.JWT = secret

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenService := auth.NewJWTService(cfg)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     memstore.NewUserRepository(),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		Logger:       logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	router.NewRouter(router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
		UserHandler:    handler.NewUserHandler(handler.UserHandlerParams{AuthUC: authUC, Logger: logger}),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenService),
	}).RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder, key string) any {
	t.Helper()

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Data, key)

	return body.Data[key]
}

func TestAuthFlow_FullLifecycleScenario(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	// Signup Alice -> 201, userId 1
	rec := doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 1, dataField(t, rec, "userId"))

	// Second signup with the same email -> 400
	rec = doJSON(e, http.MethodPost, "/signup", `{"name":"Bob","email":"a@x.com","password":"pw2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_EMAIL")

	// Wrong password -> 401
	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown user -> 404
	rec = doJSON(e, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"pw1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Successful login -> 200 with both tokens
	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	accessToken, _ := dataField(t, rec, "token").(string)
	refreshToken, _ := dataField(t, rec, "refreshToken").(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	// Refresh -> 200 with a new access token, stored token still valid
	rec = doJSON(e, http.MethodGet, "/refresh", `{"refreshToken":"`+refreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	newAccess, _ := dataField(t, rec, "token").(string)
	assert.NotEmpty(t, newAccess)

	// Refresh again with the same token still works (no rotation).
	rec = doJSON(e, http.MethodGet, "/refresh", `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout -> 200
	rec = doJSON(e, http.MethodPost, "/logout", `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Refresh after logout -> 403
	rec = doJSON(e, http.MethodGet, "/refresh", `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Logout is idempotent: same token again still reports success.
	rec = doJSON(e, http.MethodPost, "/logout", `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthFlow_ValidationErrors(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	// Missing fields on signup
	rec := doJSON(e, http.MethodPost, "/signup", `{"name":"Alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Either missing field rejects login, not just both.
	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/login", `{"password":"pw1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing refresh token
	rec = doJSON(e, http.MethodGet, "/refresh", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow_ReloginInvalidatesOldRefreshToken(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	rec := doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	oldToken, _ := dataField(t, rec, "refreshToken").(string)

	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The first session's refresh token was overwritten by the re-login.
	rec = doJSON(e, http.MethodGet, "/refresh", `{"refreshToken":"`+oldToken+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthFlow_RefreshTokenViaQueryParam(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	rec := doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	refreshToken, _ := dataField(t, rec, "refreshToken").(string)

	rec = doJSON(e, http.MethodGet, "/refresh?refreshToken="+refreshToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboard_AccessGuard(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	rec := doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	accessToken, _ := dataField(t, rec, "token").(string)
	refreshToken, _ := dataField(t, rec, "refreshToken").(string)

	// No token -> 401
	rec = doJSON(e, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header -> 401
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", accessToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token -> 401
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A refresh token must not pass the access guard.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid access token -> 200 with the caller's email
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
}

func TestUsers_ListingExcludesSensitiveFields(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	doJSON(e, http.MethodPost, "/signup", `{"name":"Bob","email":"b@x.com","password":"pw2"}`)
	rec := doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "a@x.com")
	assert.Contains(t, body, "b@x.com")
	// Neither password hashes nor refresh tokens leave the service.
	assert.NotContains(t, strings.ToLower(body), "password")
	assert.NotContains(t, strings.ToLower(body), "refreshtoken")

	// Single user by path id
	rec = doJSON(e, http.MethodGet, "/users/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bob")

	// Malformed id -> 400, unknown id -> 404
	rec = doJSON(e, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/users/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveness(t *testing.T) {
	e := newTestServer(t, "test_secret_key_very_long_for_testing")

	rec := doJSON(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestAuthFlow_MissingSigningSecretIsConfigError(t *testing.T) {
	e := newTestServer(t, "")

	rec := doJSON(e, http.MethodPost, "/signup", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Login depends on the issuer: a missing secret answers 500 with a
	// configuration error code, never a 401.
	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFIG_MISSING_SECRET")
}
