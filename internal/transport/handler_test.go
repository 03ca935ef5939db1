package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/pricing"
	"localshop/internal/repository"
	"localshop/internal/repository/memory"
	"localshop/internal/service"
)

const testSecret = "transport-test-secret"

type testEnv struct {
	router http.Handler
	repos  *repository.Repositories
	users  service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := memory.New().Repositories()
	calc := pricing.NewCalculator(pricing.DefaultTaxRate)
	require.NoError(t, service.SeedDemoData(context.Background(), repos, calc))

	logger := zap.NewNop()
	users := service.NewUserService(repos.Users, repos.RefreshTokens, service.TokenConfig{Secret: testSecret})
	auth := middleware.AuthMiddleware(users, logger)

	r := chi.NewRouter()
	NewUserHandler(users, false, logger).RegisterRoutes(r, auth)
	NewProductHandler(service.NewProductService(repos.Products), logger).RegisterRoutes(r)
	NewCustomerHandler(service.NewCustomerService(repos.Customers), logger).RegisterRoutes(r)
	NewOrderHandler(service.NewOrderService(repos.Orders, repos.Products, repos.Customers, calc, nil), logger).RegisterRoutes(r)
	NewSaleHandler(service.NewInventoryService(repos.Sales, nil), logger).RegisterRoutes(r, auth)
	NewReportHandler(service.NewReportService(repos), logger).RegisterRoutes(r, auth)

	return &testEnv{router: r, repos: repos, users: users}
}

// do sends body (marshalled unless nil) and returns the recorder
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login registers a fresh account and returns its access token
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	_, err := e.users.Register(context.Background(), service.RegisterInput{
		Name:     "Shop Owner",
		Contact:  "9999999999",
		Email:    "owner@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	session, err := e.users.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	return session.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
