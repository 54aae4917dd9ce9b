// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/autosalon/internal/catalog"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/order"
	"github.com/carterperez-dev/autosalon/internal/user"
	"github.com/carterperez-dev/autosalon/internal/web"
)

type dashboardCalls struct {
	search string
	calls  int
}

func newTestRouter(t *testing.T, calls *dashboardCalls, redisErr error) http.Handler {
	t.Helper()

	renderer, err := web.NewRenderer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), "/media")
	require.NoError(t, err)

	h := NewHandler(HandlerConfig{
		Users: func(_ context.Context, search string) ([]user.User, error) {
			calls.calls++
			calls.search = search
			return []user.User{{ID: 1, Phone: "79990000001", FirstName: "Anna", IsActive: true, IsSuperuser: true}}, nil
		},
		Cars: func(context.Context) ([]catalog.Car, error) {
			return []catalog.Car{
				{ID: 4, Configuration: "Kia Rio", Price: decimal.RequireFromString("1500000")},
				{ID: 5, Configuration: "Kia Ceed", Price: decimal.RequireFromString("2100000"), IsDeleted: true},
			}, nil
		},
		Orders: func(context.Context) ([]order.Order, error) {
			return []order.Order{{ID: 9, UserID: 1, UserPhone: "79990000001", Status: order.StatusProcessed, Address: "Lenina 5"}}, nil
		},
		DBStats:   func() sql.DBStats { return sql.DBStats{OpenConnections: 4, InUse: 1} },
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return redisErr },
		Renderer:  renderer,
	})

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(http.HandlerFunc(renderer.Forbidden)))
		h.RegisterRoutes(r)
	})
	return r
}

func get(h http.Handler, path string, identity *middleware.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDashboardForSuperuser(t *testing.T) {
	calls := &dashboardCalls{}
	h := newTestRouter(t, calls, errors.New("connection refused"))

	rec := get(h, "/admin_page?q=+Anna+", &middleware.Identity{UserID: 1, IsSuperuser: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Anna", calls.search)

	body := rec.Body.String()
	assert.Contains(t, body, "Database: ok")
	assert.Contains(t, body, "Redis: unreachable")
	assert.Contains(t, body, "connections in use: 1/4")
	assert.Contains(t, body, "Kia Rio")
	assert.Contains(t, body, "Kia Ceed")
	assert.Contains(t, body, "1500000.00")
	assert.Contains(t, body, "Lenina 5")
	assert.Contains(t, body, `value="processed" selected`)
}

func TestDashboardRequiresSuperuser(t *testing.T) {
	calls := &dashboardCalls{}
	h := newTestRouter(t, calls, nil)

	rec := get(h, "/admin_page", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")

	rec = get(h, "/admin_page", &middleware.Identity{UserID: 2})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Zero(t, calls.calls)
}
