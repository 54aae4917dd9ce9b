// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/autosalon/internal/catalog"
	"github.com/carterperez-dev/autosalon/internal/order"
	"github.com/carterperez-dev/autosalon/internal/user"
	"github.com/carterperez-dev/autosalon/internal/web"
)

type Handler struct {
	users     func(ctx context.Context, search string) ([]user.User, error)
	cars      func(ctx context.Context) ([]catalog.Car, error)
	orders    func(ctx context.Context) ([]order.Order, error)
	dbStats   func() sql.DBStats
	dbPing    func(ctx context.Context) error
	redisPing func(ctx context.Context) error
	web       *web.Renderer
}

type HandlerConfig struct {
	Users     func(ctx context.Context, search string) ([]user.User, error)
	Cars      func(ctx context.Context) ([]catalog.Car, error)
	Orders    func(ctx context.Context) ([]order.Order, error)
	DBStats   func() sql.DBStats
	DBPing    func(ctx context.Context) error
	RedisPing func(ctx context.Context) error
	Renderer  *web.Renderer
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		users:     cfg.Users,
		cars:      cfg.Cars,
		orders:    cfg.Orders,
		dbStats:   cfg.DBStats,
		dbPing:    cfg.DBPing,
		redisPing: cfg.RedisPing,
		web:       cfg.Renderer,
	}
}

// RegisterRoutes mounts the dashboard. The caller applies RequireAdmin.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin_page", h.Dashboard)
}

type Dashboard struct {
	Search   string
	Users    []user.User
	Cars     []catalog.Car
	Orders   []order.Order
	Statuses []order.Status
	System   SystemStatus
}

type SystemStatus struct {
	DatabaseHealthy bool
	RedisHealthy    bool
	Pool            *DBPoolStats
}

// Dashboard lists every user, every car including soft-deleted ones, and
// every order.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := strings.TrimSpace(r.URL.Query().Get("q"))

	users, err := h.users(ctx, search)
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	cars, err := h.cars(ctx)
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	orders, err := h.orders(ctx)
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	h.web.Render(w, r, http.StatusOK, "admin_page", web.Page{
		Title: "Administration",
		Data: Dashboard{
			Search:   search,
			Users:    users,
			Cars:     cars,
			Orders:   orders,
			Statuses: order.Statuses,
			System:   h.systemStatus(ctx),
		},
	})
}

func (h *Handler) systemStatus(ctx context.Context) SystemStatus {
	status := SystemStatus{
		DatabaseHealthy: true,
		RedisHealthy:    true,
		Pool:            h.getDBStats(),
	}

	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			status.DatabaseHealthy = false
		}
	}

	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			status.RedisHealthy = false
		}
	}

	return status
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

type DBPoolStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       string
}
