// AngelaMos | 2026
// handler.go

package cart

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/web"
)

type Handler struct {
	service *Service
	web     *web.Renderer
}

func NewHandler(service *Service, renderer *web.Renderer) *Handler {
	return &Handler{
		service: service,
		web:     renderer,
	}
}

// RegisterRoutes mounts the cart. The caller applies RequireAuth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.View)
	r.Post("/add_to_cart/{carID}", h.Add)
	r.Post("/cart/update/{itemID}/{action}", h.Update)
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ViewCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	h.web.Render(w, r, http.StatusOK, "cart", web.Page{
		Title: "Cart",
		Data:  view,
	})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	carID, err := web.PathID(r, "carID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	userID := middleware.GetUserID(r.Context())
	car, err := h.service.AddToCart(r.Context(), userID, carID)
	switch {
	case errors.Is(err, ErrCarUnavailable):
		h.web.Flash(w, r, flash.LevelError, "This car is no longer available.")
		h.web.Redirect(w, r, "/catalog")
		return
	case err != nil:
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess,
		fmt.Sprintf("%q added to your cart.", car.Configuration))
	h.web.Redirect(w, r, "/cart")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := web.PathID(r, "itemID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	userID := middleware.GetUserID(r.Context())
	change, err := h.service.UpdateQuantity(
		r.Context(),
		userID,
		itemID,
		chi.URLParam(r, "action"),
	)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	switch {
	case change.Removed:
		h.web.Flash(w, r, flash.LevelInfo,
			fmt.Sprintf("%q removed from your cart.", change.Configuration))
	case change.Action == ActionIncrement:
		h.web.Flash(w, r, flash.LevelSuccess,
			fmt.Sprintf("Quantity of %q increased.", change.Configuration))
	default:
		h.web.Flash(w, r, flash.LevelSuccess,
			fmt.Sprintf("Quantity of %q decreased.", change.Configuration))
	}
	h.web.Redirect(w, r, "/cart")
}
