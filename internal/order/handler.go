// AngelaMos | 2026
// handler.go

package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/web"
)

// UserDirectory lists the customers an order can be reassigned to.
type UserDirectory interface {
	UserOptions(ctx context.Context) ([]UserOption, error)
}

type Handler struct {
	service   *Service
	users     UserDirectory
	web       *web.Renderer
	validator *validator.Validate
}

func NewHandler(service *Service, users UserDirectory, renderer *web.Renderer) *Handler {
	return &Handler{
		service:   service,
		users:     users,
		web:       renderer,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts customer order routes. The caller applies RequireAuth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/place_order", h.PlaceOrder)
}

// RegisterAdminRoutes mounts order management. The caller applies RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/change_order_status/{orderID}", h.ChangeStatus)
	r.Get("/manage/order/edit/{orderID}", h.EditForm)
	r.Post("/manage/order/edit/{orderID}", h.Edit)
	r.Get("/manage/order/delete/{orderID}", h.DeleteConfirm)
	r.Post("/manage/order/delete/{orderID}", h.Delete)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	order, err := h.service.PlaceOrder(r.Context(), userID)
	switch {
	case errors.Is(err, ErrMissingAddress):
		h.web.Flash(w, r, flash.LevelError,
			"Add a delivery address to your profile before placing an order.")
		h.web.Redirect(w, r, "/profile")
		return
	case errors.Is(err, ErrEmptyCart):
		h.web.Flash(w, r, flash.LevelError, "Your cart is empty.")
		h.web.Redirect(w, r, "/catalog")
		return
	case err != nil:
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess,
		fmt.Sprintf("Order #%d has been placed.", order.ID))
	h.web.Redirect(w, r, "/profile")
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "orderID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	var form StatusForm
	if err := web.DecodeForm(r, &form); err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}

	err = h.service.UpdateStatus(r.Context(), id, form.Status)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		h.web.Flash(w, r, flash.LevelError, "Unknown order status.")
	case err != nil:
		h.web.Fail(w, r, err)
		return
	default:
		h.web.Flash(w, r, flash.LevelSuccess,
			fmt.Sprintf("Order #%d status updated.", id))
	}

	h.web.Redirect(w, r, "/admin_page")
}

type orderFormPage struct {
	Order    *Order
	Users    []UserOption
	Statuses []Status
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "orderID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.renderForm(w, r, http.StatusOK, order, AdminOrderFormFrom(order), nil)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "orderID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	var form AdminOrderForm
	if err := web.DecodeForm(r, &form); err != nil {
		if fields := core.AsValidationError(err); fields != nil {
			h.renderForm(w, r, http.StatusUnprocessableEntity, order, form, fields)
			return
		}
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}
	form.Normalize()

	if err := h.validator.Struct(form); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, order, form,
			core.FieldErrors(err))
		return
	}

	if _, err := h.service.Update(r.Context(), id, form); err != nil {
		if fields := core.AsValidationError(err); fields != nil {
			h.renderForm(w, r, http.StatusUnprocessableEntity, order, form, fields)
			return
		}
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess, fmt.Sprintf("Order #%d saved.", id))
	h.web.Redirect(w, r, "/admin_page")
}

func (h *Handler) renderForm(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	order *Order,
	form AdminOrderForm,
	errs map[string]string,
) {
	users, err := h.users.UserOptions(r.Context())
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	h.web.Render(w, r, status, "admin_order_form", web.Page{
		Title:  fmt.Sprintf("Order #%d", order.ID),
		Form:   form,
		Errors: errs,
		Data: orderFormPage{
			Order:    order,
			Users:    users,
			Statuses: Statuses,
		},
	})
}

func (h *Handler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "orderID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Render(w, r, http.StatusOK, "admin_confirm_delete", web.Page{
		Title: "Delete order",
		Data: web.Confirm{
			Action: "delete",
			Object: fmt.Sprintf("order #%d", order.ID),
			Cancel: "/admin_page",
		},
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "orderID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess, fmt.Sprintf("Order #%d deleted.", id))
	h.web.Redirect(w, r, "/admin_page")
}
