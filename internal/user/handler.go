// AngelaMos | 2026
// handler.go

package user

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/order"
	"github.com/carterperez-dev/autosalon/internal/web"
)

// OrderHistory supplies the orders shown on the profile page.
type OrderHistory interface {
	ListForUser(ctx context.Context, userID int64) ([]order.Order, error)
}

type Handler struct {
	service   *Service
	orders    OrderHistory
	web       *web.Renderer
	validator *validator.Validate
}

func NewHandler(service *Service, orders OrderHistory, renderer *web.Renderer) *Handler {
	return &Handler{
		service:   service,
		orders:    orders,
		web:       renderer,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the profile page. The caller applies RequireAuth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.Profile)
	r.Post("/profile", h.UpdateProfile)
}

// RegisterAdminRoutes mounts user management. The caller applies RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/manage/user/edit/{userID}", h.EditForm)
	r.Post("/manage/user/edit/{userID}", h.Edit)
	r.Get("/manage/user/delete/{userID}", h.DeleteConfirm)
	r.Post("/manage/user/delete/{userID}", h.Delete)
}

type profilePage struct {
	User   *User
	Orders []order.Order
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.renderProfile(w, r, http.StatusOK, user, ProfileForm{Address: user.Address}, nil)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	var form ProfileForm
	if err := web.DecodeForm(r, &form); err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}

	// a blank submission leaves the stored address alone
	if strings.TrimSpace(form.Address) == "" {
		h.web.Redirect(w, r, "/profile")
		return
	}

	if err := h.validator.Struct(form); err != nil {
		h.renderProfile(w, r, http.StatusUnprocessableEntity, user, form,
			core.FieldErrors(err))
		return
	}

	if err := h.service.UpdateAddress(r.Context(), userID, form); err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess, "Your address has been saved.")
	h.web.Redirect(w, r, "/profile")
}

func (h *Handler) renderProfile(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	user *User,
	form ProfileForm,
	errs map[string]string,
) {
	orders, err := h.orders.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	h.web.Render(w, r, status, "profile", web.Page{
		Title:  "Profile",
		Form:   form,
		Errors: errs,
		Data: profilePage{
			User:   user,
			Orders: orders,
		},
	})
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	h.renderUserForm(w, r, http.StatusOK, user, AdminUserFormFrom(user), nil)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var form AdminUserForm
	if err := web.DecodeForm(r, &form); err != nil {
		if fields := core.AsValidationError(err); fields != nil {
			h.renderUserForm(w, r, http.StatusUnprocessableEntity, user, form, fields)
			return
		}
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}
	form.Normalize()

	if err := h.validator.Struct(form); err != nil {
		h.renderUserForm(w, r, http.StatusUnprocessableEntity, user, form,
			core.FieldErrors(err))
		return
	}

	if _, err := h.service.UpdateUser(r.Context(), user.ID, form); err != nil {
		if fields := core.AsValidationError(err); fields != nil {
			h.renderUserForm(w, r, http.StatusUnprocessableEntity, user, form, fields)
			return
		}
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess, "User saved.")
	h.web.Redirect(w, r, "/admin_page")
}

func (h *Handler) renderUserForm(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	user *User,
	form AdminUserForm,
	errs map[string]string,
) {
	h.web.Render(w, r, status, "admin_user_form", web.Page{
		Title:  "Edit user",
		Form:   form,
		Errors: errs,
		Data:   user,
	})
}

func (h *Handler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	h.web.Render(w, r, http.StatusOK, "admin_confirm_delete", web.Page{
		Title: "Delete user",
		Data: web.Confirm{
			Action: "delete",
			Object: fmt.Sprintf("user %s", user.FullName()),
			Cancel: "/admin_page",
		},
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "userID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess, "User deleted.")
	h.web.Redirect(w, r, "/admin_page")
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	id, err := web.PathID(r, "userID")
	if err != nil {
		h.web.NotFound(w, r)
		return nil, false
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return nil, false
	}

	return user, true
}
