// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/web"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	service   *Service
	web       *web.Renderer
	cookie    CookieConfig
	validator *validator.Validate
}

func NewHandler(service *Service, renderer *web.Renderer, cookie CookieConfig) *Handler {
	return &Handler{
		service:   service,
		web:       renderer,
		cookie:    cookie,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the public account routes. Form posts here are
// expected to sit behind the login rate limiter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAuthenticated(r.Context()) {
		h.web.Redirect(w, r, "/")
		return
	}

	h.renderRegister(w, r, http.StatusOK, RegisterForm{}, nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := web.DecodeForm(r, &form); err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}
	form.Normalize()

	if err := h.validator.Struct(form); err != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form,
			core.FieldErrors(err))
		return
	}

	session, err := h.service.Register(r.Context(), form)
	if err != nil {
		if errors.Is(err, ErrPhoneExists) {
			h.renderRegister(w, r, http.StatusUnprocessableEntity, form,
				map[string]string{
					"phone": "A user with this phone number already exists",
				})
			return
		}
		if fields := core.AsValidationError(err); fields != nil {
			h.renderRegister(w, r, http.StatusUnprocessableEntity, form, fields)
			return
		}
		h.web.Fail(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	h.web.Flash(w, r, flash.LevelSuccess, "Your account has been created.")
	h.web.Redirect(w, r, "/")
}

func (h *Handler) renderRegister(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form RegisterForm,
	errs map[string]string,
) {
	h.web.Render(w, r, status, "register", web.Page{
		Title:  "Register",
		Form:   form.Blank(),
		Errors: errs,
	})
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := web.SafeNext(r.URL.Query().Get("next"))

	if middleware.IsAuthenticated(r.Context()) {
		h.web.Redirect(w, r, next)
		return
	}

	h.renderLogin(w, r, http.StatusOK, LoginForm{Next: next}, nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := web.DecodeForm(r, &form); err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}
	form.Next = web.SafeNext(form.Next)

	if err := h.validator.Struct(form); err != nil {
		form.Password = ""
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form,
			core.FieldErrors(err))
		return
	}

	session, err := h.service.Login(r.Context(), form)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			form.Password = ""
			h.renderLogin(w, r, http.StatusUnauthorized, form,
				map[string]string{
					"form": "Invalid phone number or password",
				})
			return
		}
		h.web.Fail(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	h.web.Redirect(w, r, form.Next)
}

func (h *Handler) renderLogin(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form LoginForm,
	errs map[string]string,
) {
	h.web.Render(w, r, status, "login", web.Page{
		Title:  "Log in",
		Form:   form,
		Errors: errs,
	})
}

// Logout is a no-op for anonymous visitors apart from the redirect. The
// cookie is dropped even when the revocation cannot be recorded.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.ExtractToken(r, h.cookie.Name)

	h.clearSessionCookie(w)
	if err := h.service.Logout(r.Context(), token); err != nil {
		slog.ErrorContext(r.Context(), "session revocation failed", "error", err)
	}

	if middleware.IsAuthenticated(r.Context()) {
		h.web.Flash(w, r, flash.LevelInfo, "You have been logged out.")
	}
	h.web.Redirect(w, r, "/")
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.Claims.ExpiresAt,
		MaxAge:   int(time.Until(session.Claims.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
