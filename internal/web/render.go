// AngelaMos | 2026
// render.go

package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/base.html"

// Page is the view model every template receives. Identity and Flashes are
// filled in by the renderer.
type Page struct {
	Title    string
	Identity *middleware.Identity
	Flashes  []flash.Message
	Data     any
	Form     any
	Errors   map[string]string
}

type Renderer struct {
	pages       map[string]*template.Template
	flash       *flash.Store
	logger      *slog.Logger
	mediaPrefix string
}

func NewRenderer(
	flashStore *flash.Store,
	logger *slog.Logger,
	mediaPrefix string,
) (*Renderer, error) {
	rn := &Renderer{
		pages:       make(map[string]*template.Template),
		flash:       flashStore,
		logger:      logger,
		mediaPrefix: strings.TrimSuffix(mediaPrefix, "/"),
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	for _, file := range files {
		if file == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(path.Base(layoutFile)).
			Funcs(rn.funcs()).
			ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		rn.pages[name] = tmpl
	}

	return rn, nil
}

func (rn *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"media": func(p string) string {
			if p == "" {
				return ""
			}
			return rn.mediaPrefix + "/" + strings.TrimPrefix(p, "/")
		},
		"date": func(t time.Time) string {
			return t.Format("02.01.2006 15:04")
		},
	}
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written response.
func (rn *Renderer) Render(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	name string,
	page Page,
) {
	tmpl, ok := rn.pages[name]
	if !ok {
		rn.ServerError(w, r, fmt.Errorf("render: unknown page %q", name))
		return
	}

	page.Identity = middleware.GetIdentity(r.Context())
	if rn.flash != nil {
		page.Flashes = rn.flash.Pop(r.Context(), r)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		rn.logger.Error("template execution failed",
			"page", name,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client went away
	_, _ = buf.WriteTo(w)
}

func (rn *Renderer) Flash(
	w http.ResponseWriter,
	r *http.Request,
	level flash.Level,
	text string,
) {
	if rn.flash != nil {
		rn.flash.Add(w, r, level, text)
	}
}

// Redirect answers a form post with 303 so the browser follows up with GET.
func (rn *Renderer) Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.errorPage(w, r, http.StatusNotFound, "Page not found")
}

func (rn *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	rn.errorPage(w, r, http.StatusForbidden, "You do not have access to this page")
}

func (rn *Renderer) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	rn.errorPage(w, r, http.StatusBadRequest, msg)
}

func (rn *Renderer) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	rn.errorPage(w, r, http.StatusTooManyRequests,
		"Too many attempts. Wait a minute and try again.")
}

func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	rn.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	core.SetSpanError(r.Context(), err)
	rn.errorPage(w, r, http.StatusInternalServerError, "Something went wrong")
}

// Fail maps an error from a service call onto the matching error page.
func (rn *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		rn.NotFound(w, r)
	case errors.Is(err, core.ErrForbidden):
		rn.Forbidden(w, r)
	case errors.Is(err, core.ErrInvalidInput):
		rn.BadRequest(w, r, "Invalid request")
	default:
		rn.ServerError(w, r, err)
	}
}

func (rn *Renderer) errorPage(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	msg string,
) {
	rn.Render(w, r, status, "error", Page{
		Title: http.StatusText(status),
		Data: map[string]any{
			"Status":  status,
			"Message": msg,
		},
	})
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// Confirm drives the shared "are you sure" page used before destructive
// admin actions.
type Confirm struct {
	Action string
	Object string
	Cancel string
}
