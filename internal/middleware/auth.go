// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the authenticated account attached to a request.
type Identity struct {
	UserID      int64
	SessionID   string
	Phone       string
	FirstName   string
	IsSuperuser bool
	ExpiresAt   time.Time
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.IsSuperuser
}

type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*Identity, error)
}

// OptionalAuth attaches the identity behind a valid session cookie (or bearer
// token). A rejected cookie is cleared; on any failure the request continues
// anonymously.
func OptionalAuth(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := ExtractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				if fromCookie && isRejectedToken(err) {
					http.SetCookie(w, &http.Cookie{
						Name:     cookieName,
						Value:    "",
						Path:     "/",
						MaxAge:   -1,
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func isRejectedToken(err error) bool {
	return errors.Is(err, core.ErrTokenInvalid) ||
		errors.Is(err, core.ErrTokenExpired) ||
		errors.Is(err, core.ErrTokenRevoked)
}

// RequireAuth sends anonymous visitors to the login page, remembering where
// they were headed.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates a route group on the superuser flag. Anonymous visitors
// are sent to log in; signed-in non-admins get the forbidden handler.
func RequireAdmin(forbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				redirectToLogin(w, r)
				return
			}

			if !identity.IsAdmin() {
				forbidden.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.RequestURI()
	status := http.StatusFound
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		// a form target cannot be revisited with GET after login
		next = refererPath(r)
		status = http.StatusSeeOther
	}

	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), status)
}

// refererPath returns the same-site page the request came from, or "/".
func refererPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	return ref.RequestURI()
}

// ExtractToken reads the session cookie, falling back to a bearer header.
// The second result reports whether the token came from the cookie.
func ExtractToken(r *http.Request, cookieName string) (string, bool) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return strings.TrimSpace(parts[1]), false
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) int64 {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return 0
}

func IsAuthenticated(ctx context.Context) bool {
	return GetIdentity(ctx) != nil
}
