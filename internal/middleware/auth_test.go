// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/autosalon/internal/core"
)

const testCookie = "autosalon_session"

type fakeVerifier struct {
	identities map[string]*Identity
	err        error
}

func (f *fakeVerifier) VerifySession(_ context.Context, token string) (*Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id, ok := f.identities[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("verify session: %w", core.ErrTokenInvalid)
}

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := GetIdentity(r.Context()); id != nil {
			_, _ = fmt.Fprintf(w, "user=%d", id.UserID)
			return
		}
		_, _ = fmt.Fprint(w, "anonymous")
	})
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*Identity{
		"good": {UserID: 12, Phone: "+79990000012"},
	}}
	h := OptionalAuth(verifier, testCookie)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "good"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "user=12", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestOptionalAuthBearerFallback(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*Identity{"good": {UserID: 3}}}
	h := OptionalAuth(verifier, testCookie)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "user=3", rec.Body.String())
}

func TestOptionalAuthClearsRejectedCookie(t *testing.T) {
	h := OptionalAuth(&fakeVerifier{}, testCookie)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestOptionalAuthKeepsCookieOnBackendError(t *testing.T) {
	h := OptionalAuth(&fakeVerifier{err: errors.New("redis: connection refused")}, testCookie)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "good"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestRequireAuthRedirectsToLogin(t *testing.T) {
	h := RequireAuth(identityEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart?x=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fcart%3Fx%3D1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/place_order", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2F", rec.Header().Get("Location"))
}

func TestRequireAuthPostReturnsToReferer(t *testing.T) {
	h := RequireAuth(identityEcho())

	tests := []struct {
		referer string
		want    string
	}{
		{"http://example.com/car/5?tab=specs", "/login?next=%2Fcar%2F5%3Ftab%3Dspecs"},
		{"https://elsewhere.test/car/5", "/login?next=%2F"},
		{"", "/login?next=%2F"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/add_to_cart/5", nil)
		if tt.referer != "" {
			req.Header.Set("Referer", tt.referer)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, tt.referer)
		assert.Equal(t, tt.want, rec.Header().Get("Location"), tt.referer)
	}
}

func TestRequireAuthPassesSignedIn(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: 4}))

	rec := httptest.NewRecorder()
	RequireAuth(identityEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=4", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	h := RequireAdmin(forbidden)(identityEcho())

	tests := []struct {
		name     string
		identity *Identity
		status   int
	}{
		{name: "anonymous", identity: nil, status: http.StatusFound},
		{name: "customer", identity: &Identity{UserID: 2}, status: http.StatusForbidden},
		{name: "superuser", identity: &Identity{UserID: 1, IsSuperuser: true}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin_page", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.identity))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.NotContains(t, rec.Body.String(), "user=")
			}
		})
	}
}

func TestIdentityIsAdminNilSafe(t *testing.T) {
	var id *Identity
	assert.False(t, id.IsAdmin())
	assert.Equal(t, int64(0), GetUserID(context.Background()))
}
