// AngelaMos | 2026
// store_test.go

package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, false), mr
}

func TestAddThenPopOnNextRequest(t *testing.T) {
	store, _ := newTestStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_to_cart/1", nil)
	store.Add(rec, req, LevelSuccess, "Car added to cart.")
	store.Add(rec, req, LevelInfo, "Second message.")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "one cookie even for several messages")
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	next.AddCookie(cookies[0])

	messages := store.Pop(next.Context(), next)
	assert.Equal(t, []Message{
		{Level: LevelSuccess, Text: "Car added to cart."},
		{Level: LevelInfo, Text: "Second message."},
	}, messages)

	assert.Empty(t, store.Pop(next.Context(), next), "messages are shown once")
}

func TestPopWithoutCookie(t *testing.T) {
	store, _ := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, store.Pop(req.Context(), req))
}

func TestMessagesExpire(t *testing.T) {
	store, mr := newTestStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/profile", nil)
	store.Add(rec, req, LevelError, "lost")

	mr.FastForward(defaultTTL + 1)

	next := httptest.NewRequest(http.MethodGet, "/profile", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, store.Pop(next.Context(), next))
}

func TestAddSurvivesRedisOutage(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	assert.NotPanics(t, func() {
		store.Add(rec, req, LevelInfo, "dropped")
	})
	assert.Nil(t, store.Pop(req.Context(), req))
}
