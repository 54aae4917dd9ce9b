// AngelaMos | 2026
// store.go

package flash

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

const (
	CookieName = "autosalon_flash"
	defaultTTL = 10 * time.Minute
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Store keeps one-shot messages in a Redis list keyed by a random id held in
// a browser cookie, so they survive the redirect that follows a form post.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	secure bool
}

func NewStore(rdb *redis.Client, secureCookie bool) *Store {
	return &Store{
		rdb:    rdb,
		ttl:    defaultTTL,
		secure: secureCookie,
	}
}

// Add queues a message for the next page this browser renders. Failures are
// logged and swallowed: a lost flash never fails the request.
func (s *Store) Add(
	w http.ResponseWriter,
	r *http.Request,
	level Level,
	text string,
) {
	id := s.ensureID(w, r)

	payload, err := json.Marshal(Message{Level: level, Text: text})
	if err != nil {
		slog.Warn("flash encode failed", "error", err)
		return
	}

	key := core.Key("flash", id)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(r.Context(), key, payload)
	pipe.Expire(r.Context(), key, s.ttl)

	if _, err := pipe.Exec(r.Context()); err != nil {
		slog.Warn("flash store failed", "error", err)
	}
}

// Pop returns and clears every queued message for the request's browser.
func (s *Store) Pop(ctx context.Context, r *http.Request) []Message {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	key := core.Key("flash", c.Value)
	pipe := s.rdb.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("flash load failed", "error", err)
		return nil
	}

	raw := items.Val()
	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}

	return messages
}

func (s *Store) ensureID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	// later Pop calls in the same request see the new id
	r.AddCookie(&http.Cookie{Name: CookieName, Value: id})

	return id
}
