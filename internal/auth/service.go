// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneExists        = errors.New("phone already registered")
)

type UserInfo struct {
	ID           int64
	Phone        string
	FirstName    string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
}

type UserProvider interface {
	GetByPhone(ctx context.Context, phone string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(ctx context.Context, account NewAccount) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	sessions     *SessionManager
	userProvider UserProvider
	redis        *redis.Client
}

func NewService(
	sessions *SessionManager,
	userProvider UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		sessions:     sessions,
		userProvider: userProvider,
		redis:        redisClient,
	}
}

func (s *Service) Register(ctx context.Context, form RegisterForm) (*Session, error) {
	if form.Password1 != form.Password2 {
		return nil, core.NewValidationError("password2", "Passwords do not match")
	}

	passwordHash, err := core.HashPassword(form.Password1)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewAccount{
		Phone:        form.Phone,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		MiddleName:   form.MiddleName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return s.startSession(user)
}

// Login checks a phone/password pair. Unknown phones, wrong passwords and
// disabled accounts all yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, form LoginForm) (*Session, error) {
	user, err := s.userProvider.GetByPhone(ctx, strings.TrimSpace(form.Phone))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(form.Password, "")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		form.Password,
		user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.startSession(user)
}

func (s *Service) startSession(user *UserInfo) (*Session, error) {
	token, claims, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &Session{
		Token:  token,
		Claims: claims,
		User:   user,
	}, nil
}

// Logout revokes the session behind token until it would have expired.
// Tokens that no longer verify need no revocation.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil
	}

	return s.RevokeSession(ctx, claims.SessionID, claims.ExpiresAt)
}

func (s *Service) RevokeSession(
	ctx context.Context,
	sessionID string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, revokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) IsSessionRevoked(
	ctx context.Context,
	sessionID string,
) (bool, error) {
	exists, err := s.redis.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}

	return exists > 0, nil
}

// VerifySession implements middleware.SessionVerifier. The account is
// reloaded on every request so deletions, deactivation and superuser changes
// apply immediately.
func (s *Service) VerifySession(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsSessionRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	user, err := s.userProvider.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("verify session: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("verify session: inactive: %w", core.ErrTokenRevoked)
	}

	return &middleware.Identity{
		UserID:      user.ID,
		SessionID:   claims.SessionID,
		Phone:       user.Phone,
		FirstName:   user.FirstName,
		IsSuperuser: user.IsSuperuser,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// CreateSuperuser bootstraps an administrator account from the command line.
func (s *Service) CreateSuperuser(
	ctx context.Context,
	phone, password string,
) (*UserInfo, error) {
	phone = strings.TrimSpace(phone)

	v := core.NewValidator()
	if err := v.Var(phone, "required,phone"); err != nil {
		return nil, core.NewValidationError("phone", "Enter a valid phone number")
	}
	if err := v.Var(password, "required,min=8,max=128"); err != nil {
		return nil, core.NewValidationError("password",
			"Password must be between 8 and 128 characters")
	}

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewAccount{
		Phone:        phone,
		PasswordHash: passwordHash,
		IsStaff:      true,
		IsSuperuser:  true,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	return user, nil
}

func revokedKey(sessionID string) string {
	return core.Key("session", "revoked", sessionID)
}

var _ middleware.SessionVerifier = (*Service)(nil)
