package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/pkg/hash"
	jwthelp "github.com/Skotchmaster/quickcart/pkg/jwt"
	"github.com/Skotchmaster/quickcart/pkg/tokens"
)

type AuthService struct {
	Users    UserRepository
	Sessions SessionStore
	Secret   []byte
	TTL      time.Duration
	Events   EventPublisher
	Now      func() time.Time
}

type LoginResult struct {
	Token     string
	SessionID string
	UserID    uint
	ExpiresAt time.Time
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID    uint
	SessionID string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login returns ErrInvalidCredentials for unknown users and wrong passwords alike.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash.BurnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(s.TTL)
	sess := &models.Session{
		ID:        jwthelp.NewJTI(),
		UserID:    user.ID,
		ExpiresAt: exp.Unix(),
		CreatedAt: now.UTC(),
	}
	if err := s.Sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := tokens.SignSession(user.ID, sess.ID, exp, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	publish(ctx, s.Events, TopicUsers, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})
	return &LoginResult{Token: token, SessionID: sess.ID, UserID: user.ID, ExpiresAt: exp}, nil
}

func (s *AuthService) Logout(ctx context.Context, id Identity) error {
	if id.SessionID == "" {
		return ErrUnauthorized
	}
	if err := s.Sessions.RevokeSession(ctx, id.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	publish(ctx, s.Events, TopicUsers, fmt.Sprint(id.UserID), map[string]any{
		"type":    "user_logged_out",
		"user_id": id.UserID,
	})
	return nil
}

// Authenticate resolves a session token into the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	sess, err := s.Sessions.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("get session: %w", err)
	}
	if !sess.Active(s.now()) || sess.UserID != userID {
		return Identity{}, ErrUnauthorized
	}
	return Identity{UserID: userID, SessionID: sess.ID}, nil
}
