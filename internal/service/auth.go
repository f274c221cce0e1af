package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/hash"
	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/tokens"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type Tokens interface {
	IssuePair(userID int64) (*tokens.Pair, error)
	IssueAccess(userID int64) (string, time.Time, error)
	VerifyRefresh(token string) (int64, error)
}

type AuthService struct {
	Users  repo.Users
	Tokens Tokens
	Events events.Publisher
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
}

// dummyHash is compared against when the email is unknown so that a miss
// costs the same bcrypt round as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := hash.HashPassword("no such user")
	return h
})

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: pwHash,
		Name:         req.Name,
		Image:        req.Image,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("register_error", "status", 400, "reason", "email already registered")
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, events.Event{Type: events.UserRegistered, UserID: user.ID})
	l.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			hash.CheckPassword(dummyHash(), password)
			l.Warn("login failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	return pair, nil
}

// Refresh mints a new access token. The refresh token is handed back as is.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	userID, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh failed", "status", 403, "error", err)
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidRefreshToken)
	}

	access, exp, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		l.Error("refresh failed", "status", 500, "error", err)
		return nil, err
	}
	return &RefreshResult{AccessToken: access, RefreshToken: refreshToken, AccessExp: exp}, nil
}
