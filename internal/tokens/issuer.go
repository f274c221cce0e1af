package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("tokens: access secret is empty")
	}
	refreshSecret := cfg.RefreshSecret
	if len(refreshSecret) == 0 {
		refreshSecret = cfg.AccessSecret
	}
	// NumericDate has second precision, anything shorter could yield exp <= iat.
	if cfg.AccessTTL < time.Second || cfg.RefreshTTL < time.Second {
		return nil, fmt.Errorf("tokens: ttl must be at least 1s (access %s, refresh %s)", cfg.AccessTTL, cfg.RefreshTTL)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}, nil
}

func (m *Manager) IssueAccess(userID int64) (string, time.Time, error) {
	return m.issue(userID, KindAccess, m.accessTTL, m.accessSecret)
}

func (m *Manager) IssueRefresh(userID int64) (string, time.Time, error) {
	return m.issue(userID, KindRefresh, m.refreshTTL, m.refreshSecret)
}

func (m *Manager) IssuePair(userID int64) (*Pair, error) {
	access, accessExp, err := m.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (m *Manager) issue(userID int64, kind Kind, ttl time.Duration, secret []byte) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, fmt.Errorf("tokens: subject must be positive, got %d", userID)
	}

	now := m.now()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, claims.ExpiresAt.Time, nil
}
