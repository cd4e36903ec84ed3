// Package session tracks the operator session whose bearer token authorizes
// calls to the remote API.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

// Session is an authenticated operator session.
type Session struct {
	Token     string             `json:"token"`
	User      domain.SessionUser `json:"user"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
}

// Expired reports whether the session is past its expiry at now. Sessions
// without an expiry never expire.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Cache persists the encoded session between restarts. Get returns
// (nil, nil) when nothing is stored.
type Cache interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, value []byte, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Manager implements ports.TokenProvider over a login session.
type Manager struct {
	auth  ports.AuthClient
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time

	mu        sync.RWMutex
	current   *Session
	listeners []func(ctx context.Context)
}

// NewManager returns a Manager. cache may be nil; ttl applies to cached
// sessions whose token carries no expiry.
func NewManager(auth ports.AuthClient, cache Cache, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		auth:  auth,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "session").Logger(),
		now:   time.Now,
	}
}

// Token returns the current bearer token, or false when there is no live session.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	s, ok := m.live(ctx)
	if !ok {
		return "", false
	}
	return s.Token, true
}

// Current returns the live session.
func (m *Manager) Current() (Session, bool) {
	return m.live(context.Background())
}

// live returns the session unless it expired. The first lookup that finds
// it expired drops it and notifies the listeners.
func (m *Manager) live(ctx context.Context) (Session, bool) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur == nil {
		return Session{}, false
	}
	if !cur.Expired(m.now()) {
		return *cur, true
	}

	m.mu.Lock()
	dropped := m.current == cur
	if dropped {
		m.current = nil
	}
	m.mu.Unlock()

	if dropped {
		m.log.Info().Str("role", string(cur.User.Role)).Msg("session expired")
		m.fire(ctx)
	}
	return Session{}, false
}

// OnChange registers fn to run after every login, logout or restore.
func (m *Manager) OnChange(fn func(ctx context.Context)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Login exchanges credentials for a session.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	if m.auth == nil {
		return Session{}, fmt.Errorf("login: %w", domain.ErrUnsupported)
	}

	token, user, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return Session{}, err
	}

	s := Session{Token: token, User: user, ExpiresAt: expiry(token)}
	m.set(ctx, &s)
	m.log.Info().Str("email", email).Str("role", string(user.Role)).Msg("operator signed in")
	return s, nil
}

// SetToken installs a pre-issued token (for example a service token from
// the environment) as the session.
func (m *Manager) SetToken(ctx context.Context, token string) {
	if token == "" {
		m.set(ctx, nil)
		return
	}
	m.set(ctx, &Session{Token: token, ExpiresAt: expiry(token)})
}

// Restore loads a cached session. It reports whether a live session was found.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	if m.cache == nil {
		return false, nil
	}

	raw, err := m.cache.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if raw == nil {
		return false, nil
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		_ = m.cache.Delete(ctx)
		return false, fmt.Errorf("restore session: %w", err)
	}
	if s.Token == "" || s.Expired(m.now()) {
		_ = m.cache.Delete(ctx)
		return false, nil
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	m.fire(ctx)
	return true, nil
}

// Logout drops the session locally and from the cache.
func (m *Manager) Logout(ctx context.Context) error {
	m.set(ctx, nil)
	if m.cache == nil {
		return nil
	}
	if err := m.cache.Delete(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (m *Manager) set(ctx context.Context, s *Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	if s != nil && m.cache != nil {
		m.save(ctx, *s)
	}
	m.fire(ctx)
}

func (m *Manager) save(ctx context.Context, s Session) {
	ttl := m.ttl
	if s.ExpiresAt != nil {
		ttl = s.ExpiresAt.Sub(m.now())
	}
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(s)
	if err != nil {
		m.log.Warn().Err(err).Msg("encode session")
		return
	}
	if err := m.cache.Set(ctx, raw, ttl); err != nil {
		m.log.Warn().Err(err).Msg("cache session")
	}
}

func (m *Manager) fire(ctx context.Context) {
	m.mu.RLock()
	listeners := append([]func(context.Context){}, m.listeners...)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}

// expiry reads the exp claim without verifying the signature; the remote API
// verifies tokens, the console only needs to know when to stop sending one.
func expiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// Static is a TokenProvider for a fixed token. An empty Static has no session.
type Static string

func (s Static) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

var errNoSession = errors.New("no session")

// Require returns the live session or an error wrapping domain.ErrUnauthorized.
func (m *Manager) Require() (Session, error) {
	s, ok := m.Current()
	if !ok {
		return Session{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errNoSession)
	}
	return s, nil
}
