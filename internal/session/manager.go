package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/ports/storage"
)

var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrLoginInProgress    = errors.New("session: login already in progress")
	ErrNotAuthenticated   = errors.New("session: not authenticated")
	ErrInvalidSession     = errors.New("session: backend returned an incomplete session")
	ErrNoAuthenticator    = errors.New("session: authenticator not configured")
)

// Change se emite en cada transición de estado.
type Change struct {
	From   State
	To     State
	Reason string
}

// Manager es el dueño único de la sesión: estado, persistencia y
// transiciones. Se construye al arrancar (Restore) y se destruye con
// Logout/Expire.
type Manager struct {
	store storage.KV
	auth  Authenticator
	log   logger.Logger
	now   func() time.Time

	mu        sync.RWMutex
	state     State
	current   *Session
	lastError string
	listeners []func(Change)
}

type Options struct {
	Logger logger.Logger
	Now    func() time.Time
}

func NewManager(store storage.KV, auth Authenticator, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		store: store,
		auth:  auth,
		log:   opts.Logger.With(map[string]any{"component": "session"}),
		now:   opts.Now,
		state: StateAnonymous,
	}
}

// OnChange registra un listener. Se llama fuera del lock.
func (m *Manager) OnChange(fn func(Change)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated || m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// LastError es el error del último login fallido (para el formulario).
func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// DefaultRedirect resuelve "/" según el estado de la sesión.
func (m *Manager) DefaultRedirect() string {
	if s, ok := m.Current(); ok {
		return s.Role.DefaultPath()
	}
	return LoginPath
}

// Restore reconstruye la sesión desde storage, sin llamar al backend.
func (m *Manager) Restore(ctx context.Context) error {
	token, ok, err := m.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return fmt.Errorf("session: read %s: %w", KeyAccessToken, err)
	}
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}

	rawUser, ok, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("session: read %s: %w", KeyUser, err)
	}
	if !ok {
		m.discard(ctx, "missing user")
		return nil
	}

	var u storedUser
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil || !u.Role.Valid() {
		m.discard(ctx, "corrupt user")
		return nil
	}
	if tokenExpired(token, m.now()) {
		m.discard(ctx, "token expired")
		return nil
	}

	refresh, _, _ := m.store.Get(ctx, KeyRefreshToken)
	s := Session{
		UserID:       u.ID,
		Email:        u.Email,
		DisplayName:  u.Name,
		Role:         u.Role,
		AccessToken:  token,
		RefreshToken: refresh,
	}
	m.transition(StateAuthenticated, &s, "restored")
	m.log.Info("session restored", map[string]any{"user_id": s.UserID, "role": string(s.Role)})
	return nil
}

// Login hace ANONYMOUS -> AUTHENTICATING -> AUTHENTICATED(role), o vuelve a
// ANONYMOUS con error. No reintenta.
func (m *Manager) Login(ctx context.Context, in Credentials) (Session, error) {
	if m.auth == nil {
		return Session{}, ErrNoAuthenticator
	}

	m.mu.Lock()
	if m.state == StateAuthenticating {
		m.mu.Unlock()
		return Session{}, ErrLoginInProgress
	}
	from := m.state
	m.state = StateAuthenticating
	m.current = nil
	m.lastError = ""
	m.mu.Unlock()
	m.emit(Change{From: from, To: StateAuthenticating, Reason: "login"})

	s, err := m.login(ctx, in)
	if err != nil {
		m.mu.Lock()
		m.lastError = err.Error()
		m.mu.Unlock()
		m.transition(StateAnonymous, nil, "login failed")
		m.log.Warn("login failed", map[string]any{"email": in.Email, "error": err.Error()})
		return Session{}, err
	}

	m.transition(StateAuthenticated, &s, "login")
	m.log.Info("login ok", map[string]any{"user_id": s.UserID, "role": string(s.Role)})
	return s, nil
}

func (m *Manager) login(ctx context.Context, in Credentials) (Session, error) {
	res, err := m.auth.Login(ctx, in)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
			return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return Session{}, err
	}

	role, err := ParseBackendRole(res.User.Role)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		DisplayName:  res.User.DisplayName(),
		Role:         role,
		AccessToken:  strings.TrimSpace(res.AccessToken),
		RefreshToken: strings.TrimSpace(res.RefreshToken),
	}
	if !s.Valid() {
		return Session{}, ErrInvalidSession
	}
	if err := m.persist(ctx, s); err != nil {
		return Session{}, fmt.Errorf("session: persist: %w", err)
	}
	return s, nil
}

func (m *Manager) persist(ctx context.Context, s Session) error {
	u, err := json.Marshal(storedUser{ID: s.UserID, Email: s.Email, Name: s.DisplayName, Role: s.Role})
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, KeyAccessToken, s.AccessToken); err != nil {
		return err
	}
	if err := m.store.Set(ctx, KeyRefreshToken, s.RefreshToken); err != nil {
		return err
	}
	return m.store.Set(ctx, KeyUser, string(u))
}

// Logout borra la sesión y el storage.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.clearStorage(ctx)
	m.transition(StateAnonymous, nil, "logout")
	return err
}

// Expire aplica solo a una sesión autenticada (401 fuera de /login).
// Devuelve true si hubo transición.
func (m *Manager) Expire(ctx context.Context, reason string) bool {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return false
	}
	m.state = StateAnonymous
	m.current = nil
	m.mu.Unlock()

	if err := m.clearStorage(ctx); err != nil {
		m.log.Error("clear storage on expiry failed", map[string]any{"error": err.Error()})
	}
	m.log.Warn("session expired", map[string]any{"reason": reason, "route": RouteFrom(ctx)})
	m.emit(Change{From: StateAuthenticated, To: StateAnonymous, Reason: reason})
	return true
}

// HandleUnauthorized es el hook de los clientes HTTP ante un 401.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if IsLoginRoute(RouteFrom(ctx)) {
		return
	}
	m.Expire(context.WithoutCancel(ctx), "unauthorized")
}

// AccessToken lee el token desde storage en cada llamada.
func (m *Manager) AccessToken(ctx context.Context) string {
	tok, ok, err := m.store.Get(ctx, KeyAccessToken)
	if err != nil || !ok {
		return ""
	}
	return tok
}

func (m *Manager) discard(ctx context.Context, reason string) {
	m.log.Info("persisted session discarded", map[string]any{"reason": reason})
	if err := m.clearStorage(ctx); err != nil {
		m.log.Warn("clear storage failed", map[string]any{"error": err.Error()})
	}
}

func (m *Manager) clearStorage(ctx context.Context) error {
	return m.store.Remove(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
}

func (m *Manager) transition(to State, s *Session, reason string) bool {
	m.mu.Lock()
	from := m.state
	m.state = to
	m.current = s
	m.mu.Unlock()

	if from == to && to == StateAnonymous {
		return false
	}
	m.emit(Change{From: from, To: to, Reason: reason})
	return true
}

func (m *Manager) emit(c Change) {
	m.mu.RLock()
	ls := slices.Clone(m.listeners)
	m.mu.RUnlock()
	for _, fn := range ls {
		fn(c)
	}
}
