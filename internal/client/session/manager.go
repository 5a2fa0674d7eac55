package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/store"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/jonboulle/clockwork"
)

// LoginFailedMessage is recorded when the identity endpoint gives no reason.
const LoginFailedMessage = "Login failed"

// Status is the position of the session state machine.
type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot for presentation code.
type State struct {
	Authenticated bool
	Loading       bool
	LastError     string
}

// API is the slice of the transport the manager depends on.
type API interface {
	Do(ctx context.Context, method, path string, body, out any, opts ...transport.RequestOption) error
	AddResponseHook(h transport.ResponseHook)
}

// Manager owns the credential lifecycle and the domain operations.
type Manager struct {
	store     store.Store
	api       API
	log       logging.Logger
	clock     clockwork.Clock
	onExpired func(ctx context.Context)

	mu        sync.Mutex
	status    Status
	lastError string
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock sets the clock used by Describe.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// OnSessionExpired registers fn to run once per implicit logout, after the
// credential has been cleared.
func OnSessionExpired(fn func(ctx context.Context)) Option {
	return func(m *Manager) {
		m.onExpired = fn
	}
}

// New builds a Manager over st and api, probes st for a persisted credential
// and registers the rejected-credential hook on api.
//
// st must be the same store api reads its credential from.
func New(ctx context.Context, st store.Store, api API, opts ...Option) (*Manager, error) {
	m := &Manager{
		store: st,
		api:   api,
		log:   logging.Nop(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "session")

	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	api.AddResponseHook(m.handleResponse)
	return m, nil
}

// Reload re-derives the status from the credential slot.
func (m *Manager) Reload(ctx context.Context) error {
	_, ok, err := m.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("probe credential: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == Authenticating {
		return nil
	}
	if ok {
		m.status = Authenticated
	} else {
		m.status = Anonymous
	}
	return nil
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Authenticated: m.status == Authenticated,
		Loading:       m.status == Authenticating,
		LastError:     m.lastError,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a credential.
//
// A rejection by the identity endpoint (non-2xx, or 2xx without a token) is
// not an error: Login returns false and State().LastError holds the remote
// message or LoginFailedMessage. A transport failure returns false with the
// error as received. Non-emptiness of email and password is the caller's
// check.
func (m *Manager) Login(ctx context.Context, email, password string) (bool, error) {
	m.mu.Lock()
	if m.status == Authenticating {
		m.mu.Unlock()
		return false, ErrLoginInFlight
	}
	prev := m.status
	m.status = Authenticating
	m.lastError = ""
	m.mu.Unlock()

	var resp loginResponse
	err := m.api.Do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp, transport.SkipHooks())
	if err != nil {
		var se *transport.StatusError
		if errors.As(err, &se) {
			m.rejectLogin(ctx, prev, se.Message)
			return false, nil
		}
		m.rejectLogin(ctx, prev, "")
		return false, err
	}

	if resp.Token == "" {
		m.rejectLogin(ctx, prev, "")
		return false, nil
	}

	if err := m.store.Set(ctx, resp.Token); err != nil {
		m.rejectLogin(ctx, prev, "")
		return false, fmt.Errorf("persist credential: %w", err)
	}

	m.mu.Lock()
	m.status = Authenticated
	m.mu.Unlock()

	m.log.Info(ctx, "login succeeded", "email", email)
	return true, nil
}

// rejectLogin leaves Authenticating. The slot was not written, so the
// status falls back to what it was before the attempt.
func (m *Manager) rejectLogin(ctx context.Context, prev Status, reason string) {
	if reason == "" {
		reason = LoginFailedMessage
	}

	m.mu.Lock()
	m.status = prev
	if m.status != Authenticated {
		m.status = Anonymous
	}
	m.lastError = reason
	m.mu.Unlock()

	m.log.Warn(ctx, "login rejected", "reason", reason)
}

// Logout clears the credential. Logging out an anonymous session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}

	m.mu.Lock()
	was := m.status
	m.status = Anonymous
	m.mu.Unlock()

	if was == Authenticated {
		m.log.Info(ctx, "logged out", "reason", "explicit")
	}
	return nil
}

func (m *Manager) handleResponse(ctx context.Context, info transport.ResponseInfo) {
	if info.StatusCode != http.StatusUnauthorized {
		return
	}
	if m.expire(ctx, info.Credential) && m.onExpired != nil {
		m.onExpired(ctx)
	}
}

// expire performs the implicit logout for a 401 received on a request sent
// with credential. It reports whether a transition to Anonymous happened.
// Concurrent 401s for the same session transition once; a 401 for a token
// that has since been replaced by a new login is ignored.
func (m *Manager) expire(ctx context.Context, credential string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok, err := m.store.Get(ctx)
	if err != nil {
		m.log.Error(ctx, "read credential on 401", "error", err)
		return false
	}
	if ok && current != credential {
		return false
	}
	if ok {
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error(ctx, "clear credential on 401", "error", err)
			return false
		}
	}
	if m.status != Authenticated {
		return false
	}

	m.status = Anonymous
	m.log.Info(ctx, "logged out", "reason", "credential rejected")
	return true
}
