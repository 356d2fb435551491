// Package session owns the authenticated session lifecycle: restoring a
// session at startup, the login/register/logout/refresh operations, and the
// invariant that "authenticated" means an access token and a user profile are
// both present in the credential store. The store is the single source of
// truth; this package keeps no separate in-memory copy of any credential.
package session

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
	"github.com/jce-consulta/cedula-cli/internal/cli/credentials"
	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// State is the bootstrap state of the session
type State string

const (
	StateUnknown       State = "unknown"
	StateRestoring     State = "restoring"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

var (
	// ErrAccessDenied is returned by AdminLogin for non-admin accounts
	ErrAccessDenied = errors.New("access denied: admin privileges required")
	// ErrNoRefreshToken is returned by Refresh when no refresh token is stored
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// Manager composes the request gateway and the credential store into the
// auth operations. All session-mutating operations are serialized through a
// single mutex, so a slow login response can never resurrect a session that
// a concurrent logout already cleared.
type Manager struct {
	mu    sync.Mutex
	api   *client.Client
	creds credentials.Store
	log   zerolog.Logger
	state State
}

// New creates a session manager in the Unknown state
func New(api *client.Client, creds credentials.Store, log zerolog.Logger) *Manager {
	return &Manager{
		api:   api,
		creds: creds,
		log:   log,
		state: StateUnknown,
	}
}

// State returns the current bootstrap state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Restore performs the one-shot session bootstrap. A stored token with a
// cached profile restores optimistically without a network call; a token
// without one is verified against /auth/me, and a failed verification clears
// every credential key. Calling Restore again returns the settled state.
func (m *Manager) Restore() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUnknown {
		return m.state
	}
	m.state = StateRestoring

	if _, err := m.creds.Get(credentials.KeyAccessToken); err != nil {
		m.state = StateAnonymous
		return m.state
	}

	if user := m.cachedUser(); user != nil {
		// Optimistic restore; a revoked token surfaces on the next request
		m.state = StateAuthenticated
		return m.state
	}

	payload, err := m.api.Me()
	if err != nil || payload.User == nil {
		m.log.Debug().Err(err).Msg("Session restore failed, clearing credentials")
		_ = m.creds.Clear()
		m.state = StateAnonymous
		return m.state
	}

	m.storePayload(payload)
	m.state = StateAuthenticated
	return m.state
}

// Login authenticates and stores the returned session fields. On failure
// nothing is mutated.
func (m *Manager) Login(email, password string) (*client.AuthPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.login(email, password)
}

// AdminLogin delegates to Login and then checks the role. A successful login
// as a non-admin is rolled back with a full logout before failing, so the
// session never remains authenticated as a non-admin.
func (m *Manager) AdminLogin(email, password string) (*client.AuthPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, err := m.login(email, password)
	if err != nil {
		return nil, err
	}

	if payload.User == nil || payload.User.Role != client.RoleAdmin {
		m.logout()
		return nil, ErrAccessDenied
	}

	return payload, nil
}

// Register validates the input locally, creates the account, and stores the
// session fields like a login. Validation failures never reach the network.
func (m *Manager) Register(input client.RegisterInput) (*client.AuthPayload, error) {
	if err := validate.Registration(input.Name, input.Email, input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	payload, err := m.api.Register(input)
	if err != nil {
		return nil, err
	}

	m.storePayload(payload)
	m.state = StateAuthenticated
	return payload, nil
}

// Logout notifies the server and clears the local session. The server call
// is best-effort: its failure is logged and ignored, and the local clear is
// unconditional. Local state is the source of truth for "logged out".
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logout()
}

// Refresh exchanges the stored refresh token for a new token pair. Each of
// the three session fields is replaced only when the response carries it; a
// partial response leaves the previous value of a missing field untouched.
func (m *Manager) Refresh() (*client.AuthPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refreshToken, err := m.creds.Get(credentials.KeyRefreshToken)
	if err != nil {
		return nil, ErrNoRefreshToken
	}

	payload, err := m.api.Refresh(refreshToken)
	if err != nil {
		return nil, err
	}

	m.storePayload(payload)
	return payload, nil
}

// ChangePassword validates the rule set locally before the server call
func (m *Manager) ChangePassword(current, new, confirm string) (string, error) {
	if err := validate.PasswordChange(current, new, confirm); err != nil {
		return "", err
	}
	return m.api.ChangePassword(current, new, confirm)
}

// IsAuthenticated reports whether an access token and a parseable user
// profile are both present in the store
func (m *Manager) IsAuthenticated() bool {
	if _, err := m.creds.Get(credentials.KeyAccessToken); err != nil {
		return false
	}
	return m.cachedUser() != nil
}

// IsAdmin reports whether the cached profile carries the admin role
func (m *Manager) IsAdmin() bool {
	user := m.cachedUser()
	return user != nil && user.Role == client.RoleAdmin
}

// CurrentUser returns the cached user profile, or nil when absent
func (m *Manager) CurrentUser() *client.UserProfile {
	return m.cachedUser()
}

func (m *Manager) login(email, password string) (*client.AuthPayload, error) {
	payload, err := m.api.Login(email, password)
	if err != nil {
		return nil, err
	}

	m.storePayload(payload)
	m.state = StateAuthenticated
	return payload, nil
}

func (m *Manager) logout() {
	if refreshToken, err := m.creds.Get(credentials.KeyRefreshToken); err == nil {
		if err := m.api.Logout(refreshToken); err != nil {
			m.log.Debug().Err(err).Msg("Server logout failed, clearing local session anyway")
		}
	}

	_ = m.creds.Clear()
	m.state = StateAnonymous
}

// storePayload persists each session field the payload carries. Fields the
// payload omits keep their previous stored value.
func (m *Manager) storePayload(payload *client.AuthPayload) {
	if payload.Token != "" {
		if err := m.creds.Set(credentials.KeyAccessToken, payload.Token); err != nil {
			m.log.Warn().Err(err).Msg("Failed to persist access token")
		}
	}
	if payload.RefreshToken != "" {
		if err := m.creds.Set(credentials.KeyRefreshToken, payload.RefreshToken); err != nil {
			m.log.Warn().Err(err).Msg("Failed to persist refresh token")
		}
	}
	if payload.User != nil {
		if data, err := json.Marshal(payload.User); err == nil {
			if err := m.creds.Set(credentials.KeyUserProfile, string(data)); err != nil {
				m.log.Warn().Err(err).Msg("Failed to persist user profile")
			}
		}
	}
}

// cachedUser reads and parses the stored profile. A corrupt cache entry is
// treated as absent.
func (m *Manager) cachedUser() *client.UserProfile {
	data, err := m.creds.Get(credentials.KeyUserProfile)
	if err != nil {
		return nil
	}
	var user client.UserProfile
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil
	}
	return &user
}
