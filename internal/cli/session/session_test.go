package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
	"github.com/jce-consulta/cedula-cli/internal/cli/credentials"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, credentials.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := credentials.NewMemory()
	api := client.New(server.URL, creds)
	return New(api, creds, zerolog.Nop()), creds
}

func loginResponse(role string) string {
	return fmt.Sprintf(`{"success":true,"data":{"token":"jwt-1","refreshToken":"rt-1","user":{"id":"u1","email":"juan@example.com","name":"Juan","role":"%s","tokens":3,"isActive":true}}}`, role)
}

func TestLoginStoresSession(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginResponse("USER"))
	}))

	payload, err := m.Login("juan@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if payload.User.Email != "juan@example.com" {
		t.Errorf("unexpected user: %+v", payload.User)
	}

	if !m.IsAuthenticated() {
		t.Error("IsAuthenticated = false after login")
	}
	if token, _ := creds.Get(credentials.KeyAccessToken); token != "jwt-1" {
		t.Errorf("stored access token = %q, want jwt-1", token)
	}
	if rt, _ := creds.Get(credentials.KeyRefreshToken); rt != "rt-1" {
		t.Errorf("stored refresh token = %q, want rt-1", rt)
	}
}

func TestLoginFailureMutatesNothing(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := m.Login("juan@example.com", "wrong"); err == nil {
		t.Fatal("Login with bad password succeeded")
	}

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated = true after failed login")
	}
	if _, err := creds.Get(credentials.KeyAccessToken); !errors.Is(err, credentials.ErrNotFound) {
		t.Error("access token stored after failed login")
	}
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			fmt.Fprint(w, loginResponse("USER"))
		case "/auth/logout":
			fmt.Fprint(w, `{"success":true}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	_, err := m.AdminLogin("juan@example.com", "secret1")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("AdminLogin = %v, want ErrAccessDenied", err)
	}

	// The rolled-back login must not leave a session behind
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated = true after rejected admin login")
	}
	for _, key := range credentials.AllKeys {
		if _, err := creds.Get(key); !errors.Is(err, credentials.ErrNotFound) {
			t.Errorf("key %s still stored after rejected admin login", key)
		}
	}
}

func TestAdminLoginAcceptsAdmin(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginResponse("ADMIN"))
	}))

	payload, err := m.AdminLogin("admin@example.com", "secret1")
	if err != nil {
		t.Fatalf("AdminLogin failed: %v", err)
	}
	if payload.User.Role != client.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", payload.User.Role)
	}
	if !m.IsAdmin() {
		t.Error("IsAdmin = false after admin login")
	}
}

func TestLogoutClearsLocallyWhenServerFails(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	creds.Set(credentials.KeyAccessToken, "jwt-1")
	creds.Set(credentials.KeyRefreshToken, "rt-1")
	creds.Set(credentials.KeyUserProfile, `{"id":"u1","role":"USER"}`)

	m.Logout()

	for _, key := range credentials.AllKeys {
		if _, err := creds.Get(key); !errors.Is(err, credentials.ErrNotFound) {
			t.Errorf("key %s still stored after logout", key)
		}
	}
	if m.State() != StateAnonymous {
		t.Errorf("state = %s, want anonymous", m.State())
	}
}

func TestRefreshWithoutTokenMakesNoNetworkCall(t *testing.T) {
	var calls atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := m.Refresh()
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("Refresh = %v, want ErrNoRefreshToken", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d request(s), want 0", calls.Load())
	}
}

func TestRefreshKeepsMissingFields(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No user in the response
		fmt.Fprint(w, `{"success":true,"data":{"token":"jwt-2","refreshToken":"rt-2"}}`)
	}))

	creds.Set(credentials.KeyAccessToken, "jwt-1")
	creds.Set(credentials.KeyRefreshToken, "rt-1")
	creds.Set(credentials.KeyUserProfile, `{"id":"u1","email":"juan@example.com","role":"USER"}`)

	if _, err := m.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if token, _ := creds.Get(credentials.KeyAccessToken); token != "jwt-2" {
		t.Errorf("access token = %q, want jwt-2", token)
	}
	if rt, _ := creds.Get(credentials.KeyRefreshToken); rt != "rt-2" {
		t.Errorf("refresh token = %q, want rt-2", rt)
	}
	// The profile the response omitted keeps its previous value
	user := m.CurrentUser()
	if user == nil || user.ID != "u1" {
		t.Errorf("cached user = %+v, want previous profile", user)
	}
}

func TestRestoreWithoutTokenIsAnonymous(t *testing.T) {
	var calls atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	if state := m.Restore(); state != StateAnonymous {
		t.Errorf("Restore = %s, want anonymous", state)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d request(s), want 0", calls.Load())
	}
}

func TestRestoreWithCachedProfileSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	creds.Set(credentials.KeyAccessToken, "jwt-1")
	creds.Set(credentials.KeyUserProfile, `{"id":"u1","role":"USER"}`)

	if state := m.Restore(); state != StateAuthenticated {
		t.Errorf("Restore = %s, want authenticated", state)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d request(s), want 0", calls.Load())
	}
}

func TestRestoreVerifiesTokenWithoutProfile(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":{"user":{"id":"u1","email":"juan@example.com","role":"USER"}}}`)
	}))

	creds.Set(credentials.KeyAccessToken, "jwt-1")

	if state := m.Restore(); state != StateAuthenticated {
		t.Errorf("Restore = %s, want authenticated", state)
	}
	// The verified profile is now cached
	if user := m.CurrentUser(); user == nil || user.ID != "u1" {
		t.Errorf("cached user = %+v, want verified profile", user)
	}
}

func TestRestoreClearsOnFailedVerification(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	creds.Set(credentials.KeyAccessToken, "stale-jwt")

	if state := m.Restore(); state != StateAnonymous {
		t.Errorf("Restore = %s, want anonymous", state)
	}
	for _, key := range credentials.AllKeys {
		if _, err := creds.Get(key); !errors.Is(err, credentials.ErrNotFound) {
			t.Errorf("key %s still stored after failed restore", key)
		}
	}
}

func TestRestoreIsOneShot(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if state := m.Restore(); state != StateAnonymous {
		t.Fatalf("first Restore = %s, want anonymous", state)
	}

	// A token stored after the bootstrap settles does not change the state
	creds.Set(credentials.KeyAccessToken, "jwt-late")
	if state := m.Restore(); state != StateAnonymous {
		t.Errorf("second Restore = %s, want anonymous", state)
	}
}

func TestRegisterValidatesLocally(t *testing.T) {
	var calls atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := m.Register(client.RegisterInput{
		Name:            "Juan",
		Email:           "juan@example.com",
		Password:        "secret1",
		ConfirmPassword: "different",
	})
	if err == nil {
		t.Fatal("mismatched passwords accepted")
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d request(s), want 0", calls.Load())
	}
}

func TestCorruptProfileTreatedAsAbsent(t *testing.T) {
	m, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	creds.Set(credentials.KeyAccessToken, "jwt-1")
	creds.Set(credentials.KeyUserProfile, "{not json")

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated = true with corrupt profile")
	}
	if m.CurrentUser() != nil {
		t.Error("CurrentUser != nil with corrupt profile")
	}
}
