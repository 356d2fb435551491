package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jce-consulta/cedula-cli/internal/cli/credentials"
)

func authedClient(t *testing.T, handler http.Handler) (*Client, credentials.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := credentials.NewMemory()
	if err := creds.Set(credentials.KeyAccessToken, "test-token"); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}

	return New(server.URL, creds), creds
}

func TestMissingTokenFailsWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	api := New(server.URL, credentials.NewMemory())

	_, err := api.Get("/auth/me")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Get without token = %v, want ErrNotAuthenticated", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d request(s), want 0", calls.Load())
	}
}

func TestBearerHeaderIsAttached(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q, want Bearer test-token", got)
		}
		fmt.Fprint(w, `{"success":true,"data":true}`)
	}))

	if _, err := api.Get("/auth/validate"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestUnauthorizedClearsCredentialsAndFiresHook(t *testing.T) {
	api, creds := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	// Seed the other keys so the clear is observable across all of them
	creds.Set(credentials.KeyRefreshToken, "refresh")
	creds.Set(credentials.KeyUserProfile, `{"id":"u1"}`)

	hookFired := false
	api.SetUnauthorizedHandler(func() { hookFired = true })

	_, err := api.Get("/auth/me")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Get = %v, want ErrUnauthorized", err)
	}
	if !hookFired {
		t.Error("unauthorized hook did not fire")
	}
	for _, key := range credentials.AllKeys {
		if _, err := creds.Get(key); !errors.Is(err, credentials.ErrNotFound) {
			t.Errorf("key %s still stored after 401", key)
		}
	}
}

func TestForbiddenCarriesServerMessage(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Admin access required"}`)
	}))

	_, err := api.Get("/admin/dashboard")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get = %v, want *Error", err)
	}
	if apiErr.Kind != KindForbidden {
		t.Errorf("Kind = %s, want %s", apiErr.Kind, KindForbidden)
	}
	if apiErr.Message != "Admin access required" {
		t.Errorf("Message = %q, want server message", apiErr.Message)
	}
}

func TestHTTPErrorFallsBackWhenBodyUnparseable(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))

	_, err := api.Get("/cedula-queries/stats")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get = %v, want *Error", err)
	}
	if apiErr.Kind != KindHTTP {
		t.Errorf("Kind = %s, want %s", apiErr.Kind, KindHTTP)
	}
	want := "HTTP error (status 502)"
	if apiErr.Message != want {
		t.Errorf("Message = %q, want %q", apiErr.Message, want)
	}
}

func TestSuccessFalseOn200IsAFailure(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"Insufficient tokens. Buy more to keep querying."}`)
	}))

	_, err := api.QueryCedula("00112345678")
	if err == nil {
		t.Fatal("success=false envelope did not fail")
	}
	if err.Error() != "Insufficient tokens. Buy more to keep querying." {
		t.Errorf("error = %q, want server message", err)
	}
}

func TestSuccessFalseFallbackMessage(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false}`)
	}))

	_, err := api.GetQueryStats()
	if err == nil {
		t.Fatal("success=false envelope did not fail")
	}
	if err.Error() != "failed to get query stats" {
		t.Errorf("error = %q, want fallback message", err)
	}
}

func TestLoginDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":{"token":"jwt-1","refreshToken":"rt-1","user":{"id":"u1","email":"juan@example.com","name":"Juan","role":"USER","tokens":3,"isActive":true}}}`)
	}))
	defer server.Close()

	api := New(server.URL, credentials.NewMemory())

	payload, err := api.Login("juan@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if payload.Token != "jwt-1" || payload.RefreshToken != "rt-1" {
		t.Errorf("unexpected tokens: %+v", payload)
	}
	if payload.User == nil || payload.User.Role != RoleUser {
		t.Errorf("unexpected user: %+v", payload.User)
	}
}

func TestRefreshSendsTokenAsQueryParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("refreshToken"); got != "rt-old" {
			t.Errorf("refreshToken param = %q, want rt-old", got)
		}
		fmt.Fprint(w, `{"success":true,"data":{"token":"jwt-2","refreshToken":"rt-new"}}`)
	}))
	defer server.Close()

	api := New(server.URL, credentials.NewMemory())

	payload, err := api.Refresh("rt-old")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if payload.RefreshToken != "rt-new" {
		t.Errorf("RefreshToken = %q, want rt-new", payload.RefreshToken)
	}
	// Partial responses omit the user; the field stays nil
	if payload.User != nil {
		t.Errorf("User = %+v, want nil", payload.User)
	}
}

func TestQueryHistoryDecodesPage(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("size") != "5" {
			t.Errorf("pagination params = %v", q)
		}
		fmt.Fprint(w, `{"success":true,"data":{"content":[{"id":"q1","cedula":"00112345678","status":"COMPLETED","cost":1}],"totalElements":11,"totalPages":3,"size":5,"number":1,"first":false,"last":false}}`)
	}))

	page, err := api.QueryHistory(1, 5, "queryDate", "desc")
	if err != nil {
		t.Fatalf("QueryHistory failed: %v", err)
	}
	if page.TotalElements != 11 || len(page.Content) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Content[0].Status != QueryCompleted {
		t.Errorf("status = %s, want COMPLETED", page.Content[0].Status)
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := &Error{Kind: KindForbidden, Status: 403, Message: "nope"}
	if !errors.Is(err, ErrForbidden) {
		t.Error("errors.Is should match errors of the same kind")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestRecentQueriesClampsLimit(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit param = %q, want 20", got)
		}
		fmt.Fprint(w, `{"success":true,"data":[]}`)
	}))

	if _, err := api.RecentQueries(500); err != nil {
		t.Fatalf("RecentQueries failed: %v", err)
	}
}

func TestValidateDecodesBareBoolean(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/validate" {
			t.Errorf("path = %q, want /auth/validate", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":true,"message":"Token is valid"}`)
	}))

	ok, err := api.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !ok {
		t.Error("Validate = false, want true")
	}
}

func TestValidateFailsOnUnauthorized(t *testing.T) {
	api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := api.Validate(); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Validate = %v, want ErrUnauthorized", err)
	}
}

func TestCanQuery(t *testing.T) {
	for _, allowed := range []bool{true, false} {
		api, _ := authedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/cedula-queries/can-query" {
				t.Errorf("path = %q, want /cedula-queries/can-query", r.URL.Path)
			}
			fmt.Fprintf(w, `{"success":true,"data":%t}`, allowed)
		}))

		ok, err := api.CanQuery()
		if err != nil {
			t.Fatalf("CanQuery failed: %v", err)
		}
		if ok != allowed {
			t.Errorf("CanQuery = %t, want %t", ok, allowed)
		}
	}
}
