package credentials

import (
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()

	if _, err := store.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := store.Set(KeyAccessToken, "jwt-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := store.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "jwt-123" {
		t.Errorf("Get = %q, want jwt-123", value)
	}
}

func TestMemoryDelete(t *testing.T) {
	store := NewMemory()

	if err := store.Set(KeyRefreshToken, "refresh-abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(KeyRefreshToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(KeyRefreshToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	if err := store.Delete(KeyRefreshToken); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

func TestMemoryClear(t *testing.T) {
	store := NewMemory()

	for _, key := range AllKeys {
		if err := store.Set(key, "value-"+string(key)); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, key := range AllKeys {
		if _, err := store.Get(key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s) after clear = %v, want ErrNotFound", key, err)
		}
	}
}

func TestKeyringKeyScoping(t *testing.T) {
	a := NewKeyring("api.example.com")
	b := NewKeyring("localhost:8080")

	if a.keyringKey(KeyAccessToken) == b.keyringKey(KeyAccessToken) {
		t.Error("keyring keys for different hosts must not collide")
	}
}
