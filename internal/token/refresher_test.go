package token

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"

	"github.com/KyubiGames/autoenvios-ml/internal/storage"
)

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenURL + "/authorize",
			TokenURL: tokenURL + "/token",
		},
	}
}

func seededStore(t *testing.T, creds storage.Credentials) *storage.MemoryCredentialStore {
	t.Helper()

	store := storage.NewMemoryCredentialStore()
	if err := store.Set(t.Context(), creds); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func TestRefresher_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.Form.Get("refresh_token"); got != "TG-old" {
			t.Errorf("refresh_token = %q, want TG-old", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"APP_USR-new","refresh_token":"TG-new","token_type":"Bearer","expires_in":21600}`))
	}))
	t.Cleanup(srv.Close)

	store := seededStore(t, storage.Credentials{RefreshToken: "TG-old"})
	refresher := NewRefresher(testConfig(srv.URL), store)

	creds, err := refresher.Refresh(t.Context())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if creds.AccessToken != "APP_USR-new" {
		t.Errorf("AccessToken = %q, want APP_USR-new", creds.AccessToken)
	}
	if creds.RefreshToken != "TG-new" {
		t.Errorf("RefreshToken = %q, want TG-new", creds.RefreshToken)
	}
	if creds.ObtainedAt.IsZero() {
		t.Error("ObtainedAt is zero")
	}

	stored, err := store.Get(t.Context())
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if diff := cmp.Diff(creds, stored); diff != "" {
		t.Errorf("stored pair mismatch (-returned +stored):\n%s", diff)
	}
}

func TestRefresher_KeepsOldRefreshTokenWhenOmitted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"APP_USR-new","token_type":"Bearer","expires_in":21600}`))
	}))
	t.Cleanup(srv.Close)

	store := seededStore(t, storage.Credentials{RefreshToken: "TG-old"})
	refresher := NewRefresher(testConfig(srv.URL), store)

	creds, err := refresher.Refresh(t.Context())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if creds.RefreshToken != "TG-old" {
		t.Errorf("RefreshToken = %q, want old token kept", creds.RefreshToken)
	}
}

func TestRefresher_FailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	t.Cleanup(srv.Close)

	before := storage.Credentials{
		AccessToken:  "APP_USR-old",
		RefreshToken: "TG-old",
		ObtainedAt:   time.Now().Add(-time.Hour),
	}
	store := seededStore(t, before)
	refresher := NewRefresher(testConfig(srv.URL), store)

	if _, err := refresher.Refresh(t.Context()); err == nil {
		t.Fatal("Refresh() error = nil, want error")
	}

	after, err := store.Get(t.Context())
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("store mutated by failed refresh (-before +after):\n%s", diff)
	}
}

func TestRefresher_NoCredentials(t *testing.T) {
	t.Parallel()

	refresher := NewRefresher(testConfig("http://127.0.0.1:0"), storage.NewMemoryCredentialStore())

	if _, err := refresher.Refresh(t.Context()); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Refresh() error = %v, want ErrNoCredentials", err)
	}
}

func TestRefresher_EmptyRefreshToken(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryCredentialStore()
	if err := store.Set(t.Context(), storage.Credentials{AccessToken: "APP_USR-only"}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	refresher := NewRefresher(testConfig("http://127.0.0.1:0"), store)

	if _, err := refresher.Refresh(t.Context()); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Refresh() error = %v, want ErrNoCredentials", err)
	}
}
