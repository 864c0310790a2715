// ABOUTME: Tests for the credential lifecycle and token persistence
// ABOUTME: Exercises stored-token reuse, refresh, grant fallback, and concurrency
package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestDefaultTokenPath(t *testing.T) {
	path := DefaultTokenPath()
	if filepath.Base(path) != "token.json" {
		t.Errorf("expected token.json base name, got %s", path)
	}
	if !strings.Contains(path, "contacts-mcp") {
		t.Errorf("expected app-scoped directory in %s", path)
	}
}

func TestSaveLoadTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	if err := SaveToken(path, token); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("token file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	loaded, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if loaded.AccessToken != "at-1" || loaded.RefreshToken != "rt-1" {
		t.Errorf("round trip lost token fields: %+v", loaded)
	}
	if !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("expiry changed: want %v, got %v", token.Expiry, loaded.Expiry)
	}
}

func TestLoadTokenMissing(t *testing.T) {
	if _, err := LoadToken(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing token file")
	}
}

func TestLoadTokenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(path); err == nil {
		t.Error("expected error for malformed token file")
	}
}

func TestTokenUsesStoredValidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	stored := &oauth2.Token{
		AccessToken: "stored-at",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	if err := SaveToken(path, stored); err != nil {
		t.Fatal(err)
	}

	// No client identity: a valid stored token must be enough.
	auth := NewAuthenticator(AuthConfig{TokenPath: path})
	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "stored-at" {
		t.Errorf("expected stored token, got %q", tok.AccessToken)
	}
}

func TestTokenRefreshesFromConfiguredSecret(t *testing.T) {
	var refreshCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("expected refresh_token grant, got %q", got)
		}
		if got := r.Form.Get("refresh_token"); got != "r1" {
			t.Errorf("expected configured refresh secret, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-fresh","token_type":"Bearer","expires_in":3600,"refresh_token":"r2"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	var notified string
	auth := NewAuthenticator(AuthConfig{
		ClientID:          "cid",
		ClientSecret:      "csecret",
		RefreshToken:      "r1",
		TokenPath:         path,
		Endpoint:          oauth2.Endpoint{TokenURL: server.URL + "/token"},
		OnNewRefreshToken: func(rt string) { notified = rt },
	})

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "at-fresh" {
		t.Errorf("expected refreshed token, got %q", tok.AccessToken)
	}
	if refreshCalls.Load() != 1 {
		t.Errorf("expected one refresh call, got %d", refreshCalls.Load())
	}

	// The rotated refresh secret is surfaced for operator capture and the
	// new credential is persisted.
	if notified != "r2" {
		t.Errorf("expected rotation notification for r2, got %q", notified)
	}
	if saved, err := LoadToken(path); err != nil || saved.AccessToken != "at-fresh" {
		t.Errorf("expected persisted refreshed token, got %+v (err %v)", saved, err)
	}

	// A second call reuses the cached credential without touching the
	// token endpoint.
	if _, err := auth.Token(context.Background()); err != nil {
		t.Fatalf("second Token failed: %v", err)
	}
	if refreshCalls.Load() != 1 {
		t.Errorf("expected no further refresh, got %d calls", refreshCalls.Load())
	}
}

func TestTokenStoredTokenDoesNotReannounceRefreshSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	stored := &oauth2.Token{
		AccessToken:  "stored-at",
		RefreshToken: "stored-rt",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := SaveToken(path, stored); err != nil {
		t.Fatal(err)
	}

	// Loading back our own persisted credential is not a refresh or grant;
	// the operator already has this secret.
	var notifications []string
	auth := NewAuthenticator(AuthConfig{
		TokenPath:         path,
		OnNewRefreshToken: func(rt string) { notifications = append(notifications, rt) },
	})

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "stored-at" {
		t.Errorf("expected stored token, got %q", tok.AccessToken)
	}
	if len(notifications) != 0 {
		t.Errorf("refresh secret re-announced: %v", notifications)
	}
}

func TestTokenMalformedStoredTokenTreatedAsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	auth := NewAuthenticator(AuthConfig{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RefreshToken: "r1",
		TokenPath:    path,
		Endpoint:     oauth2.Endpoint{TokenURL: server.URL + "/token"},
	})

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "at-1" {
		t.Errorf("expected fallback to refresh secret, got %q", tok.AccessToken)
	}
}

func TestTokenWithoutClientIdentityIsConfigError(t *testing.T) {
	auth := NewAuthenticator(AuthConfig{
		TokenPath: filepath.Join(t.TempDir(), "token.json"),
	})
	_, err := auth.Token(context.Background())
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID") {
		t.Errorf("expected actionable message, got %v", err)
	}
}

type countingGrant struct {
	calls atomic.Int32
}

func (g *countingGrant) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	g.calls.Add(1)
	return &oauth2.Token{
		AccessToken:  "granted",
		RefreshToken: "granted-refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func TestTokenConcurrentCallsRunOneGrant(t *testing.T) {
	grant := &countingGrant{}
	path := filepath.Join(t.TempDir(), "token.json")
	auth := NewAuthenticator(AuthConfig{
		ClientID:     "cid",
		ClientSecret: "csecret",
		TokenPath:    path,
		Grant:        grant,
	})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d failed: %v", i, err)
		}
	}
	if got := grant.calls.Load(); got != 1 {
		t.Errorf("expected exactly one interactive grant, got %d", got)
	}

	saved, err := LoadToken(path)
	if err != nil {
		t.Fatalf("granted token not persisted: %v", err)
	}
	if saved.AccessToken != "granted" {
		t.Errorf("unexpected persisted token %q", saved.AccessToken)
	}
}
