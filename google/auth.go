// ABOUTME: Credential lifecycle for the Google People API session
// ABOUTME: Loads stored tokens, refreshes, falls back to interactive grant, and persists atomically
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// DefaultScopes covers contact read/write, the "other contacts" listing,
// and directory reads.
func DefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/contacts",
		"https://www.googleapis.com/auth/contacts.other.readonly",
		"https://www.googleapis.com/auth/directory.readonly",
	}
}

// DefaultTokenPath returns the XDG-compliant path for the persisted token.
func DefaultTokenPath() string {
	return filepath.Join(xdg.DataHome, "contacts-mcp", "token.json")
}

// AuthConfig carries the OAuth client identity and lifecycle hooks.
type AuthConfig struct {
	ClientID     string
	ClientSecret string

	// RefreshToken is an optional refresh secret from configuration. When
	// no stored token exists it produces a session without any interactive
	// flow.
	RefreshToken string

	TokenPath string
	Scopes    []string

	// Endpoint overrides the Google OAuth endpoint; zero value means the
	// real one.
	Endpoint oauth2.Endpoint

	// Grant is the interactive fallback when nothing stored or refreshable
	// exists. Nil selects DefaultGrant().
	Grant GrantStrategy

	// OnNewRefreshToken is called when authentication yields a refresh
	// token the configuration did not already know, so an operator can
	// capture it into long-lived configuration. Side effect only; never
	// part of the return contract.
	OnNewRefreshToken func(refreshToken string)
}

// AuthConfigFromEnv builds an AuthConfig from GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN, and CONTACTS_MCP_TOKEN_PATH.
func AuthConfigFromEnv() AuthConfig {
	cfg := AuthConfig{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		TokenPath:    os.Getenv("CONTACTS_MCP_TOKEN_PATH"),
		Scopes:       DefaultScopes(),
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = DefaultTokenPath()
	}
	return cfg
}

// Authenticator owns the in-memory credential and is the sole writer of
// the persisted token. It is safe for concurrent use: at most one refresh
// or interactive grant runs at a time.
type Authenticator struct {
	cfg AuthConfig

	mu        sync.Mutex
	flight    singleflight.Group
	source    oauth2.TokenSource
	current   *oauth2.Token
	persisted string // access token last written to disk
}

// NewAuthenticator creates an Authenticator. The session is built lazily
// on first Token call.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	if cfg.TokenPath == "" {
		cfg.TokenPath = DefaultTokenPath()
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes()
	}
	return &Authenticator{cfg: cfg}
}

func (a *Authenticator) oauthConfig() *oauth2.Config {
	endpoint := a.cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = googleoauth.Endpoint
	}
	return &oauth2.Config{
		ClientID:     a.cfg.ClientID,
		ClientSecret: a.cfg.ClientSecret,
		Scopes:       a.cfg.Scopes,
		Endpoint:     endpoint,
	}
}

// Token returns a valid, unexpired credential, building the session on
// first use. Once a valid session exists, subsequent calls return the
// cached handle; expiry triggers a silent refresh and a failed refresh
// falls back to the interactive grant when one is available.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()
	if current != nil && current.Valid() {
		return current, nil
	}

	v, err, _ := a.flight.Do("session", func() (interface{}, error) {
		return a.establish(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

// establish rebuilds the session: stored token, then configured refresh
// secret, then interactive grant. The resulting credential is persisted
// before it is returned.
func (a *Authenticator) establish(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil && a.current.Valid() {
		return a.current, nil
	}

	oc := a.oauthConfig()

	// Existing session: let the token source refresh silently.
	if a.source != nil {
		if tok, err := a.source.Token(); err == nil {
			a.install(a.source, tok)
			return tok, nil
		}
		a.source = nil
	}

	// A stored token that fails to parse is treated as absent, not fatal.
	seed, err := LoadToken(a.cfg.TokenPath)
	if err != nil {
		seed = nil
	}
	if seed == nil && a.cfg.RefreshToken != "" {
		seed = &oauth2.Token{RefreshToken: a.cfg.RefreshToken}
	}

	if seed != nil {
		src := oc.TokenSource(ctx, seed)
		if tok, err := src.Token(); err == nil {
			a.install(src, tok)
			if err := a.persist(tok); err != nil {
				return nil, err
			}
			a.notify(tok, seed.RefreshToken)
			return tok, nil
		}
		// Refresh failed; the interactive path below is the last resort.
	}

	if oc.ClientID == "" || oc.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET", ErrConfig)
	}

	grant := a.cfg.Grant
	if grant == nil {
		grant = DefaultGrant()
	}
	tok, err := grant.Authorize(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if err := a.persist(tok); err != nil {
		return nil, err
	}
	a.notify(tok, "")
	a.install(oc.TokenSource(ctx, tok), tok)
	return tok, nil
}

// Grant runs the interactive flow unconditionally, replacing any stored
// credential. Used by the auth setup command; normal operation reaches the
// interactive flow only as a last resort through Token.
func (a *Authenticator) Grant(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	oc := a.oauthConfig()
	if oc.ClientID == "" || oc.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET", ErrConfig)
	}

	grant := a.cfg.Grant
	if grant == nil {
		grant = DefaultGrant()
	}
	tok, err := grant.Authorize(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if err := a.persist(tok); err != nil {
		return nil, err
	}
	a.notify(tok, "")
	a.install(oc.TokenSource(ctx, tok), tok)
	return tok, nil
}

// install records the active source and current token; callers hold a.mu.
func (a *Authenticator) install(src oauth2.TokenSource, tok *oauth2.Token) {
	a.source = src
	a.current = tok
	if a.persisted != "" && a.persisted != tok.AccessToken {
		// Refreshed behind our back by the token source; keep disk current.
		_ = a.persist(tok)
	}
}

func (a *Authenticator) persist(tok *oauth2.Token) error {
	if err := SaveToken(a.cfg.TokenPath, tok); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	a.persisted = tok.AccessToken
	return nil
}

// notify surfaces a refresh token obtained from a refresh or grant. known
// is the refresh token we already held going in (from disk or from
// configuration); a token that merely round-tripped through our own store
// is not news and must not be announced again.
func (a *Authenticator) notify(tok *oauth2.Token, known string) {
	if a.cfg.OnNewRefreshToken == nil {
		return
	}
	if tok.RefreshToken == "" || tok.RefreshToken == known || tok.RefreshToken == a.cfg.RefreshToken {
		return
	}
	a.cfg.OnNewRefreshToken(tok.RefreshToken)
}

// TokenSource adapts the Authenticator to oauth2.TokenSource.
func (a *Authenticator) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) {
		return a.Token(ctx)
	})
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

// People returns an authenticated People API client backed by this
// Authenticator's session.
func (a *Authenticator) People(ctx context.Context) (*people.Service, error) {
	if _, err := a.Token(ctx); err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, a.TokenSource(ctx))
	svc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return svc, nil
}

// SaveToken writes the token to path atomically with restricted
// permissions, so a crash mid-write never leaves partial token state.
func SaveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to restrict token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(token); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

// LoadToken reads a persisted token. Returns an error for a missing or
// malformed file; callers treat both as "no stored token".
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}
