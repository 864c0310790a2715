// ABOUTME: Interactive OAuth grant strategies
// ABOUTME: Browser flow with a loopback callback listener, plus a manual-paste fallback for headless use
package google

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/term"
)

// GrantStrategy obtains a token through an interactive authorization flow.
// It is the last resort of the credential lifecycle, used only when no
// stored token and no refresh secret can produce a session.
type GrantStrategy interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// DefaultGrant picks the browser flow when a terminal user is present and
// the manual-paste flow otherwise.
func DefaultGrant() GrantStrategy {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &BrowserGrant{}
	}
	return &ManualGrant{}
}

// BrowserGrant runs the authorization code flow against a short-lived
// loopback listener. The listener binds an ephemeral port, so only one
// grant may run per process at a time; the Authenticator enforces that.
type BrowserGrant struct {
	// Out receives operator-facing progress lines; defaults to stderr.
	Out io.Writer
}

func (g *BrowserGrant) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	out := g.Out
	if out == nil {
		out = os.Stderr
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener: %w", err)
	}
	defer func() { _ = listener.Close() }()

	redirect := *cfg
	redirect.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr().String())

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	// Sends are non-blocking: only the first outcome matters, and a
	// duplicate callback (page refresh, browser retry) must not leave a
	// handler blocked on a full channel, which would stall Shutdown below.
	offer := func(ch chan string, v string) {
		select {
		case ch <- v:
		default:
		}
	}
	offerErr := func(err error) {
		select {
		case errChan <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			offerErr(fmt.Errorf("state mismatch in OAuth callback"))
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			offerErr(fmt.Errorf("no authorization code received"))
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		_, _ = fmt.Fprint(w, "Authorization successful! You can close this window.")
		offer(codeChan, code)
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			offerErr(err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := redirect.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintln(out, "Opening browser for Google OAuth...")
	fmt.Fprintf(out, "\nIf the browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case code := <-codeChan:
		token, err := redirect.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange code: %w", err)
		}
		return token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ManualGrant prints the authorization URL and reads the pasted code from
// In. Suitable for headless environments with no local listener.
type ManualGrant struct {
	In  io.Reader
	Out io.Writer
}

func (g *ManualGrant) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	in := g.In
	if in == nil {
		in = os.Stdin
	}
	out := g.Out
	if out == nil {
		out = os.Stderr
	}

	redirect := *cfg
	redirect.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"

	authURL := redirect.AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Visit this URL to authorize access:\n%s\n\nEnter the authorization code: ", authURL)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("no authorization code entered")
	}

	token, err := redirect.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// openBrowser attempts to open URL in the default browser.
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
