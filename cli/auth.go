// ABOUTME: Authentication CLI commands
// ABOUTME: Runs the interactive OAuth grant and reports stored token status
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/contacts-mcp/google"
)

// AuthInitCommand runs the interactive OAuth flow and persists the
// resulting token. New refresh tokens are echoed so they can be captured
// into long-lived configuration.
func AuthInitCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	manual := fs.Bool("manual", false, "Paste the authorization code instead of using a local browser callback")
	_ = fs.Parse(args)

	cfg := google.AuthConfigFromEnv()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}

	// Force a fresh interactive grant even when a stored token exists.
	cfg.RefreshToken = ""
	if *manual {
		cfg.Grant = &google.ManualGrant{}
	} else {
		cfg.Grant = &google.BrowserGrant{}
	}
	cfg.OnNewRefreshToken = func(refreshToken string) {
		fmt.Println("\nNew refresh token obtained. Consider setting this in your environment:")
		fmt.Printf("GOOGLE_REFRESH_TOKEN=%s\n", refreshToken)
	}

	auth := google.NewAuthenticator(cfg)
	token, err := auth.Grant(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Authenticated successfully\n")
	fmt.Printf("✓ Token saved to %s (expires %s)\n", cfg.TokenPath, token.Expiry.Format("2006-01-02 15:04:05"))
	return nil
}

// AuthStatusCommand reports whether a stored token exists and is usable.
func AuthStatusCommand(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg := google.AuthConfigFromEnv()
	fmt.Printf("Token path: %s\n", cfg.TokenPath)

	token, err := google.LoadToken(cfg.TokenPath)
	if err != nil {
		fmt.Println("No stored token. Run 'contacts-mcp auth init' to authenticate.")
		return nil
	}

	if token.Valid() {
		fmt.Printf("Access token valid until %s\n", token.Expiry.Format("2006-01-02 15:04:05"))
	} else if token.RefreshToken != "" {
		fmt.Println("Access token expired; a refresh token is available and will be used on next call.")
	} else {
		fmt.Println("Stored token is expired with no refresh token. Run 'contacts-mcp auth init'.")
	}
	return nil
}
