// ABOUTME: Error taxonomy for the Google Contacts service layer
// ABOUTME: Sentinel errors plus helpers for inspecting provider HTTP status codes
package google

import (
	"errors"

	"google.golang.org/api/googleapi"
)

var (
	// ErrConfig indicates missing OAuth client configuration with no stored
	// or refreshable credential to fall back on. Fatal, not retryable.
	ErrConfig = errors.New("missing Google OAuth client configuration")

	// ErrAuth indicates the credential could not be refreshed and no
	// interactive path succeeded. The current operation fails; a later
	// process run may succeed.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound indicates a resource name or email had no match.
	ErrNotFound = errors.New("not found")
)

// statusCode extracts the provider HTTP status from err, or 0 when the
// error did not come from a provider call.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
