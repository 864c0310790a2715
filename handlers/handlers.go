// ABOUTME: Shared handler state for the MCP tool surface
// ABOUTME: Lazily builds the Google service once, guarded against concurrent tool calls
package handlers

import (
	"context"
	"sync"

	"github.com/harperreed/contacts-mcp/google"
	"golang.org/x/sync/singleflight"
)

// Handlers holds the shared Google service for all MCP tools. The service
// is built lazily on the first tool call so the MCP server can start (and
// list its tools) before any credential exists; concurrent first calls
// collapse into a single build, which matters because the build may run an
// interactive OAuth flow.
type Handlers struct {
	build  func(ctx context.Context) (*google.Service, error)
	flight singleflight.Group

	mu  sync.Mutex
	svc *google.Service
}

// New creates Handlers that build their service with build on first use.
func New(build func(ctx context.Context) (*google.Service, error)) *Handlers {
	return &Handlers{build: build}
}

// NewWithService creates Handlers around an already-built service.
func NewWithService(svc *google.Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) service(ctx context.Context) (*google.Service, error) {
	h.mu.Lock()
	svc := h.svc
	h.mu.Unlock()
	if svc != nil {
		return svc, nil
	}

	v, err, _ := h.flight.Do("service", func() (interface{}, error) {
		svc, err := h.build(ctx)
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		h.svc = svc
		h.mu.Unlock()
		return svc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*google.Service), nil
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
