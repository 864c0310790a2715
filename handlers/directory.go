// ABOUTME: Directory and other-contacts MCP tool handlers
// ABOUTME: Implements list_workspace_users, search_directory, and get_other_contacts
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/contacts-mcp/format"
	"github.com/harperreed/contacts-mcp/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListWorkspaceUsersInput struct {
	Query      string `json:"query,omitempty" jsonschema:"Optional search query to filter directory results"`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type DirectoryPeopleOutput struct {
	Count   int                      `json:"count"`
	People  []models.DirectoryPerson `json:"people"`
	Summary string                   `json:"summary"`
}

func directoryOutput(people []models.DirectoryPerson, query string) DirectoryPeopleOutput {
	return DirectoryPeopleOutput{
		Count:   len(people),
		People:  people,
		Summary: format.DirectoryPeople(people, query),
	}
}

func (h *Handlers) ListWorkspaceUsers(ctx context.Context, request *mcp.CallToolRequest, input ListWorkspaceUsersInput) (*mcp.CallToolResult, DirectoryPeopleOutput, error) {
	svc, err := h.service(ctx)
	if err != nil {
		return nil, DirectoryPeopleOutput{}, err
	}

	people, err := svc.ListDirectoryPeople(ctx, input.Query, input.MaxResults)
	if err != nil {
		return nil, DirectoryPeopleOutput{}, err
	}

	return nil, directoryOutput(people, input.Query), nil
}

type SearchDirectoryInput struct {
	Query      string `json:"query" jsonschema:"Search query to find directory members (required)"`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

func (h *Handlers) SearchDirectory(ctx context.Context, request *mcp.CallToolRequest, input SearchDirectoryInput) (*mcp.CallToolResult, DirectoryPeopleOutput, error) {
	if input.Query == "" {
		return nil, DirectoryPeopleOutput{}, fmt.Errorf("query is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, DirectoryPeopleOutput{}, err
	}

	people, err := svc.SearchDirectory(ctx, input.Query, input.MaxResults)
	if err != nil {
		return nil, DirectoryPeopleOutput{}, err
	}

	return nil, directoryOutput(people, input.Query), nil
}

type GetOtherContactsInput struct {
	MaxResults int64 `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 100)"`
}

func (h *Handlers) GetOtherContacts(ctx context.Context, request *mcp.CallToolRequest, input GetOtherContactsInput) (*mcp.CallToolResult, ContactsOutput, error) {
	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	contacts, err := svc.ListOtherContacts(ctx, input.MaxResults)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	return nil, contactsOutput(contacts), nil
}
