// ABOUTME: MCP server subcommand
// ABOUTME: Registers all Google Contacts tools and serves them over stdio
package cli

import (
	"context"
	"log"

	"github.com/harperreed/contacts-mcp/google"
	"github.com/harperreed/contacts-mcp/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio. The Google service is built
// lazily on the first tool call so the server comes up even before any
// credential exists.
func MCPCommand(ctx context.Context, version string) error {
	log.Println("Starting Google Contacts MCP server...")

	h := handlers.New(func(ctx context.Context) (*google.Service, error) {
		return google.NewServiceFromEnv(ctx)
	})

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "google-contacts",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts, optionally filtered by name, with pagination",
	}, h.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_contacts",
		Description: "Search contacts by name, email, phone, organization, or other fields",
	}, h.SearchContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Get a contact by resource name or email address",
	}, h.GetContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_contact",
		Description: "Create a new contact with comprehensive field support",
	}, h.CreateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact, touching only the supplied fields",
	}, h.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact by resource name",
	}, h.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_workspace_users",
		Description: "List people from the Google Workspace directory",
	}, h.ListWorkspaceUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_directory",
		Description: "Search the Google Workspace directory",
	}, h.SearchDirectory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_other_contacts",
		Description: "List 'other contacts' the user has interacted with but never added",
	}, h.GetOtherContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contact_groups",
		Description: "List contact groups, optionally including system groups",
	}, h.ListContactGroups)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_contact_group",
		Description: "Create a new contact group",
	}, h.CreateContactGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact_group",
		Description: "Get a contact group, optionally with member resource names",
	}, h.GetContactGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact_group",
		Description: "Rename a contact group and optionally replace its client data",
	}, h.UpdateContactGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact_group",
		Description: "Delete a contact group",
	}, h.DeleteContactGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contacts_to_group",
		Description: "Add contacts to a contact group",
	}, h.AddContactsToGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_contacts_from_group",
		Description: "Remove contacts from a contact group",
	}, h.RemoveContactsFromGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_contacts_by_group",
		Description: "List the contacts belonging to a contact group",
	}, h.SearchContactsByGroup)

	return server.Run(ctx, &mcp.StdioTransport{})
}
