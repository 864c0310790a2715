// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements list, search, get, create, update, and delete contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/contacts-mcp/format"
	"github.com/harperreed/contacts-mcp/google"
	"github.com/harperreed/contacts-mcp/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListContactsInput struct {
	NameFilter       string `json:"name_filter,omitempty" jsonschema:"Case-insensitive substring filter on name fields"`
	MaxResults       int64  `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 100)"`
	IncludeAllFields bool   `json:"include_all_fields,omitempty" jsonschema:"Include addresses, birthdays, events, and other extended fields"`
}

type ContactsOutput struct {
	Count    int              `json:"count"`
	Contacts []models.Contact `json:"contacts"`
	Summary  string           `json:"summary"`
}

func contactsOutput(contacts []models.Contact) ContactsOutput {
	return ContactsOutput{
		Count:    len(contacts),
		Contacts: contacts,
		Summary:  format.ContactsList(contacts),
	}
}

func (h *Handlers) ListContacts(ctx context.Context, request *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ContactsOutput, error) {
	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	contacts, err := svc.ListContacts(ctx, google.ListContactsOptions{
		NameFilter: input.NameFilter,
		MaxResults: input.MaxResults,
		AllFields:  input.IncludeAllFields,
	})
	if err != nil {
		return nil, ContactsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	return nil, contactsOutput(contacts), nil
}

type SearchContactsInput struct {
	Query        string   `json:"query" jsonschema:"Search term (required)"`
	MaxResults   int64    `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 50)"`
	SearchFields []string `json:"search_fields,omitempty" jsonschema:"Fields to match when falling back to client-side search (e.g. emails, phones, organization)"`
}

func (h *Handlers) SearchContacts(ctx context.Context, request *mcp.CallToolRequest, input SearchContactsInput) (*mcp.CallToolResult, ContactsOutput, error) {
	if input.Query == "" {
		return nil, ContactsOutput{}, fmt.Errorf("query is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	contacts, err := svc.SearchContacts(ctx, input.Query, input.MaxResults, input.SearchFields)
	if err != nil {
		return nil, ContactsOutput{}, fmt.Errorf("failed to search contacts: %w", err)
	}

	return nil, contactsOutput(contacts), nil
}

type GetContactInput struct {
	Identifier       string `json:"identifier" jsonschema:"Resource name (people/*) or email address (required)"`
	IncludeAllFields bool   `json:"include_all_fields,omitempty" jsonschema:"Include all available fields (default true in practice; set false for a narrow read)"`
}

type ContactOutput struct {
	Contact  models.Contact `json:"contact"`
	Summary  string         `json:"summary"`
	Warnings []string       `json:"warnings,omitempty"`
}

func contactOutput(contact models.Contact, dropped []string) ContactOutput {
	out := ContactOutput{
		Contact: contact,
		Summary: format.Contact(contact),
	}
	for _, key := range dropped {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s value could not be parsed and was ignored", key))
	}
	return out
}

func (h *Handlers) GetContact(ctx context.Context, request *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Identifier == "" {
		return nil, ContactOutput{}, fmt.Errorf("identifier is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := svc.GetContact(ctx, input.Identifier, true)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	return nil, contactOutput(contact, nil), nil
}

// ContactFieldsInput is the sparse field vocabulary shared by the create
// and update tools. Plural keys replace the whole field group; singular
// email/phone only replace the primary entry on update.
//
// An empty string means "not provided", not "clear this field": updates
// touch only the field groups with non-empty values, so existing data is
// never blanked by an omitted or empty key. To empty a whole group, pass
// its plural key with an empty list (e.g. "emails": []).
type ContactFieldsInput struct {
	GivenName    string            `json:"given_name,omitempty" jsonschema:"First name"`
	FamilyName   string            `json:"family_name,omitempty" jsonschema:"Last name"`
	Nickname     string            `json:"nickname,omitempty" jsonschema:"Nickname"`
	Email        string            `json:"email,omitempty" jsonschema:"Primary email address"`
	Emails       []string          `json:"emails,omitempty" jsonschema:"Full replacement list of email addresses"`
	Phone        string            `json:"phone,omitempty" jsonschema:"Primary phone number"`
	Phones       []string          `json:"phones,omitempty" jsonschema:"Full replacement list of phone numbers"`
	Address      string            `json:"address,omitempty" jsonschema:"Formatted postal address"`
	Addresses    []string          `json:"addresses,omitempty" jsonschema:"Full replacement list of formatted addresses"`
	Organization string            `json:"organization,omitempty" jsonschema:"Company or organization name"`
	JobTitle     string            `json:"job_title,omitempty" jsonschema:"Job title"`
	Birthday     string            `json:"birthday,omitempty" jsonschema:"Birthday as YYYY-MM-DD"`
	Website      string            `json:"website,omitempty" jsonschema:"Primary website URL"`
	URLs         []string          `json:"urls,omitempty" jsonschema:"Full replacement list of URLs"`
	Notes        string            `json:"notes,omitempty" jsonschema:"Free-form notes"`
	Relations    []models.Relation `json:"relations,omitempty" jsonschema:"Related people"`
	Events       []models.Event    `json:"events,omitempty" jsonschema:"Dated events such as anniversaries"`
	CustomFields []models.KeyValue `json:"custom_fields,omitempty" jsonschema:"Caller-defined key/value fields"`
}

func (in ContactFieldsInput) toFields() google.ContactFields {
	return google.ContactFields{
		GivenName:    optString(in.GivenName),
		FamilyName:   optString(in.FamilyName),
		Nickname:     optString(in.Nickname),
		Email:        optString(in.Email),
		Emails:       in.Emails,
		Phone:        optString(in.Phone),
		Phones:       in.Phones,
		Address:      optString(in.Address),
		Addresses:    in.Addresses,
		Organization: optString(in.Organization),
		JobTitle:     optString(in.JobTitle),
		Birthday:     optString(in.Birthday),
		Website:      optString(in.Website),
		URLs:         in.URLs,
		Notes:        optString(in.Notes),
		Relations:    in.Relations,
		Events:       in.Events,
		CustomFields: in.CustomFields,
	}
}

func (h *Handlers) CreateContact(ctx context.Context, request *mcp.CallToolRequest, input ContactFieldsInput) (*mcp.CallToolResult, ContactOutput, error) {
	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, dropped, err := svc.CreateContact(ctx, input.toFields())
	if err != nil {
		return nil, ContactOutput{}, err
	}

	return nil, contactOutput(contact, dropped), nil
}

type UpdateContactInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact resource name (people/*, required)"`
	ContactFieldsInput
}

func (h *Handlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ResourceName == "" {
		return nil, ContactOutput{}, fmt.Errorf("resource_name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, dropped, err := svc.UpdateContact(ctx, input.ResourceName, input.toFields())
	if err != nil {
		return nil, ContactOutput{}, err
	}

	return nil, contactOutput(contact, dropped), nil
}

type DeleteContactInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact resource name (people/*, required)"`
}

type DeleteOutput struct {
	Success      bool   `json:"success"`
	ResourceName string `json:"resourceName"`
}

func (h *Handlers) DeleteContact(ctx context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ResourceName == "" {
		return nil, DeleteOutput{}, fmt.Errorf("resource_name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := svc.DeleteContact(ctx, input.ResourceName); err != nil {
		return nil, DeleteOutput{}, err
	}

	return nil, DeleteOutput{Success: true, ResourceName: input.ResourceName}, nil
}
