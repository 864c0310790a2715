// ABOUTME: Contact group MCP tool handlers
// ABOUTME: Implements group CRUD, membership changes, and contacts-by-group search
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/contacts-mcp/format"
	"github.com/harperreed/contacts-mcp/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListContactGroupsInput struct {
	IncludeSystemGroups bool `json:"include_system_groups,omitempty" jsonschema:"Include provider-managed system groups like starred"`
}

type ContactGroupsOutput struct {
	Count   int                   `json:"count"`
	Groups  []models.ContactGroup `json:"groups"`
	Summary string                `json:"summary"`
}

func (h *Handlers) ListContactGroups(ctx context.Context, request *mcp.CallToolRequest, input ListContactGroupsInput) (*mcp.CallToolResult, ContactGroupsOutput, error) {
	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactGroupsOutput{}, err
	}

	groups, err := svc.ListContactGroups(ctx, input.IncludeSystemGroups)
	if err != nil {
		return nil, ContactGroupsOutput{}, err
	}

	return nil, ContactGroupsOutput{
		Count:   len(groups),
		Groups:  groups,
		Summary: format.ContactGroupsList(groups),
	}, nil
}

type CreateContactGroupInput struct {
	Name       string            `json:"name" jsonschema:"Name for the new contact group (required)"`
	ClientData []models.KeyValue `json:"client_data,omitempty" jsonschema:"Opaque caller-owned key/value pairs"`
}

type ContactGroupOutput struct {
	Group   models.ContactGroup `json:"group"`
	Summary string              `json:"summary"`
}

func groupOutput(group models.ContactGroup) ContactGroupOutput {
	return ContactGroupOutput{Group: group, Summary: format.ContactGroup(group)}
}

func (h *Handlers) CreateContactGroup(ctx context.Context, request *mcp.CallToolRequest, input CreateContactGroupInput) (*mcp.CallToolResult, ContactGroupOutput, error) {
	if input.Name == "" {
		return nil, ContactGroupOutput{}, fmt.Errorf("name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	group, err := svc.CreateContactGroup(ctx, input.Name, input.ClientData)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	return nil, groupOutput(group), nil
}

type GetContactGroupInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact group resource name (contactGroups/*, required)"`
	MaxMembers   int64  `json:"max_members,omitempty" jsonschema:"Maximum member resource names to include (0 for metadata only)"`
}

func (h *Handlers) GetContactGroup(ctx context.Context, request *mcp.CallToolRequest, input GetContactGroupInput) (*mcp.CallToolResult, ContactGroupOutput, error) {
	if input.ResourceName == "" {
		return nil, ContactGroupOutput{}, fmt.Errorf("resource_name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	group, err := svc.GetContactGroup(ctx, input.ResourceName, input.MaxMembers)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	return nil, groupOutput(group), nil
}

type UpdateContactGroupInput struct {
	ResourceName string            `json:"resource_name" jsonschema:"Contact group resource name (required)"`
	Name         string            `json:"name" jsonschema:"New name for the contact group (required)"`
	ClientData   []models.KeyValue `json:"client_data,omitempty" jsonschema:"Replacement client data pairs"`
}

func (h *Handlers) UpdateContactGroup(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactGroupInput) (*mcp.CallToolResult, ContactGroupOutput, error) {
	if input.ResourceName == "" {
		return nil, ContactGroupOutput{}, fmt.Errorf("resource_name is required")
	}
	if input.Name == "" {
		return nil, ContactGroupOutput{}, fmt.Errorf("name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	group, err := svc.UpdateContactGroup(ctx, input.ResourceName, input.Name, input.ClientData)
	if err != nil {
		return nil, ContactGroupOutput{}, err
	}

	return nil, groupOutput(group), nil
}

type DeleteContactGroupInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact group resource name (required)"`
}

func (h *Handlers) DeleteContactGroup(ctx context.Context, request *mcp.CallToolRequest, input DeleteContactGroupInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ResourceName == "" {
		return nil, DeleteOutput{}, fmt.Errorf("resource_name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := svc.DeleteContactGroup(ctx, input.ResourceName); err != nil {
		return nil, DeleteOutput{}, err
	}

	return nil, DeleteOutput{Success: true, ResourceName: input.ResourceName}, nil
}

type ModifyGroupMembersInput struct {
	GroupResourceName    string   `json:"group_resource_name" jsonschema:"Contact group resource name (required)"`
	ContactResourceNames []string `json:"contact_resource_names" jsonschema:"Contact resource names to modify (required)"`
}

type GroupMembershipOutput struct {
	Result  models.GroupMembershipResult `json:"result"`
	Summary string                       `json:"summary"`
}

func (h *Handlers) AddContactsToGroup(ctx context.Context, request *mcp.CallToolRequest, input ModifyGroupMembersInput) (*mcp.CallToolResult, GroupMembershipOutput, error) {
	if input.GroupResourceName == "" {
		return nil, GroupMembershipOutput{}, fmt.Errorf("group_resource_name is required")
	}
	if len(input.ContactResourceNames) == 0 {
		return nil, GroupMembershipOutput{}, fmt.Errorf("contact_resource_names is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, GroupMembershipOutput{}, err
	}

	result, err := svc.AddContactsToGroup(ctx, input.GroupResourceName, input.ContactResourceNames)
	if err != nil {
		return nil, GroupMembershipOutput{}, err
	}

	return nil, GroupMembershipOutput{
		Result:  result,
		Summary: format.GroupMembershipResult(result, "Add to group"),
	}, nil
}

func (h *Handlers) RemoveContactsFromGroup(ctx context.Context, request *mcp.CallToolRequest, input ModifyGroupMembersInput) (*mcp.CallToolResult, GroupMembershipOutput, error) {
	if input.GroupResourceName == "" {
		return nil, GroupMembershipOutput{}, fmt.Errorf("group_resource_name is required")
	}
	if len(input.ContactResourceNames) == 0 {
		return nil, GroupMembershipOutput{}, fmt.Errorf("contact_resource_names is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, GroupMembershipOutput{}, err
	}

	result, err := svc.RemoveContactsFromGroup(ctx, input.GroupResourceName, input.ContactResourceNames)
	if err != nil {
		return nil, GroupMembershipOutput{}, err
	}

	return nil, GroupMembershipOutput{
		Result:  result,
		Summary: format.GroupMembershipResult(result, "Remove from group"),
	}, nil
}

type SearchContactsByGroupInput struct {
	GroupResourceName string `json:"group_resource_name" jsonschema:"Contact group resource name (required)"`
	MaxResults        int64  `json:"max_results,omitempty" jsonschema:"Maximum number of contacts to return (default 50)"`
}

func (h *Handlers) SearchContactsByGroup(ctx context.Context, request *mcp.CallToolRequest, input SearchContactsByGroupInput) (*mcp.CallToolResult, ContactsOutput, error) {
	if input.GroupResourceName == "" {
		return nil, ContactsOutput{}, fmt.Errorf("group_resource_name is required")
	}

	svc, err := h.service(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	contacts, err := svc.ListContactsByGroup(ctx, input.GroupResourceName, input.MaxResults)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	return nil, contactsOutput(contacts), nil
}
