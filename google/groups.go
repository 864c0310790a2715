// ABOUTME: Contact group normalization and group CRUD plus membership changes
// ABOUTME: Membership mutations report partial failures structurally, never as errors
package google

import (
	"context"
	"fmt"
	"net/http"

	"github.com/harperreed/contacts-mcp/models"
	"google.golang.org/api/people/v1"
)

// ContactGroupFromAPI converts a raw group record into the flat internal
// ContactGroup. Member identifiers are only carried over when the caller
// explicitly asked for members; metadata-only reads omit them.
func ContactGroupFromAPI(group *people.ContactGroup, includeMembers bool) models.ContactGroup {
	g := models.ContactGroup{}
	if group == nil {
		return g
	}

	g.ResourceName = group.ResourceName
	g.Name = group.Name
	g.FormattedName = group.FormattedName
	g.GroupType = group.GroupType
	g.MemberCount = group.MemberCount

	if group.Metadata != nil {
		g.UpdateTime = group.Metadata.UpdateTime
		g.Deleted = group.Metadata.Deleted
	}

	for _, data := range group.ClientData {
		g.ClientData = append(g.ClientData, models.KeyValue{
			Key:   data.Key,
			Value: data.Value,
		})
	}

	if includeMembers {
		g.MemberResourceNames = group.MemberResourceNames
	}

	return g
}

// ListContactGroups lists the user's contact groups, optionally excluding
// system groups (starred, my contacts, and so on).
func (s *Service) ListContactGroups(ctx context.Context, includeSystemGroups bool) ([]models.ContactGroup, error) {
	resp, err := s.api.ContactGroups.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list contact groups: %w", err)
	}

	groups := []models.ContactGroup{}
	for _, group := range resp.ContactGroups {
		if !includeSystemGroups && group.GroupType != models.GroupTypeUser {
			continue
		}
		groups = append(groups, ContactGroupFromAPI(group, false))
	}
	return groups, nil
}

// GetContactGroup fetches one group. maxMembers 0 is a metadata-only read;
// a positive value asks the provider for up to that many member resource
// names, which is the more expensive read path.
func (s *Service) GetContactGroup(ctx context.Context, resourceName string, maxMembers int64) (models.ContactGroup, error) {
	call := s.api.ContactGroups.Get(resourceName).Context(ctx)
	if maxMembers > 0 {
		call = call.MaxMembers(maxMembers)
	}

	group, err := call.Do()
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return models.ContactGroup{}, fmt.Errorf("%w: %s", ErrNotFound, resourceName)
		}
		return models.ContactGroup{}, fmt.Errorf("failed to get contact group: %w", err)
	}
	return ContactGroupFromAPI(group, maxMembers > 0), nil
}

// CreateContactGroup creates a user contact group with an optional set of
// caller-owned client data pairs.
func (s *Service) CreateContactGroup(ctx context.Context, name string, clientData []models.KeyValue) (models.ContactGroup, error) {
	group := &people.ContactGroup{Name: name}
	for _, data := range clientData {
		group.ClientData = append(group.ClientData, &people.GroupClientData{
			Key:   data.Key,
			Value: data.Value,
		})
	}

	created, err := s.api.ContactGroups.Create(&people.CreateContactGroupRequest{
		ContactGroup: group,
	}).Context(ctx).Do()
	if err != nil {
		return models.ContactGroup{}, fmt.Errorf("failed to create contact group: %w", err)
	}
	return ContactGroupFromAPI(created, false), nil
}

// UpdateContactGroup renames a group, refetching it first for its etag.
// Client data is only written when supplied.
func (s *Service) UpdateContactGroup(ctx context.Context, resourceName, name string, clientData []models.KeyValue) (models.ContactGroup, error) {
	current, err := s.api.ContactGroups.Get(resourceName).Context(ctx).Do()
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return models.ContactGroup{}, fmt.Errorf("%w: %s", ErrNotFound, resourceName)
		}
		return models.ContactGroup{}, fmt.Errorf("failed to fetch contact group for update: %w", err)
	}

	group := &people.ContactGroup{
		ResourceName: resourceName,
		Etag:         current.Etag,
		Name:         name,
	}
	updateFields := "name"
	if len(clientData) > 0 {
		for _, data := range clientData {
			group.ClientData = append(group.ClientData, &people.GroupClientData{
				Key:   data.Key,
				Value: data.Value,
			})
		}
		updateFields = "name,clientData"
	}

	updated, err := s.api.ContactGroups.Update(resourceName, &people.UpdateContactGroupRequest{
		ContactGroup:      group,
		UpdateGroupFields: updateFields,
	}).Context(ctx).Do()
	if err != nil {
		return models.ContactGroup{}, fmt.Errorf("failed to update contact group: %w", err)
	}
	return ContactGroupFromAPI(updated, false), nil
}

// DeleteContactGroup removes a user contact group.
func (s *Service) DeleteContactGroup(ctx context.Context, resourceName string) error {
	if _, err := s.api.ContactGroups.Delete(resourceName).Context(ctx).Do(); err != nil {
		if statusCode(err) == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, resourceName)
		}
		return fmt.Errorf("failed to delete contact group: %w", err)
	}
	return nil
}

// AddContactsToGroup adds contacts to a group. Identifiers the provider
// does not recognize come back in the result's NotFound list.
func (s *Service) AddContactsToGroup(ctx context.Context, groupResourceName string, contactResourceNames []string) (models.GroupMembershipResult, error) {
	resp, err := s.api.ContactGroups.Members.Modify(groupResourceName, &people.ModifyContactGroupMembersRequest{
		ResourceNamesToAdd: contactResourceNames,
	}).Context(ctx).Do()
	if err != nil {
		return models.GroupMembershipResult{}, fmt.Errorf("failed to add contacts to group: %w", err)
	}
	return membershipResult(contactResourceNames, resp), nil
}

// RemoveContactsFromGroup removes contacts from a group. Contacts whose
// only group this is cannot be removed; they come back in CouldNotRemove
// rather than failing the call.
func (s *Service) RemoveContactsFromGroup(ctx context.Context, groupResourceName string, contactResourceNames []string) (models.GroupMembershipResult, error) {
	resp, err := s.api.ContactGroups.Members.Modify(groupResourceName, &people.ModifyContactGroupMembersRequest{
		ResourceNamesToRemove: contactResourceNames,
	}).Context(ctx).Do()
	if err != nil {
		return models.GroupMembershipResult{}, fmt.Errorf("failed to remove contacts from group: %w", err)
	}
	return membershipResult(contactResourceNames, resp), nil
}

func membershipResult(requested []string, resp *people.ModifyContactGroupMembersResponse) models.GroupMembershipResult {
	result := models.GroupMembershipResult{}
	if resp != nil {
		result.NotFound = resp.NotFoundResourceNames
		result.CouldNotRemove = resp.CanNotRemoveLastContactGroupResourceNames
	}

	result.Affected = len(requested) - len(result.NotFound) - len(result.CouldNotRemove)
	if result.Affected < 0 {
		result.Affected = 0
	}
	result.Success = len(result.NotFound) == 0 && len(result.CouldNotRemove) == 0
	return result
}
