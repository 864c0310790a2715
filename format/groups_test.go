// ABOUTME: Tests for group listing order and membership outcome rendering
package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/contacts-mcp/models"
)

func TestContactGroupsListUserGroupsFirst(t *testing.T) {
	out := ContactGroupsList([]models.ContactGroup{
		{Name: "starred", FormattedName: "Starred", GroupType: models.GroupTypeSystem, ResourceName: "contactGroups/starred"},
		{Name: "friends", GroupType: models.GroupTypeUser, MemberCount: 4, ResourceName: "contactGroups/g1"},
	})

	assert.Contains(t, out, "Found 2 contact groups:")
	userIdx := strings.Index(out, "friends (4 members)")
	systemIdx := strings.Index(out, "Starred")
	assert.Greater(t, userIdx, -1)
	assert.Greater(t, systemIdx, userIdx)
}

func TestContactGroupWithMembers(t *testing.T) {
	out := ContactGroup(models.ContactGroup{
		Name:                "friends",
		FormattedName:       "Friends",
		GroupType:           models.GroupTypeUser,
		MemberCount:         2,
		MemberResourceNames: []string{"people/m1", "people/m2"},
		ClientData:          []models.KeyValue{{Key: "color", Value: "blue"}},
	})

	assert.Contains(t, out, "Group: Friends")
	assert.Contains(t, out, "Members: 2")
	assert.Contains(t, out, "- people/m1")
	assert.Contains(t, out, "color: blue")
}

func TestGroupMembershipResultRendering(t *testing.T) {
	ok := GroupMembershipResult(models.GroupMembershipResult{Success: true, Affected: 3}, "Add")
	assert.Contains(t, ok, "✅ Add succeeded: 3 contacts affected")

	partial := GroupMembershipResult(models.GroupMembershipResult{
		Affected:       1,
		NotFound:       []string{"people/ghost"},
		CouldNotRemove: []string{"people/solo"},
	}, "Remove")
	assert.Contains(t, partial, "⚠️  Remove partially failed: 1 contacts affected")
	assert.Contains(t, partial, "Not found: people/ghost")
	assert.Contains(t, partial, "Could not remove")
	assert.Contains(t, partial, "people/solo")
}
