// ABOUTME: Plain-text rendering of contact groups and membership results
// ABOUTME: Separates user groups from system groups in listings
package format

import (
	"fmt"
	"strings"

	"github.com/harperreed/contacts-mcp/models"
)

// ContactGroup renders one group with metadata, client data, and members
// when present.
func ContactGroup(g models.ContactGroup) string {
	var parts []string

	name := g.FormattedName
	if name == "" {
		name = g.Name
	}
	parts = append(parts, "👨‍👩‍👧‍👦 Group: "+name)
	if g.GroupType != "" {
		parts = append(parts, "📂 Type: "+g.GroupType)
	}
	parts = append(parts, fmt.Sprintf("👤 Members: %d", g.MemberCount))
	if g.UpdateTime != "" {
		parts = append(parts, "🕐 Updated: "+g.UpdateTime)
	}
	if g.Deleted {
		parts = append(parts, "🗑️  Deleted")
	}
	for _, data := range g.ClientData {
		parts = append(parts, fmt.Sprintf("🔧 %s: %s", data.Key, data.Value))
	}
	if len(g.MemberResourceNames) > 0 {
		parts = append(parts, "Members:")
		for _, member := range g.MemberResourceNames {
			parts = append(parts, "  - "+member)
		}
	}
	if g.ResourceName != "" {
		parts = append(parts, "🆔 Resource: "+g.ResourceName)
	}

	return strings.Join(parts, "\n")
}

// ContactGroupsList renders groups with user groups first.
func ContactGroupsList(groups []models.ContactGroup) string {
	if len(groups) == 0 {
		return "No contact groups found."
	}

	var user, system []models.ContactGroup
	for _, g := range groups {
		if g.GroupType == models.GroupTypeSystem {
			system = append(system, g)
		} else {
			user = append(user, g)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contact groups:\n", len(groups))

	writeGroups := func(header string, groups []models.ContactGroup) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", header)
		for _, g := range groups {
			name := g.FormattedName
			if name == "" {
				name = g.Name
			}
			fmt.Fprintf(&b, "  - %s (%d members) [%s]\n", name, g.MemberCount, g.ResourceName)
		}
	}
	writeGroups("Your groups:", user)
	writeGroups("System groups:", system)

	return strings.TrimRight(b.String(), "\n")
}

// GroupMembershipResult renders the outcome of an add or remove call,
// including the identifiers that partially failed.
func GroupMembershipResult(result models.GroupMembershipResult, operation string) string {
	var b strings.Builder

	if result.Success {
		fmt.Fprintf(&b, "✅ %s succeeded: %d contacts affected", operation, result.Affected)
	} else {
		fmt.Fprintf(&b, "⚠️  %s partially failed: %d contacts affected", operation, result.Affected)
	}

	if len(result.NotFound) > 0 {
		fmt.Fprintf(&b, "\nNot found: %s", strings.Join(result.NotFound, ", "))
	}
	if len(result.CouldNotRemove) > 0 {
		fmt.Fprintf(&b, "\nCould not remove (contact must belong to at least one group): %s",
			strings.Join(result.CouldNotRemove, ", "))
	}

	return b.String()
}
