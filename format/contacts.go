// ABOUTME: Plain-text rendering of contacts and directory people
// ABOUTME: Pure string builders with no provider or transport knowledge
package format

import (
	"fmt"
	"strings"

	"github.com/harperreed/contacts-mcp/models"
)

// Contact renders one contact with every populated field.
func Contact(c models.Contact) string {
	var parts []string

	if c.DisplayName != "" {
		parts = append(parts, "📝 Name: "+c.DisplayName)
	} else if name := strings.TrimSpace(c.GivenName + " " + c.FamilyName); name != "" {
		parts = append(parts, "📝 Name: "+name)
	}
	if c.Nickname != "" {
		parts = append(parts, "🏷️  Nickname: "+c.Nickname)
	}

	for i, email := range c.Emails {
		label := email.Label
		if label == "" {
			label = email.Type
		}
		line := "📧 Email: " + email.Value
		if label != "" {
			line += " (" + label + ")"
		}
		if i == 0 && len(c.Emails) > 1 {
			line += " [primary]"
		}
		parts = append(parts, line)
	}
	for i, phone := range c.Phones {
		label := phone.Label
		if label == "" {
			label = phone.Type
		}
		line := "📞 Phone: " + phone.Value
		if label != "" {
			line += " (" + label + ")"
		}
		if i == 0 && len(c.Phones) > 1 {
			line += " [primary]"
		}
		parts = append(parts, line)
	}

	if c.Organization != "" {
		parts = append(parts, "🏢 Organization: "+c.Organization)
	}
	if c.JobTitle != "" {
		parts = append(parts, "💼 Job Title: "+c.JobTitle)
	}
	if c.Department != "" {
		parts = append(parts, "🏛️  Department: "+c.Department)
	}

	for _, addr := range c.Addresses {
		value := addr.Formatted
		if value == "" {
			pieces := []string{}
			for _, p := range []string{addr.Street, addr.City, addr.Region, addr.PostalCode, addr.Country} {
				if p != "" {
					pieces = append(pieces, p)
				}
			}
			value = strings.Join(pieces, ", ")
		}
		if value != "" {
			line := "🏠 Address: " + value
			if addr.Type != "" {
				line += " (" + addr.Type + ")"
			}
			parts = append(parts, line)
		}
	}

	if c.Birthday != nil {
		parts = append(parts, "🎂 Birthday: "+Date(*c.Birthday))
	}

	for _, url := range c.URLs {
		line := "🔗 URL: " + url.Value
		if url.Type != "" {
			line += " (" + url.Type + ")"
		}
		parts = append(parts, line)
	}

	for _, rel := range c.Relations {
		line := "👥 Relation: " + rel.Person
		if rel.Type != "" {
			line += " (" + rel.Type + ")"
		}
		parts = append(parts, line)
	}

	for _, event := range c.Events {
		line := "📅 Event"
		if event.Type != "" {
			line += " (" + event.Type + ")"
		}
		if event.Date != nil {
			line += ": " + Date(*event.Date)
		}
		parts = append(parts, line)
	}

	for _, field := range c.CustomFields {
		parts = append(parts, fmt.Sprintf("🔧 %s: %s", field.Key, field.Value))
	}

	if c.Notes != "" {
		parts = append(parts, "📋 Notes: "+c.Notes)
	}
	if c.PhotoURL != "" {
		parts = append(parts, "📷 Photo: "+c.PhotoURL)
	}
	if len(c.Groups) > 0 {
		names := make([]string, len(c.Groups))
		for i, group := range c.Groups {
			names[i] = group.ResourceName
		}
		parts = append(parts, "👨‍👩‍👧‍👦 Groups: "+strings.Join(names, ", "))
	}
	if c.ResourceName != "" {
		parts = append(parts, "🆔 Resource: "+c.ResourceName)
	}

	if len(parts) == 0 {
		return "Contact has no details"
	}
	return strings.Join(parts, "\n")
}

// ContactsList renders a numbered summary of contacts with trailing stats.
func ContactsList(contacts []models.Contact) string {
	if len(contacts) == 0 {
		return "No contacts found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contacts:\n", len(contacts))

	for i, c := range contacts {
		name := c.DisplayName
		if name == "" {
			name = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
		}
		if name == "" {
			name = "(no name)"
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
		if c.Email != "" {
			fmt.Fprintf(&b, "\n   📧 %s", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, "\n   📞 %s", c.Phone)
		}
		if c.Organization != "" {
			fmt.Fprintf(&b, "\n   🏢 %s", c.Organization)
		}
	}

	withEmail := 0
	withPhone := 0
	for _, c := range contacts {
		if c.Email != "" {
			withEmail++
		}
		if c.Phone != "" {
			withPhone++
		}
	}
	fmt.Fprintf(&b, "\n\n📊 %d with email, %d with phone", withEmail, withPhone)

	return b.String()
}

// DirectoryPeople renders Workspace directory search results.
func DirectoryPeople(people []models.DirectoryPerson, query string) string {
	if len(people) == 0 {
		if query != "" {
			return fmt.Sprintf("No directory members found matching %q.", query)
		}
		return "No directory members found."
	}

	var b strings.Builder
	if query != "" {
		fmt.Fprintf(&b, "Found %d directory members matching %q:\n", len(people), query)
	} else {
		fmt.Fprintf(&b, "Found %d directory members:\n", len(people))
	}

	for i, person := range people {
		name := person.DisplayName
		if name == "" {
			name = "(no name)"
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
		if person.Email != "" {
			fmt.Fprintf(&b, "\n   📧 %s", person.Email)
		}
		if person.JobTitle != "" {
			fmt.Fprintf(&b, "\n   💼 %s", person.JobTitle)
		}
		if person.Department != "" {
			fmt.Fprintf(&b, "\n   🏛️  %s", person.Department)
		}
	}

	return b.String()
}

// Date renders a date, omitting an unknown year.
func Date(d models.Date) string {
	if d.Year != 0 {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("--%02d-%02d", d.Month, d.Day)
}
