// ABOUTME: Normalizers from raw People API records to internal flat entities
// ABOUTME: Total, order-preserving conversion that tolerates any missing field group
package google

import (
	"strings"

	"github.com/harperreed/contacts-mcp/models"
	"google.golang.org/api/people/v1"
)

// ContactFromPerson converts a raw person record into the flat internal
// Contact. It never fails: absent field groups become empty slices or zero
// scalars. Multi-valued outputs keep the provider's order, so index 0 is
// the primary entry. Singular-by-convention groups (names, nicknames,
// organizations, biographies, birthdays, photos) project only their first
// entry.
func ContactFromPerson(person *people.Person) models.Contact {
	c := models.Contact{
		Emails:       []models.TypedValue{},
		Phones:       []models.TypedValue{},
		Addresses:    []models.Address{},
		URLs:         []models.TypedValue{},
		Relations:    []models.Relation{},
		Events:       []models.Event{},
		CustomFields: []models.KeyValue{},
		Groups:       []models.GroupRef{},
	}
	if person == nil {
		return c
	}

	c.ResourceName = person.ResourceName
	c.Etag = person.Etag

	if len(person.Names) > 0 {
		name := person.Names[0]
		c.GivenName = name.GivenName
		c.FamilyName = name.FamilyName
		c.DisplayName = name.DisplayName
		c.MiddleName = name.MiddleName
		c.HonorificPrefix = name.HonorificPrefix
		c.HonorificSuffix = name.HonorificSuffix
	}

	if len(person.Nicknames) > 0 {
		c.Nickname = person.Nicknames[0].Value
	}

	for _, email := range person.EmailAddresses {
		c.Emails = append(c.Emails, models.TypedValue{
			Value: email.Value,
			Type:  email.Type,
			Label: email.FormattedType,
		})
	}
	if len(c.Emails) > 0 {
		c.Email = c.Emails[0].Value
	}

	for _, phone := range person.PhoneNumbers {
		c.Phones = append(c.Phones, models.TypedValue{
			Value: phone.Value,
			Type:  phone.Type,
			Label: phone.FormattedType,
		})
	}
	if len(c.Phones) > 0 {
		c.Phone = c.Phones[0].Value
	}

	for _, addr := range person.Addresses {
		c.Addresses = append(c.Addresses, models.Address{
			Formatted:  addr.FormattedValue,
			Type:       addr.Type,
			Street:     addr.StreetAddress,
			City:       addr.City,
			Region:     addr.Region,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		})
	}

	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		c.Organization = org.Name
		c.JobTitle = org.Title
		c.Department = org.Department
	}

	if len(person.Birthdays) > 0 {
		c.Birthday = dateFromAPI(person.Birthdays[0].Date)
	}

	for _, url := range person.Urls {
		c.URLs = append(c.URLs, models.TypedValue{
			Value: url.Value,
			Type:  url.Type,
			Label: url.FormattedType,
		})
	}

	if len(person.Biographies) > 0 {
		c.Notes = person.Biographies[0].Value
	}

	for _, rel := range person.Relations {
		c.Relations = append(c.Relations, models.Relation{
			Person: rel.Person,
			Type:   rel.Type,
			Label:  rel.FormattedType,
		})
	}

	for _, event := range person.Events {
		c.Events = append(c.Events, models.Event{
			Type:  event.Type,
			Label: event.FormattedType,
			Date:  dateFromAPI(event.Date),
		})
	}

	for _, field := range person.UserDefined {
		c.CustomFields = append(c.CustomFields, models.KeyValue{
			Key:   field.Key,
			Value: field.Value,
		})
	}

	if len(person.Photos) > 0 {
		c.PhotoURL = person.Photos[0].Url
	}

	for _, membership := range person.Memberships {
		if membership.ContactGroupMembership == nil {
			continue
		}
		c.Groups = append(c.Groups, models.GroupRef{
			ResourceName: membership.ContactGroupMembership.ContactGroupResourceName,
		})
	}

	return c
}

// DirectoryPersonFromPerson converts a raw directory record into the
// read-only DirectoryPerson projection: first email, first phone, and
// department/title from the first organization entry only.
func DirectoryPersonFromPerson(person *people.Person) models.DirectoryPerson {
	d := models.DirectoryPerson{}
	if person == nil {
		return d
	}

	d.ResourceName = person.ResourceName

	if len(person.Names) > 0 {
		name := person.Names[0]
		d.GivenName = name.GivenName
		d.FamilyName = name.FamilyName
		d.DisplayName = name.DisplayName
	}
	if d.DisplayName == "" {
		d.DisplayName = strings.TrimSpace(d.GivenName + " " + d.FamilyName)
	}

	if len(person.EmailAddresses) > 0 {
		d.Email = person.EmailAddresses[0].Value
	}
	if len(person.PhoneNumbers) > 0 {
		d.Phone = person.PhoneNumbers[0].Value
	}

	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		d.Department = org.Department
		d.JobTitle = org.Title
	}

	return d
}

// dateFromAPI projects a provider date. A date without a year is kept
// (year stays zero); a date missing month or day is not emitted at all.
func dateFromAPI(date *people.Date) *models.Date {
	if date == nil || date.Month == 0 || date.Day == 0 {
		return nil
	}
	return &models.Date{
		Year:  date.Year,
		Month: date.Month,
		Day:   date.Day,
	}
}
