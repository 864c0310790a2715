// ABOUTME: Builds provider-shaped write payloads from sparse internal field sets
// ABOUTME: Merges against the current record and derives the changed field-group mask
package google

import (
	"sort"
	"strconv"
	"strings"

	"github.com/harperreed/contacts-mcp/models"
	"google.golang.org/api/people/v1"
)

// ContactFields is the sparse caller-supplied field set for create and
// update operations. Nil pointers and nil slices mean "not provided".
// Plural keys (Emails, Phones, Addresses, URLs) replace the whole provider
// group; their singular counterparts only replace the first entry,
// preserving the rest when the current record is supplied. That is the
// convention that distinguishes "set the primary" from "set the whole list".
type ContactFields struct {
	GivenName    *string
	FamilyName   *string
	Nickname     *string
	Email        *string
	Emails       []string
	Phone        *string
	Phones       []string
	Address      *string
	Addresses    []string
	Organization *string
	JobTitle     *string
	Birthday     *string // ISO date, YYYY-MM-DD
	Website      *string
	URLs         []string
	Notes        *string
	Relations    []models.Relation
	Events       []models.Event
	CustomFields []models.KeyValue
}

// BuildContactBody turns fields into a provider write payload. For updates,
// current supplies merge context so group-valued fields the caller did not
// touch are preserved. It returns the payload, the sorted set of provider
// field groups the payload changes, and any input keys that were dropped
// because their value could not be interpreted (currently only a malformed
// birthday — the provider write simply omits it rather than failing).
//
// An empty changed-group set means the caller supplied nothing recognized
// and an update built from this result must not issue a write.
func BuildContactBody(fields ContactFields, current *people.Person) (*people.Person, []string, []string) {
	body := &people.Person{}
	changed := map[string]bool{}
	var dropped []string

	touch := func(key string) { changed[updateFieldGroups[key]] = true }

	if fields.GivenName != nil || fields.FamilyName != nil {
		var names []*people.Name
		if current != nil && len(current.Names) > 0 {
			names = make([]*people.Name, len(current.Names))
			for i, name := range current.Names {
				copied := *name
				names[i] = &copied
			}
		}
		if len(names) == 0 {
			names = []*people.Name{{}}
		}
		if fields.GivenName != nil {
			names[0].GivenName = *fields.GivenName
			touch("given_name")
		}
		if fields.FamilyName != nil {
			names[0].FamilyName = *fields.FamilyName
			touch("family_name")
		}
		body.Names = names
	}

	if fields.Nickname != nil {
		body.Nicknames = []*people.Nickname{{Value: *fields.Nickname}}
		touch("nickname")
	}

	switch {
	case fields.Emails != nil:
		body.EmailAddresses = make([]*people.EmailAddress, 0, len(fields.Emails))
		for _, value := range fields.Emails {
			body.EmailAddresses = append(body.EmailAddresses, &people.EmailAddress{Value: value})
		}
		touch("emails")
	case fields.Email != nil:
		body.EmailAddresses = replaceFirstEmail(current, *fields.Email)
		touch("email")
	}

	switch {
	case fields.Phones != nil:
		body.PhoneNumbers = make([]*people.PhoneNumber, 0, len(fields.Phones))
		for _, value := range fields.Phones {
			body.PhoneNumbers = append(body.PhoneNumbers, &people.PhoneNumber{Value: value})
		}
		touch("phones")
	case fields.Phone != nil:
		body.PhoneNumbers = replaceFirstPhone(current, *fields.Phone)
		touch("phone")
	}

	switch {
	case fields.Addresses != nil:
		body.Addresses = make([]*people.Address, 0, len(fields.Addresses))
		for _, value := range fields.Addresses {
			body.Addresses = append(body.Addresses, &people.Address{FormattedValue: value})
		}
		touch("addresses")
	case fields.Address != nil:
		body.Addresses = []*people.Address{{FormattedValue: *fields.Address}}
		touch("address")
	}

	if fields.Organization != nil || fields.JobTitle != nil {
		org := &people.Organization{}
		if current != nil && len(current.Organizations) > 0 {
			copied := *current.Organizations[0]
			org = &copied
		}
		if fields.Organization != nil {
			org.Name = *fields.Organization
			touch("organization")
		}
		if fields.JobTitle != nil {
			org.Title = *fields.JobTitle
			touch("job_title")
		}
		body.Organizations = []*people.Organization{org}
	}

	if fields.Birthday != nil {
		if date, ok := parseISODate(*fields.Birthday); ok {
			body.Birthdays = []*people.Birthday{{Date: date}}
			touch("birthday")
		} else {
			dropped = append(dropped, "birthday")
		}
	}

	switch {
	case fields.URLs != nil:
		body.Urls = make([]*people.Url, 0, len(fields.URLs))
		for _, value := range fields.URLs {
			body.Urls = append(body.Urls, &people.Url{Value: value})
		}
		touch("urls")
	case fields.Website != nil:
		body.Urls = []*people.Url{{Value: *fields.Website}}
		touch("website")
	}

	if fields.Notes != nil {
		body.Biographies = []*people.Biography{{Value: *fields.Notes}}
		touch("notes")
	}

	if fields.Relations != nil {
		body.Relations = make([]*people.Relation, 0, len(fields.Relations))
		for _, rel := range fields.Relations {
			body.Relations = append(body.Relations, &people.Relation{
				Person: rel.Person,
				Type:   rel.Type,
			})
		}
		touch("relations")
	}

	if fields.Events != nil {
		body.Events = make([]*people.Event, 0, len(fields.Events))
		for _, event := range fields.Events {
			apiEvent := &people.Event{Type: event.Type}
			if event.Date != nil {
				apiEvent.Date = &people.Date{
					Year:  event.Date.Year,
					Month: event.Date.Month,
					Day:   event.Date.Day,
				}
			}
			body.Events = append(body.Events, apiEvent)
		}
		touch("events")
	}

	if fields.CustomFields != nil {
		body.UserDefined = make([]*people.UserDefined, 0, len(fields.CustomFields))
		for _, field := range fields.CustomFields {
			body.UserDefined = append(body.UserDefined, &people.UserDefined{
				Key:   field.Key,
				Value: field.Value,
			})
		}
		touch("custom_fields")
	}

	groups := make([]string, 0, len(changed))
	for group := range changed {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	return body, groups, dropped
}

// replaceFirstEmail keeps every existing email entry but sets the first
// one's value, or starts a fresh single-entry list.
func replaceFirstEmail(current *people.Person, value string) []*people.EmailAddress {
	if current != nil && len(current.EmailAddresses) > 0 {
		emails := make([]*people.EmailAddress, len(current.EmailAddresses))
		for i, email := range current.EmailAddresses {
			copied := *email
			emails[i] = &copied
		}
		emails[0].Value = value
		return emails
	}
	return []*people.EmailAddress{{Value: value}}
}

// replaceFirstPhone mirrors replaceFirstEmail for phone numbers.
func replaceFirstPhone(current *people.Person, value string) []*people.PhoneNumber {
	if current != nil && len(current.PhoneNumbers) > 0 {
		phones := make([]*people.PhoneNumber, len(current.PhoneNumbers))
		for i, phone := range current.PhoneNumbers {
			copied := *phone
			phones[i] = &copied
		}
		phones[0].Value = value
		return phones
	}
	return []*people.PhoneNumber{{Value: value}}
}

// parseISODate decomposes a YYYY-MM-DD string into a provider date.
func parseISODate(value string) (*people.Date, bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return nil, false
	}
	year, err1 := strconv.ParseInt(parts[0], 10, 64)
	month, err2 := strconv.ParseInt(parts[1], 10, 64)
	day, err3 := strconv.ParseInt(parts[2], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, false
	}
	return &people.Date{Year: year, Month: month, Day: day}, true
}
