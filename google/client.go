// ABOUTME: Contact repository orchestration over the People API
// ABOUTME: Handles pagination, search fallback, scoped updates, and directory reads
package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/harperreed/contacts-mcp/models"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const (
	defaultMaxResults = 100
	searchPageLimit   = 50 // provider limit for searchContacts
	listPageLimit     = 1000
)

var directorySources = []string{
	"DIRECTORY_SOURCE_TYPE_DOMAIN_CONTACT",
	"DIRECTORY_SOURCE_TYPE_DOMAIN_PROFILE",
}

// defaultSearchFields is the field set the client-side search fallback
// matches against when the caller does not narrow it.
var defaultSearchFields = []string{
	"displayName", "givenName", "familyName", "nickname",
	"emails", "phones", "organization", "jobTitle",
}

// Service exposes contact, group, and directory operations against the
// Google People API. Construct one per process and share it; the
// underlying session handle lives for the Service's lifetime.
type Service struct {
	api *people.Service
}

// NewService builds a Service on top of an authenticated session.
func NewService(ctx context.Context, auth *Authenticator) (*Service, error) {
	api, err := auth.People(ctx)
	if err != nil {
		return nil, err
	}
	return &Service{api: api}, nil
}

// NewServiceFromEnv builds a Service using environment configuration,
// running the credential lifecycle on first use.
func NewServiceFromEnv(ctx context.Context) (*Service, error) {
	return NewService(ctx, NewAuthenticator(AuthConfigFromEnv()))
}

// NewServiceWithOptions builds a Service with explicit client options,
// bypassing the credential lifecycle. Used for custom transports.
func NewServiceWithOptions(ctx context.Context, opts ...option.ClientOption) (*Service, error) {
	api, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return &Service{api: api}, nil
}

// ListContactsOptions controls ListContacts.
type ListContactsOptions struct {
	// NameFilter is a case-insensitive substring applied client-side to
	// name-related fields after normalization; it is not part of the
	// provider query.
	NameFilter string
	MaxResults int64
	AllFields  bool
}

// ListContacts pages through the user's contacts until MaxResults is
// reached or the provider reports no further page.
func (s *Service) ListContacts(ctx context.Context, opts ListContactsOptions) ([]models.Contact, error) {
	max := opts.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}
	mask := defaultListFields
	if opts.AllFields {
		mask = allFieldsMask()
	}

	contacts := []models.Contact{}
	pageToken := ""

	for int64(len(contacts)) < max {
		pageSize := max - int64(len(contacts))
		if pageSize > listPageLimit {
			pageSize = listPageLimit
		}

		call := s.api.People.Connections.List("people/me").
			PageSize(pageSize).
			PersonFields(mask).
			SortOrder("DISPLAY_NAME_ASCENDING").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
		if resp == nil || len(resp.Connections) == 0 {
			break
		}

		for _, person := range resp.Connections {
			contact := ContactFromPerson(person)
			if opts.NameFilter != "" && !matchesNameFilter(contact, opts.NameFilter) {
				continue
			}
			contacts = append(contacts, contact)
			if int64(len(contacts)) >= max {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return contacts, nil
}

// SearchContacts tries the provider-native search first. If that specific
// call fails, it falls back to fetching three times the requested maximum
// unfiltered and matching client-side across searchFields (nil selects the
// default field set). Matches keep first-occurrence order.
func (s *Service) SearchContacts(ctx context.Context, query string, maxResults int64, searchFields []string) ([]models.Contact, error) {
	if maxResults <= 0 {
		maxResults = searchPageLimit
	}
	pageSize := maxResults
	if pageSize > searchPageLimit {
		pageSize = searchPageLimit
	}

	resp, err := s.api.People.SearchContacts().
		Query(query).
		ReadMask(allFieldsMask()).
		PageSize(pageSize).
		Context(ctx).
		Do()
	if err != nil {
		// Only a failure of the search call itself triggers the fallback;
		// errors on any other path propagate normally.
		log.Printf("search API unavailable, falling back to client-side search: %v", err)
		return s.fallbackSearch(ctx, query, maxResults, searchFields)
	}

	contacts := []models.Contact{}
	for _, result := range resp.Results {
		if result.Person == nil {
			continue
		}
		contacts = append(contacts, ContactFromPerson(result.Person))
		if int64(len(contacts)) >= maxResults {
			break
		}
	}
	return contacts, nil
}

func (s *Service) fallbackSearch(ctx context.Context, query string, maxResults int64, searchFields []string) ([]models.Contact, error) {
	all, err := s.ListContacts(ctx, ListContactsOptions{
		MaxResults: maxResults * 3,
		AllFields:  true,
	})
	if err != nil {
		return nil, err
	}

	if len(searchFields) == 0 {
		searchFields = defaultSearchFields
	}

	matches := []models.Contact{}
	for _, contact := range all {
		if contactMatches(contact, query, searchFields) {
			matches = append(matches, contact)
			if int64(len(matches)) >= maxResults {
				break
			}
		}
	}
	return matches, nil
}

// GetContact fetches a contact by resource name, or by email by degrading
// to a single-result search. A missing match reports ErrNotFound.
func (s *Service) GetContact(ctx context.Context, identifier string, allFields bool) (models.Contact, error) {
	if strings.HasPrefix(identifier, "people/") {
		mask := defaultGetFields
		if allFields {
			mask = allFieldsMask()
		}
		person, err := s.api.People.Get(identifier).PersonFields(mask).Context(ctx).Do()
		if err != nil {
			if statusCode(err) == http.StatusNotFound {
				return models.Contact{}, fmt.Errorf("%w: %s", ErrNotFound, identifier)
			}
			return models.Contact{}, fmt.Errorf("failed to get contact: %w", err)
		}
		return ContactFromPerson(person), nil
	}

	contacts, err := s.SearchContacts(ctx, identifier, 1, nil)
	if err != nil {
		return models.Contact{}, err
	}
	if len(contacts) == 0 {
		return models.Contact{}, fmt.Errorf("%w: %s", ErrNotFound, identifier)
	}
	return contacts[0], nil
}

// CreateContact builds a write payload from fields and creates the
// contact. The second return value lists input keys dropped because their
// values could not be interpreted.
func (s *Service) CreateContact(ctx context.Context, fields ContactFields) (models.Contact, []string, error) {
	body, _, dropped := BuildContactBody(fields, nil)

	person, err := s.api.People.CreateContact(body).Context(ctx).Do()
	if err != nil {
		return models.Contact{}, dropped, fmt.Errorf("failed to create contact: %w", err)
	}
	return ContactFromPerson(person), dropped, nil
}

// UpdateContact fetches the current record for its etag and merge context,
// then writes only the field groups the caller touched. If the caller
// supplied nothing recognized the update is a no-op returning the current
// record unmodified. A vanished record reports ErrNotFound.
func (s *Service) UpdateContact(ctx context.Context, resourceName string, fields ContactFields) (models.Contact, []string, error) {
	current, err := s.api.People.Get(resourceName).PersonFields(allFieldsMask()).Context(ctx).Do()
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return models.Contact{}, nil, fmt.Errorf("%w: %s", ErrNotFound, resourceName)
		}
		return models.Contact{}, nil, fmt.Errorf("failed to fetch contact for update: %w", err)
	}

	body, groups, dropped := BuildContactBody(fields, current)
	if len(groups) == 0 {
		return ContactFromPerson(current), dropped, nil
	}

	body.ResourceName = resourceName
	body.Etag = current.Etag

	updated, err := s.api.People.UpdateContact(resourceName, body).
		UpdatePersonFields(strings.Join(groups, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return models.Contact{}, dropped, fmt.Errorf("failed to update contact: %w", err)
	}
	return ContactFromPerson(updated), dropped, nil
}

// DeleteContact removes a contact by resource name.
func (s *Service) DeleteContact(ctx context.Context, resourceName string) error {
	if _, err := s.api.People.DeleteContact(resourceName).Context(ctx).Do(); err != nil {
		if statusCode(err) == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, resourceName)
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// ListOtherContacts lists the "other contacts" section: people the user
// has interacted with but never added.
func (s *Service) ListOtherContacts(ctx context.Context, maxResults int64) ([]models.Contact, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := s.api.OtherContacts.List().
		ReadMask(otherContactFields).
		PageSize(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list other contacts: %w", err)
	}

	contacts := []models.Contact{}
	for _, person := range resp.OtherContacts {
		contacts = append(contacts, ContactFromPerson(person))
	}
	return contacts, nil
}

// ListDirectoryPeople lists Workspace directory members, optionally
// filtered by a provider-side query. A 403 means the account has no
// directory; that yields an empty result, not an error.
func (s *Service) ListDirectoryPeople(ctx context.Context, query string, maxResults int64) ([]models.DirectoryPerson, error) {
	if maxResults <= 0 {
		maxResults = searchPageLimit
	}

	var (
		apiPeople []*people.Person
		err       error
	)
	if query != "" {
		var resp *people.SearchDirectoryPeopleResponse
		resp, err = s.api.People.SearchDirectoryPeople().
			Query(query).
			ReadMask(directoryFields).
			Sources(directorySources...).
			PageSize(maxResults).
			Context(ctx).
			Do()
		if resp != nil {
			apiPeople = resp.People
		}
	} else {
		var resp *people.ListDirectoryPeopleResponse
		resp, err = s.api.People.ListDirectoryPeople().
			ReadMask(directoryFields).
			Sources(directorySources...).
			PageSize(maxResults).
			Context(ctx).
			Do()
		if resp != nil {
			apiPeople = resp.People
		}
	}
	if err != nil {
		if statusCode(err) == http.StatusForbidden {
			log.Printf("directory access forbidden; this may not be a Workspace account")
			return []models.DirectoryPerson{}, nil
		}
		return nil, fmt.Errorf("failed to list directory people: %w", err)
	}

	results := []models.DirectoryPerson{}
	for _, person := range apiPeople {
		results = append(results, DirectoryPersonFromPerson(person))
	}
	return results, nil
}

// SearchDirectory searches Workspace directory members.
func (s *Service) SearchDirectory(ctx context.Context, query string, maxResults int64) ([]models.DirectoryPerson, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	return s.ListDirectoryPeople(ctx, query, maxResults)
}

// ListContactsByGroup fetches a group's members and resolves each into a
// full contact. Members that vanished between the two reads are skipped.
func (s *Service) ListContactsByGroup(ctx context.Context, groupResourceName string, maxResults int64) ([]models.Contact, error) {
	if maxResults <= 0 {
		maxResults = searchPageLimit
	}

	group, err := s.GetContactGroup(ctx, groupResourceName, maxResults)
	if err != nil {
		return nil, err
	}

	contacts := []models.Contact{}
	for _, member := range group.MemberResourceNames {
		if int64(len(contacts)) >= maxResults {
			break
		}
		contact, err := s.GetContact(ctx, member, true)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func matchesNameFilter(contact models.Contact, filter string) bool {
	for _, value := range []string{
		contact.DisplayName, contact.GivenName, contact.FamilyName, contact.Nickname,
	} {
		if containsFold(value, filter) {
			return true
		}
	}
	return false
}

func contactMatches(contact models.Contact, query string, fields []string) bool {
	for _, field := range fields {
		switch field {
		case "displayName":
			if containsFold(contact.DisplayName, query) {
				return true
			}
		case "givenName":
			if containsFold(contact.GivenName, query) {
				return true
			}
		case "familyName":
			if containsFold(contact.FamilyName, query) {
				return true
			}
		case "nickname":
			if containsFold(contact.Nickname, query) {
				return true
			}
		case "email":
			if containsFold(contact.Email, query) {
				return true
			}
		case "emails":
			for _, email := range contact.Emails {
				if containsFold(email.Value, query) {
					return true
				}
			}
		case "phone":
			if containsFold(contact.Phone, query) {
				return true
			}
		case "phones":
			for _, phone := range contact.Phones {
				if containsFold(phone.Value, query) {
					return true
				}
			}
		case "organization":
			if containsFold(contact.Organization, query) {
				return true
			}
		case "jobTitle":
			if containsFold(contact.JobTitle, query) {
				return true
			}
		case "notes":
			if containsFold(contact.Notes, query) {
				return true
			}
		}
	}
	return false
}

func containsFold(value, substr string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}
