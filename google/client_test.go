// ABOUTME: Tests for the contact repository against a local HTTP fixture
// ABOUTME: Covers pagination, search fallback, scoped updates, and degraded directory access
package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewServiceWithOptions(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return svc
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func namedPerson(resourceName, displayName string) *people.Person {
	return &people.Person{
		ResourceName: resourceName,
		Names:        []*people.Name{{DisplayName: displayName}},
	}
}

func TestListContactsPagination(t *testing.T) {
	var calls int
	var pageSizes []string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/me/connections", func(w http.ResponseWriter, r *http.Request) {
		calls++
		pageSizes = append(pageSizes, r.URL.Query().Get("pageSize"))

		// Three pages of two records each.
		pages := map[string]*people.ListConnectionsResponse{
			"": {
				Connections:   []*people.Person{namedPerson("people/a1", "Alice"), namedPerson("people/a2", "Bob")},
				NextPageToken: "t2",
			},
			"t2": {
				Connections:   []*people.Person{namedPerson("people/a3", "Carol"), namedPerson("people/a4", "Dave")},
				NextPageToken: "t3",
			},
			"t3": {
				Connections: []*people.Person{namedPerson("people/a5", "Erin"), namedPerson("people/a6", "Frank")},
			},
		}
		page, ok := pages[r.URL.Query().Get("pageToken")]
		if !ok {
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(t, w, page)
	})

	svc := newTestService(t, mux)
	contacts, err := svc.ListContacts(context.Background(), ListContactsOptions{MaxResults: 5})
	require.NoError(t, err)

	require.Len(t, contacts, 5)
	assert.Equal(t, "Alice", contacts[0].DisplayName)
	assert.Equal(t, "Erin", contacts[4].DisplayName)

	// The cap is honored mid-page: three fetches, each asking only for
	// what remains.
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"5", "3", "1"}, pageSizes)
}

func TestListContactsNameFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/me/connections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &people.ListConnectionsResponse{
			Connections: []*people.Person{
				namedPerson("people/a1", "Alice Smith"),
				namedPerson("people/a2", "Bob Jones"),
				namedPerson("people/a3", "ALICIA"),
			},
		})
	})

	svc := newTestService(t, mux)
	contacts, err := svc.ListContacts(context.Background(), ListContactsOptions{NameFilter: "ali"})
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Alice Smith", contacts[0].DisplayName)
	assert.Equal(t, "ALICIA", contacts[1].DisplayName)
}

func TestSearchContactsNative(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:searchContacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "smith", r.URL.Query().Get("query"))
		writeJSON(t, w, &people.SearchResponse{
			Results: []*people.SearchResult{
				{Person: namedPerson("people/a1", "Alice Smith")},
				{Person: nil}, // provider sometimes pads results
				{Person: namedPerson("people/a2", "Adam Smith")},
			},
		})
	})

	svc := newTestService(t, mux)
	contacts, err := svc.SearchContacts(context.Background(), "smith", 10, nil)
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Alice Smith", contacts[0].DisplayName)
	assert.Equal(t, "Adam Smith", contacts[1].DisplayName)
}

func TestSearchContactsFallback(t *testing.T) {
	var listPageSize string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:searchContacts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/v1/people/me/connections", func(w http.ResponseWriter, r *http.Request) {
		listPageSize = r.URL.Query().Get("pageSize")
		writeJSON(t, w, &people.ListConnectionsResponse{
			Connections: []*people.Person{
				namedPerson("people/a1", "Alice Smith"),
				namedPerson("people/a2", "Bob Jones"),
				namedPerson("people/a3", "ALINA"),
				namedPerson("people/a4", "Carol"),
			},
		})
	})

	svc := newTestService(t, mux)
	contacts, err := svc.SearchContacts(context.Background(), "ali", 5, nil)
	require.NoError(t, err)

	// The fallback over-fetches to compensate for client-side filtering.
	assert.Equal(t, "15", listPageSize)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Alice Smith", contacts[0].DisplayName)
	assert.Equal(t, "ALINA", contacts[1].DisplayName)
}

func TestGetContactByResourceName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/c1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultGetFields, r.URL.Query().Get("personFields"))
		writeJSON(t, w, namedPerson("people/c1", "Ada Lovelace"))
	})

	svc := newTestService(t, mux)
	contact, err := svc.GetContact(context.Background(), "people/c1", false)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", contact.DisplayName)
}

func TestGetContactNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	svc := newTestService(t, mux)
	_, err := svc.GetContact(context.Background(), "people/gone", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetContactByEmailNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:searchContacts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &people.SearchResponse{})
	})

	svc := newTestService(t, mux)
	_, err := svc.GetContact(context.Background(), "nobody@example.com", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateContactScopedMask(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/c1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &people.Person{
			ResourceName: "people/c1",
			Etag:         "etag-7",
			Names:        []*people.Name{{DisplayName: "Ada Lovelace", GivenName: "Ada"}},
		})
	})
	mux.HandleFunc("/v1/people/c1:updateContact", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "nicknames", r.URL.Query().Get("updatePersonFields"))

		var body people.Person
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "etag-7", body.Etag)
		require.Len(t, body.Nicknames, 1)

		writeJSON(t, w, &people.Person{
			ResourceName: "people/c1",
			Names:        []*people.Name{{DisplayName: "Ada Lovelace"}},
			Nicknames:    []*people.Nickname{{Value: body.Nicknames[0].Value}},
		})
	})

	svc := newTestService(t, mux)
	contact, dropped, err := svc.UpdateContact(context.Background(), "people/c1", ContactFields{
		Nickname: strptr("Countess"),
	})
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "Countess", contact.Nickname)
}

func TestUpdateContactNoRecognizedFieldsSkipsWrite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people/c1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, namedPerson("people/c1", "Ada Lovelace"))
	})
	mux.HandleFunc("/v1/people/c1:updateContact", func(w http.ResponseWriter, r *http.Request) {
		t.Error("update issued for an empty field set")
		w.WriteHeader(http.StatusBadRequest)
	})

	svc := newTestService(t, mux)
	contact, dropped, err := svc.UpdateContact(context.Background(), "people/c1", ContactFields{
		Birthday: strptr("not-a-date"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"birthday"}, dropped)
	assert.Equal(t, "Ada Lovelace", contact.DisplayName)
}

func TestCreateContact(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:createContact", func(w http.ResponseWriter, r *http.Request) {
		var body people.Person
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body.ResourceName = "people/new1"
		writeJSON(t, w, &body)
	})

	svc := newTestService(t, mux)
	contact, dropped, err := svc.CreateContact(context.Background(), ContactFields{
		GivenName: strptr("Grace"),
		Email:     strptr("grace@example.com"),
	})
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "people/new1", contact.ResourceName)
	assert.Equal(t, "Grace", contact.GivenName)
	assert.Equal(t, "grace@example.com", contact.Email)
}

func TestListOtherContacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/otherContacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, otherContactFields, r.URL.Query().Get("readMask"))
		writeJSON(t, w, &people.ListOtherContactsResponse{
			OtherContacts: []*people.Person{namedPerson("otherContacts/x1", "Stranger")},
		})
	})

	svc := newTestService(t, mux)
	contacts, err := svc.ListOtherContacts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Stranger", contacts[0].DisplayName)
}

func TestListDirectoryPeopleForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:listDirectoryPeople", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	svc := newTestService(t, mux)
	results, err := svc.ListDirectoryPeople(context.Background(), "", 10)

	// No directory access is a normal condition for consumer accounts.
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Len(t, results, 0)
}

func TestListDirectoryPeopleQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/people:searchDirectoryPeople", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "grace", r.URL.Query().Get("query"))
		assert.ElementsMatch(t, directorySources, r.URL.Query()["sources"])
		writeJSON(t, w, &people.SearchDirectoryPeopleResponse{
			People: []*people.Person{namedPerson("people/d1", "Grace Hopper")},
		})
	})

	svc := newTestService(t, mux)
	results, err := svc.ListDirectoryPeople(context.Background(), "grace", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Grace Hopper", results[0].DisplayName)
}

func TestListContactsByGroupSkipsVanishedMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/contactGroups/g1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, &people.ContactGroup{
			ResourceName:        "contactGroups/g1",
			Name:                "Friends",
			GroupType:           "USER_CONTACT_GROUP",
			MemberResourceNames: []string{"people/m1", "people/m2"},
		})
	})
	mux.HandleFunc("/v1/people/m1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, namedPerson("people/m1", "Alice"))
	})
	mux.HandleFunc("/v1/people/m2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	svc := newTestService(t, mux)
	contacts, err := svc.ListContactsByGroup(context.Background(), "contactGroups/g1", 10)
	require.NoError(t, err)

	require.Len(t, contacts, 1)
	assert.Equal(t, "Alice", contacts[0].DisplayName)
}

func TestContactMatchesFieldSelection(t *testing.T) {
	contact := ContactFromPerson(&people.Person{
		Names:          []*people.Name{{DisplayName: "Ada Lovelace"}},
		EmailAddresses: []*people.EmailAddress{{Value: "ada@engines.example"}},
		Organizations:  []*people.Organization{{Name: "Analytical Engines"}},
	})

	assert.True(t, contactMatches(contact, "engines.example", []string{"emails"}))
	assert.False(t, contactMatches(contact, "engines.example", []string{"displayName"}))
	assert.True(t, contactMatches(contact, "analytical", []string{"organization"}))
	assert.False(t, strings.Contains(contact.DisplayName, "engines"))
}
