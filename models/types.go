// ABOUTME: Internal flat data models for Google Contacts entities
// ABOUTME: Defines Contact, DirectoryPerson, ContactGroup, and their typed sub-records
package models

// TypedValue is a single entry of a multi-valued field such as an email
// address, phone number, or URL. Label is the human-readable variant of Type
// as reported by the provider.
type TypedValue struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
}

// Address is one postal address entry.
type Address struct {
	Formatted  string `json:"formatted,omitempty"`
	Type       string `json:"type,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Date is a calendar date where the year may be unknown (recurring
// birthdays and anniversaries are commonly stored without one).
type Date struct {
	Year  int64 `json:"year,omitempty"`
	Month int64 `json:"month"`
	Day   int64 `json:"day"`
}

// Relation links a contact to another person by name or resource.
type Relation struct {
	Person string `json:"person"`
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Event is a dated occasion attached to a contact, such as an anniversary.
type Event struct {
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
	Date  *Date  `json:"date,omitempty"`
}

// KeyValue is an opaque caller-owned pair, used for custom contact fields
// and for contact group client data.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GroupRef is a reference to a contact group a contact belongs to.
type GroupRef struct {
	ResourceName string `json:"resourceName"`
}

// Contact is the flat internal representation of a person record. Every
// slice field is always non-nil so callers can iterate unconditionally.
// Email and Phone mirror the first entry of Emails and Phones for callers
// that only want a primary value.
type Contact struct {
	ResourceName string `json:"resourceName"`
	Etag         string `json:"etag,omitempty"`

	GivenName       string `json:"givenName,omitempty"`
	FamilyName      string `json:"familyName,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	MiddleName      string `json:"middleName,omitempty"`
	HonorificPrefix string `json:"honorificPrefix,omitempty"`
	HonorificSuffix string `json:"honorificSuffix,omitempty"`
	Nickname        string `json:"nickname,omitempty"`

	Emails []TypedValue `json:"emails"`
	Email  string       `json:"email,omitempty"`
	Phones []TypedValue `json:"phones"`
	Phone  string       `json:"phone,omitempty"`

	Addresses []Address `json:"addresses"`

	Organization string `json:"organization,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
	Department   string `json:"department,omitempty"`

	Birthday *Date `json:"birthday,omitempty"`

	URLs         []TypedValue `json:"urls"`
	Notes        string       `json:"notes,omitempty"`
	Relations    []Relation   `json:"relations"`
	Events       []Event      `json:"events"`
	CustomFields []KeyValue   `json:"customFields"`

	PhotoURL string     `json:"photoUrl,omitempty"`
	Groups   []GroupRef `json:"groups"`
}

// DirectoryPerson is a read-only projection of a Google Workspace
// directory member. Unlike Contact it never fans out multi-valued groups.
type DirectoryPerson struct {
	ResourceName string `json:"resourceName"`
	GivenName    string `json:"givenName,omitempty"`
	FamilyName   string `json:"familyName,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Department   string `json:"department,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
}

// Contact group types as reported by the provider.
const (
	GroupTypeUser   = "USER_CONTACT_GROUP"
	GroupTypeSystem = "SYSTEM_CONTACT_GROUP"
)

// ContactGroup is the flat internal representation of a contact group.
// MemberResourceNames is only populated when members were explicitly
// requested; fetching members is a separate, more expensive read path.
type ContactGroup struct {
	ResourceName        string     `json:"resourceName"`
	Name                string     `json:"name"`
	FormattedName       string     `json:"formattedName,omitempty"`
	GroupType           string     `json:"groupType,omitempty"`
	MemberCount         int64      `json:"memberCount"`
	UpdateTime          string     `json:"updateTime,omitempty"`
	Deleted             bool       `json:"deleted,omitempty"`
	ClientData          []KeyValue `json:"clientData,omitempty"`
	MemberResourceNames []string   `json:"memberResourceNames,omitempty"`
}

// GroupMembershipResult reports the outcome of a group membership change.
// Partial failures are structural, never errors: NotFound lists identifiers
// the provider did not recognize, and CouldNotRemove lists contacts that
// would have been left with no group at all (the provider requires every
// contact to belong to at least one group).
type GroupMembershipResult struct {
	Success        bool     `json:"success"`
	Affected       int      `json:"affected"`
	NotFound       []string `json:"notFound,omitempty"`
	CouldNotRemove []string `json:"couldNotRemove,omitempty"`
}
