// ABOUTME: Field mask constants and the update-key to provider-group mapping
// ABOUTME: Defines which person field groups each read and write path touches
package google

import "strings"

// allPersonFields lists every person field group the provider tracks. Used
// for exhaustive reads (get, search, update merge context).
var allPersonFields = []string{
	"names",
	"emailAddresses",
	"phoneNumbers",
	"addresses",
	"birthdays",
	"organizations",
	"occupations",
	"urls",
	"biographies",
	"relations",
	"nicknames",
	"events",
	"userDefined",
	"sipAddresses",
	"imClients",
	"photos",
	"memberships",
	"miscKeywords",
	"interests",
	"skills",
	"braggingRights",
	"taglines",
	"coverPhotos",
	"locales",
	"externalIds",
}

const (
	// defaultListFields is the narrow mask for contact listing.
	defaultListFields = "names,emailAddresses,phoneNumbers,addresses,organizations,birthdays,urls,biographies,relations,nicknames"

	// defaultGetFields is the narrow mask for single-contact reads.
	defaultGetFields = "names,emailAddresses,phoneNumbers,addresses,organizations"

	// directoryFields is the mask for directory people; directory records
	// must not be assumed to carry the full contact shape.
	directoryFields = "names,emailAddresses,organizations,phoneNumbers"

	// otherContactFields is the mask for the "other contacts" listing.
	otherContactFields = "names,emailAddresses,phoneNumbers"
)

// allFieldsMask returns the exhaustive mask as a comma-joined string.
func allFieldsMask() string {
	return strings.Join(allPersonFields, ",")
}

// updateFieldGroups maps internal update keys to the provider field group
// they touch. Partial updates are scoped to exactly the groups derived from
// the caller's keys so untouched server-side data survives the write.
var updateFieldGroups = map[string]string{
	"given_name":    "names",
	"family_name":   "names",
	"nickname":      "nicknames",
	"email":         "emailAddresses",
	"emails":        "emailAddresses",
	"phone":         "phoneNumbers",
	"phones":        "phoneNumbers",
	"address":       "addresses",
	"addresses":     "addresses",
	"organization":  "organizations",
	"job_title":     "organizations",
	"birthday":      "birthdays",
	"website":       "urls",
	"urls":          "urls",
	"notes":         "biographies",
	"relations":     "relations",
	"events":        "events",
	"custom_fields": "userDefined",
}
