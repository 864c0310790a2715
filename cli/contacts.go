// ABOUTME: Contact CLI commands
// ABOUTME: One-shot list, search, get, create, update, and delete operations
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/contacts-mcp/format"
	"github.com/harperreed/contacts-mcp/google"
)

func newService(ctx context.Context) (*google.Service, error) {
	cfg := google.AuthConfigFromEnv()
	cfg.OnNewRefreshToken = func(refreshToken string) {
		// Stderr, so the secret never mixes into pipeable command output.
		fmt.Fprintln(os.Stderr, "\nNew refresh token obtained. Consider setting this in your environment:")
		fmt.Fprintf(os.Stderr, "GOOGLE_REFRESH_TOKEN=%s\n\n", refreshToken)
	}
	return google.NewService(ctx, google.NewAuthenticator(cfg))
}

// ListContactsCommand lists contacts with an optional name filter.
func ListContactsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	nameFilter := fs.String("filter", "", "Case-insensitive substring filter on name fields")
	maxResults := fs.Int64("max", 100, "Maximum number of results")
	allFields := fs.Bool("all-fields", false, "Include extended fields")
	_ = fs.Parse(args)

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	contacts, err := svc.ListContacts(ctx, google.ListContactsOptions{
		NameFilter: *nameFilter,
		MaxResults: *maxResults,
		AllFields:  *allFields,
	})
	if err != nil {
		return err
	}

	fmt.Println(format.ContactsList(contacts))
	return nil
}

// SearchContactsCommand searches contacts by an arbitrary term.
func SearchContactsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	maxResults := fs.Int64("max", 50, "Maximum number of results")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: contacts search [flags] <query>")
	}
	query := fs.Arg(0)

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	contacts, err := svc.SearchContacts(ctx, query, *maxResults, nil)
	if err != nil {
		return err
	}

	if len(contacts) == 0 {
		fmt.Printf("No contacts found matching %q.\n", query)
		return nil
	}
	fmt.Printf("Search results for %q:\n\n%s\n", query, format.ContactsList(contacts))
	return nil
}

// GetContactCommand fetches one contact by resource name or email.
func GetContactCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: contacts get <resource-name-or-email>")
	}

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	contact, err := svc.GetContact(ctx, fs.Arg(0), true)
	if err != nil {
		return err
	}

	fmt.Println(format.Contact(contact))
	return nil
}

// CreateContactCommand creates a contact from flag-supplied fields.
func CreateContactCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	givenName := fs.String("given-name", "", "First name")
	familyName := fs.String("family-name", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	organization := fs.String("organization", "", "Company or organization")
	jobTitle := fs.String("job-title", "", "Job title")
	birthday := fs.String("birthday", "", "Birthday as YYYY-MM-DD")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	fields := google.ContactFields{}
	set := func(dst **string, value string) {
		if value != "" {
			*dst = &value
		}
	}
	set(&fields.GivenName, *givenName)
	set(&fields.FamilyName, *familyName)
	set(&fields.Email, *email)
	set(&fields.Phone, *phone)
	set(&fields.Organization, *organization)
	set(&fields.JobTitle, *jobTitle)
	set(&fields.Birthday, *birthday)
	set(&fields.Notes, *notes)

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	contact, dropped, err := svc.CreateContact(ctx, fields)
	if err != nil {
		return err
	}
	for _, key := range dropped {
		fmt.Printf("⚠️  %s value could not be parsed and was ignored\n", key)
	}

	fmt.Println("✓ Created contact:")
	fmt.Println(format.Contact(contact))
	return nil
}

// DeleteContactCommand deletes a contact by resource name.
func DeleteContactCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: contacts delete <resource-name>")
	}
	resourceName := fs.Arg(0)

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	if err := svc.DeleteContact(ctx, resourceName); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted contact: %s\n", resourceName)
	return nil
}
