// ABOUTME: Contact group CLI commands
// ABOUTME: One-shot group listing and inspection
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/contacts-mcp/format"
)

// ListGroupsCommand lists contact groups.
func ListGroupsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	includeSystem := fs.Bool("system", false, "Include provider-managed system groups")
	_ = fs.Parse(args)

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	groups, err := svc.ListContactGroups(ctx, *includeSystem)
	if err != nil {
		return err
	}

	fmt.Println(format.ContactGroupsList(groups))
	return nil
}

// GetGroupCommand fetches one group, optionally with members.
func GetGroupCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	maxMembers := fs.Int64("members", 0, "Maximum member resource names to include (0 for metadata only)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: groups get [flags] <resource-name>")
	}

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	group, err := svc.GetContactGroup(ctx, fs.Arg(0), *maxMembers)
	if err != nil {
		return err
	}

	fmt.Println(format.ContactGroup(group))
	return nil
}
