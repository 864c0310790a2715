// ABOUTME: Entry point for the Google Contacts MCP server and CLI
// ABOUTME: Routes to the MCP server or one-shot CLI commands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/contacts-mcp/cli"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version and exit")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("contacts-mcp version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	ctx := context.Background()
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(ctx, version); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "auth":
		if len(commandArgs) == 0 {
			fmt.Println("Error: auth requires a subcommand (init, status)")
			printUsage()
			os.Exit(1)
		}
		var err error
		switch commandArgs[0] {
		case "init":
			err = cli.AuthInitCommand(ctx, commandArgs[1:])
		case "status":
			err = cli.AuthStatusCommand(commandArgs[1:])
		default:
			err = fmt.Errorf("unknown auth subcommand: %s", commandArgs[0])
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "contacts":
		if len(commandArgs) == 0 {
			fmt.Println("Error: contacts requires a subcommand (list, search, get, create, delete)")
			printUsage()
			os.Exit(1)
		}
		var err error
		switch commandArgs[0] {
		case "list":
			err = cli.ListContactsCommand(ctx, commandArgs[1:])
		case "search":
			err = cli.SearchContactsCommand(ctx, commandArgs[1:])
		case "get":
			err = cli.GetContactCommand(ctx, commandArgs[1:])
		case "create":
			err = cli.CreateContactCommand(ctx, commandArgs[1:])
		case "delete":
			err = cli.DeleteContactCommand(ctx, commandArgs[1:])
		default:
			err = fmt.Errorf("unknown contacts subcommand: %s", commandArgs[0])
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "groups":
		if len(commandArgs) == 0 {
			fmt.Println("Error: groups requires a subcommand (list, get)")
			printUsage()
			os.Exit(1)
		}
		var err error
		switch commandArgs[0] {
		case "list":
			err = cli.ListGroupsCommand(ctx, commandArgs[1:])
		case "get":
			err = cli.GetGroupCommand(ctx, commandArgs[1:])
		default:
			err = fmt.Errorf("unknown groups subcommand: %s", commandArgs[0])
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`contacts-mcp - Google Contacts MCP server and CLI

Usage:
  contacts-mcp mcp                      Start the MCP server on stdio
  contacts-mcp auth init [-manual]      Run the interactive OAuth flow
  contacts-mcp auth status              Show stored token status
  contacts-mcp contacts list            List contacts
  contacts-mcp contacts search <query>  Search contacts
  contacts-mcp contacts get <id>        Get a contact by resource name or email
  contacts-mcp contacts create [flags]  Create a contact
  contacts-mcp contacts delete <id>     Delete a contact
  contacts-mcp groups list              List contact groups
  contacts-mcp groups get <id>          Get a contact group

Environment:
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET   OAuth client identity (required)
  GOOGLE_REFRESH_TOKEN                     Refresh secret for headless auth
  CONTACTS_MCP_TOKEN_PATH                  Token file override`)
}
