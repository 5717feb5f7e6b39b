package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/deeplink"
	"github.com/drydocklabs/mcpdock/pkg/installer"
)

var (
	deeplinkClientFlag string
	deeplinkParamFlags []string
	deeplinkOpen       bool
)

var deeplinkCmd = &cobra.Command{
	Use:   "deeplink [server]",
	Short: "Generate a one-click install link for an MCP server",
	Long: `Generate a deeplink that installs the server when opened in a client that
registers a URL scheme for adding MCP servers.

The link embeds the fully resolved server entry, so parameters the server
requires must be supplied with --param.

Examples:

	mcpdock deeplink github --param api_key=ghp_xxx
	mcpdock deeplink filesystem --client vscode --param path=/tmp --open`,
	Args: cobra.ExactArgs(1),
	RunE: deeplinkCmdFunc,
}

func init() {
	rootCmd.AddCommand(deeplinkCmd)

	deeplinkCmd.Flags().StringVar(&deeplinkClientFlag, "client", "cursor", "Link target, one of: cursor, vscode, vscode-insider")
	deeplinkCmd.Flags().StringArrayVar(&deeplinkParamFlags, "param", nil, "Parameter value as name=value (repeatable)")
	deeplinkCmd.Flags().BoolVar(&deeplinkOpen, "open", false, "Open the link with the operating system's URL handler")
}

func deeplinkCmdFunc(_ *cobra.Command, args []string) error {
	serverID := args[0]

	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	server, err := provider.GetServer(serverID)
	if err != nil {
		return fmt.Errorf("failed to get server information: %w", err)
	}

	params, err := parseParamFlags(deeplinkParamFlags)
	if err != nil {
		return err
	}

	resolved, err := installer.ResolveParameters(server, params)
	if err != nil {
		return err
	}

	entry, err := installer.BuildServerEntry(server, resolved)
	if err != nil {
		return err
	}

	var link string
	switch deeplinkClientFlag {
	case "cursor":
		link, err = deeplink.CursorInstallLink(server.ID, entry)
	case "vscode":
		link, err = deeplink.VSCodeInstallLink(server.ID, entry)
	case "vscode-insider":
		link, err = deeplink.VSCodeInsidersInstallLink(server.ID, entry)
	default:
		return fmt.Errorf("client %q does not support install links (supported: cursor, vscode, vscode-insider)", deeplinkClientFlag)
	}
	if err != nil {
		return fmt.Errorf("failed to build install link: %w", err)
	}

	fmt.Println(link)

	if deeplinkOpen {
		if err := deeplink.Open(link); err != nil {
			return fmt.Errorf("failed to open install link: %w", err)
		}
	}
	return nil
}
