package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/cmd/mcpdock/app/ui"
	"github.com/drydocklabs/mcpdock/pkg/client"
)

const validClientsHelp = `Valid clients:
  - claude-code: Claude Code CLI
  - claude-desktop: Claude desktop app
  - cline: Cline extension for VS Code
  - codex: Codex CLI
  - cursor: Cursor editor
  - goose: Goose CLI agent
  - roo-code: Roo Code extension for VS Code
  - vscode: Visual Studio Code
  - vscode-insider: Visual Studio Code Insiders edition
  - windsurf: Windsurf IDE`

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage MCP clients",
	Long:  "The clients command provides subcommands to manage MCP client integrations.",
}

var clientsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"status"},
	Short:   "Show status of all supported MCP clients",
	Long:    "Display the installation and registration status of all supported MCP clients in a table format.",
	RunE:    clientsListCmdFunc,
}

var clientsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively register installed clients",
	Long:  `Presents a list of installed but unregistered clients for interactive selection and registration.`,
	RunE:  clientsSetupCmdFunc,
}

var clientsRegisterCmd = &cobra.Command{
	Use:   "register [client]",
	Short: "Register a client for MCP server configuration",
	Long:  "Register a client for MCP server configuration.\n\n" + validClientsHelp,
	Args:  cobra.ExactArgs(1),
	RunE:  clientsRegisterCmdFunc,
}

var clientsRemoveCmd = &cobra.Command{
	Use:   "remove [client]",
	Short: "Remove a client from MCP server configuration",
	Long:  "Remove a client from MCP server configuration.\n\n" + validClientsHelp,
	Args:  cobra.ExactArgs(1),
	RunE:  clientsRemoveCmdFunc,
}

var clientsListRegisteredCmd = &cobra.Command{
	Use:   "list-registered",
	Short: "List all registered MCP clients",
	Long:  "List all clients that are registered for MCP server configuration.",
	RunE:  clientsListRegisteredCmdFunc,
}

func init() {
	rootCmd.AddCommand(clientsCmd)

	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsSetupCmd)
	clientsCmd.AddCommand(clientsRegisterCmd)
	clientsCmd.AddCommand(clientsRemoveCmd)
	clientsCmd.AddCommand(clientsListRegisteredCmd)
}

func clientsListCmdFunc(_ *cobra.Command, _ []string) error {
	clientStatuses, err := client.GetClientStatus()
	if err != nil {
		return fmt.Errorf("failed to get client status: %w", err)
	}
	return ui.RenderClientStatusTable(clientStatuses)
}

func clientsSetupCmdFunc(_ *cobra.Command, _ []string) error {
	clientStatuses, err := client.GetClientStatus()
	if err != nil {
		return fmt.Errorf("failed to get client status: %w", err)
	}

	availableClients := getAvailableClients(clientStatuses)
	if len(availableClients) == 0 {
		fmt.Println("No new clients found.")
		return nil
	}

	selectedClients, confirmed, err := ui.RunClientSetup(availableClients)
	if err != nil {
		return fmt.Errorf("error running interactive setup: %w", err)
	}
	if !confirmed {
		fmt.Println("Setup cancelled. No clients registered.")
		return nil
	}
	if len(selectedClients) == 0 {
		fmt.Println("No clients selected for registration.")
		return nil
	}

	return registerSelectedClients(selectedClients)
}

// Helper to get available (installed but unregistered) clients
func getAvailableClients(statuses []client.MCPClientStatus) []client.MCPClientStatus {
	var available []client.MCPClientStatus
	for _, s := range statuses {
		if s.Installed && !s.Registered {
			available = append(available, s)
		}
	}
	return available
}

// Helper to register selected clients
func registerSelectedClients(clientsToRegister []client.MCPClientStatus) error {
	clients := make([]client.Client, len(clientsToRegister))
	for i, cli := range clientsToRegister {
		clients[i] = client.Client{Name: cli.ClientType}
	}

	if err := client.NewManager().RegisterClients(clients); err != nil {
		return fmt.Errorf("failed to register clients: %w", err)
	}

	for _, cli := range clients {
		fmt.Printf("Successfully registered client: %s\n", cli.Name)
	}
	return nil
}

func clientsRegisterCmdFunc(_ *cobra.Command, args []string) error {
	clientType, err := client.ParseClient(args[0])
	if err != nil {
		return err
	}

	manager := client.NewManager()
	if err := manager.RegisterClients([]client.Client{{Name: clientType}}); err != nil {
		return fmt.Errorf("failed to register client %s: %w", clientType, err)
	}

	fmt.Printf("Successfully registered client: %s\n", clientType)
	return nil
}

func clientsRemoveCmdFunc(_ *cobra.Command, args []string) error {
	clientType, err := client.ParseClient(args[0])
	if err != nil {
		return err
	}

	manager := client.NewManager()
	if err := manager.UnregisterClients([]client.Client{{Name: clientType}}); err != nil {
		return fmt.Errorf("failed to remove client %s: %w", clientType, err)
	}

	fmt.Printf("Successfully removed client: %s\n", clientType)
	return nil
}

func clientsListRegisteredCmdFunc(_ *cobra.Command, _ []string) error {
	registered, err := client.NewManager().ListClients()
	if err != nil {
		return fmt.Errorf("failed to list registered clients: %w", err)
	}
	return ui.RenderRegisteredClientsTable(registered)
}
