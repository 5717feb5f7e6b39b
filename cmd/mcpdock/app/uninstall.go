package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/installer"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

var (
	uninstallClientFlag string
	uninstallYes        bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [server]",
	Short: "Remove an MCP server from a client configuration",
	Long: `Remove a server's entry from an MCP client's configuration file.

Other entries in the file are left untouched. Removing a server that is
not configured is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: uninstallCmdFunc,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)

	uninstallCmd.Flags().StringVar(&uninstallClientFlag, "client", "", "Client whose configuration to remove the server from")
	uninstallCmd.Flags().BoolVar(&uninstallYes, "yes", false, "Skip the confirmation prompt")

	if err := uninstallCmd.MarkFlagRequired("client"); err != nil {
		logger.Warnf("Warning: Failed to mark flag as required: %v", err)
	}
}

func uninstallCmdFunc(_ *cobra.Command, args []string) error {
	serverID := args[0]

	clientType, err := client.ParseClient(uninstallClientFlag)
	if err != nil {
		return err
	}

	if !uninstallYes {
		confirmed, err := confirmUninstall(serverID, clientType)
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	if err := installer.NewInstaller(provider).Uninstall(serverID, clientType); err != nil {
		return err
	}

	fmt.Printf("Removed %s from %s configuration.\n", serverID, clientType)
	return nil
}

func confirmUninstall(serverID string, clientType client.MCPClient) (bool, error) {
	fmt.Printf("This will remove '%s' from the %s configuration. Are you sure you want to continue? [y/N]: ", serverID, clientType)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Uninstall cancelled.")
		return false, nil
	}

	return true, nil
}
