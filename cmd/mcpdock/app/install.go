package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drydocklabs/mcpdock/cmd/mcpdock/app/ui"
	"github.com/drydocklabs/mcpdock/pkg/backup"
	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/installer"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// verifyTimeout bounds the post-install MCP handshake probe. Servers that
// download their package on first launch need the headroom.
const verifyTimeout = 60 * time.Second

var (
	installClientFlag string
	installParamFlags []string
	installYes        bool
	installNoBackup   bool
	installVerify     bool
)

var installCmd = &cobra.Command{
	Use:   "install [server]",
	Short: "Install an MCP server into a client configuration",
	Long: `Install a server from the registry into an MCP client's configuration file.

Parameter values come from repeated --param flags. When values are still
missing and stdin is a terminal, an interactive wizard prompts for them.
The client's existing configuration file is backed up first unless
--no-backup is given.

Examples:

	mcpdock install github --client claude-code --param api_key=ghp_xxx
	mcpdock install filesystem --client cursor --param path=~/projects
	mcpdock install postgres --client vscode --verify`,
	Args: cobra.ExactArgs(1),
	RunE: installCmdFunc,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVar(&installClientFlag, "client", "", "Client whose configuration receives the server (see 'mcpdock clients list')")
	installCmd.Flags().StringArrayVar(&installParamFlags, "param", nil, "Parameter value as name=value (repeatable)")
	installCmd.Flags().BoolVar(&installYes, "yes", false, "Never prompt; missing required parameters become an error")
	installCmd.Flags().BoolVar(&installNoBackup, "no-backup", false, "Skip the automatic backup of the client configuration")
	installCmd.Flags().BoolVar(&installVerify, "verify", false, "Probe the installed server with an MCP handshake after installing")

	if err := installCmd.MarkFlagRequired("client"); err != nil {
		logger.Warnf("Warning: Failed to mark flag as required: %v", err)
	}
}

func installCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	serverID := args[0]

	clientType, err := client.ParseClient(installClientFlag)
	if err != nil {
		return err
	}

	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	server, err := provider.GetServer(serverID)
	if err != nil {
		return fmt.Errorf("failed to get server information: %w", err)
	}

	params, err := parseParamFlags(installParamFlags)
	if err != nil {
		return err
	}

	if !installYes {
		ok, err := promptForParameters(server, params)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Installation cancelled.")
			return nil
		}
	}

	if !installNoBackup {
		if err := backUpClientConfig(ctx, clientType); err != nil {
			return err
		}
	}

	inst := installer.NewInstaller(provider)
	result, err := inst.Install(installer.InstallOptions{
		ServerID:   serverID,
		Client:     clientType,
		Parameters: params,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Installed %s into %s configuration: %s\n", result.Server.ID, result.Client, result.ConfigPath)
	printParameterSummary(result)

	if installVerify {
		if err := verifyInstalledServer(ctx, inst, result); err != nil {
			return err
		}
	}

	fmt.Printf("Restart %s to pick up the new server.\n", result.Client)
	return nil
}

// parseParamFlags parses repeated name=value flags into a map.
func parseParamFlags(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", pair)
		}
		params[parts[0]] = parts[1]
	}
	return params, nil
}

// promptForParameters runs the interactive wizard for parameters the user
// has not supplied yet, merging the entered values into params. It reports
// false when the user cancelled the wizard.
func promptForParameters(server *catalog.MCPServer, params map[string]string) (bool, error) {
	prompts := missingParameterPrompts(server, params)
	if len(prompts) == 0 {
		return true, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Parameter resolution reports missing required values with a
		// precise error, so a non-terminal stdin just skips the wizard.
		logger.Debugf("stdin is not a terminal, skipping parameter wizard")
		return true, nil
	}

	values, confirmed, err := ui.RunInstallWizard(server.ID, prompts)
	if err != nil {
		return false, fmt.Errorf("error running parameter wizard: %w", err)
	}
	if !confirmed {
		return false, nil
	}

	for name, value := range values {
		params[name] = value
	}
	return true, nil
}

// missingParameterPrompts returns wizard prompts for every declared
// parameter without a supplied value, required ones first.
func missingParameterPrompts(server *catalog.MCPServer, supplied map[string]string) []ui.ParameterPrompt {
	var required, optional []string
	for name, spec := range server.Parameters {
		if _, ok := supplied[name]; ok {
			continue
		}
		if spec.Required && spec.Default == "" {
			required = append(required, name)
		} else {
			optional = append(optional, name)
		}
	}
	sort.Strings(required)
	sort.Strings(optional)

	prompts := make([]ui.ParameterPrompt, 0, len(required)+len(optional))
	for _, name := range append(required, optional...) {
		prompts = append(prompts, ui.ParameterPrompt{Name: name, Spec: server.Parameters[name]})
	}
	return prompts
}

// backUpClientConfig backs up the client's configuration file when it has
// one. A client without a config file yet has nothing to back up.
func backUpClientConfig(ctx context.Context, clientType client.MCPClient) error {
	if _, err := client.FindClientConfig(clientType); err != nil {
		logger.Debugf("No existing %s configuration found, skipping backup", clientType)
		return nil
	}

	engine, err := backup.NewEngine(config.NewDefaultProvider())
	if err != nil {
		return fmt.Errorf("failed to create backup engine: %w", err)
	}

	b, err := engine.CreateBackup(ctx, clientType)
	if err != nil {
		return fmt.Errorf("failed to back up %s configuration: %w", clientType, err)
	}

	fmt.Printf("Created backup: %s\n", b.BackupPath)
	return nil
}

func printParameterSummary(result *installer.InstallResult) {
	summaries := installer.SummarizeParameters(result.Server, result.Parameters)
	if len(summaries) == 0 {
		return
	}

	fmt.Println("Parameters:")
	for _, summary := range summaries {
		fmt.Printf("  %s: %s\n", summary.Name, summary.Value)
	}
}

func verifyInstalledServer(ctx context.Context, inst *installer.Installer, result *installer.InstallResult) error {
	fmt.Printf("Verifying %s...\n", result.Server.ID)

	verifyCtx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	verifyResult, err := inst.Verify(verifyCtx, result.Server, result.Parameters)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("Server answered as %s %s\n", verifyResult.ServerName, verifyResult.ServerVersion)
	if len(verifyResult.Tools) > 0 {
		fmt.Printf("Tools: %s\n", strings.Join(verifyResult.Tools, ", "))
	}
	return nil
}
