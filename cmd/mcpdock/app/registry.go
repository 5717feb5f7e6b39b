package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Browse the MCP server registry",
	Long:  `Browse the MCP server registry, including listing, searching, and getting information about available MCP servers.`,
}

var registryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available MCP servers",
	Long:    `List all available MCP servers in the registry.`,
	RunE:    registryListCmdFunc,
}

var registryInfoCmd = &cobra.Command{
	Use:   "info [server]",
	Short: "Get information about an MCP server",
	Long:  `Get detailed information about a specific MCP server in the registry, including its parameters and install descriptor.`,
	Args:  cobra.ExactArgs(1),
	RunE:  registryInfoCmdFunc,
}

var registrySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for MCP servers",
	Long:  `Search the registry for servers matching the query in their id, name, description, or tags.`,
	Args:  cobra.ExactArgs(1),
	RunE:  registrySearchCmdFunc,
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a registry document",
	Long: `Validate a registry JSON document against the registry schema.
Serving is deliberately permissive; this command is where registry authors
get strict feedback before publishing.`,
	Args: cobra.ExactArgs(1),
	RunE: registryValidateCmdFunc,
}

var (
	registryFormat string
)

func init() {
	// Add registry command to root command
	rootCmd.AddCommand(registryCmd)

	// Add subcommands to registry command
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryInfoCmd)
	registryCmd.AddCommand(registrySearchCmd)
	registryCmd.AddCommand(registryValidateCmd)

	// Add flags for list, info and search commands
	AddFormatFlag(registryListCmd, &registryFormat)
	AddFormatFlag(registryInfoCmd, &registryFormat)
	AddFormatFlag(registrySearchCmd, &registryFormat)
	registryListCmd.PreRunE = ValidateFormat(&registryFormat)
	registryInfoCmd.PreRunE = ValidateFormat(&registryFormat)
	registrySearchCmd.PreRunE = ValidateFormat(&registryFormat)
}

func registryListCmdFunc(_ *cobra.Command, _ []string) error {
	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	servers, err := provider.ListServers()
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].ID < servers[j].ID
	})

	// Output based on format
	switch registryFormat {
	case FormatJSON:
		return printJSONServers(servers)
	default:
		printTextServers(servers)
		return nil
	}
}

func registryInfoCmdFunc(_ *cobra.Command, args []string) error {
	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	server, err := provider.GetServer(args[0])
	if err != nil {
		return fmt.Errorf("failed to get server information: %w", err)
	}

	// Output based on format
	switch registryFormat {
	case FormatJSON:
		return printJSONServer(server)
	default:
		printTextServerInfo(server)
		return nil
	}
}

func registrySearchCmdFunc(_ *cobra.Command, args []string) error {
	query := args[0]

	provider, err := catalog.GetDefaultProvider()
	if err != nil {
		return fmt.Errorf("failed to create registry provider: %w", err)
	}

	servers, err := provider.SearchServers(query)
	if err != nil {
		return fmt.Errorf("failed to search servers: %w", err)
	}

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].ID < servers[j].ID
	})

	switch registryFormat {
	case FormatJSON:
		return printJSONServers(servers)
	default:
		if len(servers) == 0 {
			fmt.Printf("No servers found matching %q.\n", query)
			return nil
		}
		printTextServers(servers)
		return nil
	}
}

func registryValidateCmdFunc(_ *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry file: %w", err)
	}

	issues, err := catalog.ValidateRegistrySchema(data)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Printf("%s is a valid registry document.\n", path)
		return nil
	}

	fmt.Printf("%s has %d schema violation(s):\n", path, len(issues))
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
	return fmt.Errorf("registry document failed schema validation")
}

// printJSONServers prints servers in JSON format
func printJSONServers(servers []catalog.MCPServer) error {
	jsonData, err := json.MarshalIndent(servers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

// printJSONServer prints a single server in JSON format
func printJSONServer(server *catalog.MCPServer) error {
	jsonData, err := json.MarshalIndent(server, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

// printTextServers prints servers in text format
func printTextServers(servers []catalog.MCPServer) {
	// Create a tabwriter for pretty output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tDIFFICULTY\tAUTH\tDESCRIPTION")

	// Print server information
	for _, server := range servers {
		auth := "no"
		if server.RequiresAuth {
			auth = "yes"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			server.ID,
			server.Name,
			server.Category,
			server.Difficulty,
			auth,
			truncateString(server.Description, 60),
		)
	}

	// Flush the tabwriter
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to flush tabwriter: %v\n", err)
	}
}

// printTextServerInfo prints detailed information about a server in text format
func printTextServerInfo(server *catalog.MCPServer) {
	fmt.Printf("ID: %s\n", server.ID)
	fmt.Printf("Name: %s\n", server.Name)
	fmt.Printf("Description: %s\n", server.Description)
	if server.Category != "" {
		fmt.Printf("Category: %s\n", server.Category)
	}
	if server.Difficulty != "" {
		fmt.Printf("Difficulty: %s\n", server.Difficulty)
	}
	if server.Author != "" {
		fmt.Printf("Author: %s\n", server.Author)
	}
	if server.Version != "" {
		fmt.Printf("Version: %s\n", server.Version)
	}
	if server.Documentation != "" {
		fmt.Printf("Documentation: %s\n", server.Documentation)
	}
	if server.Repository != "" {
		fmt.Printf("Repository: %s\n", server.Repository)
	}
	fmt.Printf("Requires Auth: %t\n", server.RequiresAuth)

	// Print tags
	if len(server.Tags) > 0 {
		fmt.Println("Tags:")
		fmt.Printf("  %s\n", strings.Join(server.Tags, ", "))
	}

	// Print parameters
	if len(server.Parameters) > 0 {
		fmt.Println("\nParameters:")
		for _, name := range server.ParameterNames() {
			param := server.Parameters[name]

			required := ""
			if param.Required {
				required = " (required)"
			}
			defaultValue := ""
			if param.Default != "" {
				defaultValue = fmt.Sprintf(" [default: %s]", param.Default)
			}
			fmt.Printf("  - %s (%s)%s%s: %s\n", name, param.Type, required, defaultValue, param.Description)
		}
	}

	// Print install descriptor
	if server.Installation != nil {
		fmt.Println("\nInstallation:")
		fmt.Printf("  Command: %s\n", server.Installation.Command)
		if len(server.Installation.Args) > 0 {
			fmt.Printf("  Args: %s\n", strings.Join(server.Installation.Args, " "))
		}
		if len(server.Installation.Env) > 0 {
			keys := make([]string, 0, len(server.Installation.Env))
			for key := range server.Installation.Env {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			fmt.Printf("  Env: %s\n", strings.Join(keys, ", "))
		}
	}

	// Print example command
	fmt.Println("\nExample Command:")
	fmt.Printf("  mcpdock install %s --client claude-code\n", server.ID)
}

// truncateString truncates a string to the specified length and adds "..." if truncated
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
