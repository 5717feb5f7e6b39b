// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/pkg/backup"
	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

var (
	backupClientFlag string
	backupRestoreYes bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage client configuration backups",
	Long:  "The backup command provides subcommands to create, list, and restore point-in-time copies of MCP client configuration files.",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up a client's configuration file",
	Long:  "Copy the client's current configuration file into the backups directory and record it in the backup manifest.",
	RunE:  backupCreateCmdFunc,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored configuration backups",
	RunE:  backupListCmdFunc,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Restore a client configuration from a backup file",
	Long: `Write a backup file's contents back over the client configuration it was
taken from. Backups created by 'mcpdock backup create' or by 'mcpdock
install' are verified against the manifest digest before anything is
overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: backupRestoreCmdFunc,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupClientFlag, "client", "", "Client whose configuration to back up (see 'mcpdock clients list')")
	if err := backupCreateCmd.MarkFlagRequired("client"); err != nil {
		logger.Warnf("Warning: Failed to mark flag as required: %v", err)
	}

	backupRestoreCmd.Flags().BoolVar(&backupRestoreYes, "yes", false, "Skip the confirmation prompt")
}

func backupCreateCmdFunc(cmd *cobra.Command, _ []string) error {
	clientType, err := client.ParseClient(backupClientFlag)
	if err != nil {
		return err
	}

	engine, err := backup.NewEngine(config.NewDefaultProvider())
	if err != nil {
		return fmt.Errorf("failed to create backup engine: %w", err)
	}

	b, err := engine.CreateBackup(cmd.Context(), clientType)
	if err != nil {
		return err
	}

	fmt.Printf("Created backup: %s\n", b.BackupPath)
	return nil
}

func backupListCmdFunc(cmd *cobra.Command, _ []string) error {
	engine, err := backup.NewEngine(config.NewDefaultProvider())
	if err != nil {
		return fmt.Errorf("failed to create backup engine: %w", err)
	}

	backups, err := engine.ListBackups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CLIENT\tCREATED\tSIZE\tPATH")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%d B\t%s\n",
			b.Client,
			b.CreatedAt.Local().Format(time.RFC3339),
			b.Size,
			b.BackupPath,
		)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to flush tabwriter: %v\n", err)
	}
	return nil
}

func backupRestoreCmdFunc(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !backupRestoreYes {
		confirmed, err := confirmRestore(path)
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	engine, err := backup.NewEngine(config.NewDefaultProvider())
	if err != nil {
		return fmt.Errorf("failed to create backup engine: %w", err)
	}

	if err := engine.RestoreBackup(cmd.Context(), path); err != nil {
		fmt.Fprintln(os.Stderr, "Restore failed. Check that the file exists, is readable, and was created by 'mcpdock backup'.")
		return err
	}

	fmt.Printf("Restored configuration from %s.\n", path)
	return nil
}

func confirmRestore(path string) (bool, error) {
	fmt.Printf("This will overwrite the client configuration that %s was taken from. Are you sure you want to continue? [y/N]: ", path)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Restore cancelled.")
		return false, nil
	}

	return true, nil
}
