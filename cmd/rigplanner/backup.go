package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HerbHall/rigplanner/internal/backup"
)

var (
	flagBackupOutput string
	flagRestoreInput string
	flagRestoreDir   string
	flagRestoreForce bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the database, a catalog export and the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		output := flagBackupOutput
		if output == "" {
			output = backup.DefaultOutput(time.Now())
		}
		if err := backup.Backup(cmd.Context(), settings.Database.Path, flagConfig, output); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore files from a backup archive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := backup.Restore(cmd.Context(), flagRestoreInput, flagRestoreDir, flagRestoreForce); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restore complete: files restored to %s\n", flagRestoreDir)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVarP(&flagBackupOutput, "output", "o", "", "Output file (default: rigplanner-backup-{timestamp}.tar.gz)")

	restoreCmd.Flags().StringVarP(&flagRestoreInput, "input", "i", "", "Backup archive to restore")
	restoreCmd.Flags().StringVar(&flagRestoreDir, "data-dir", ".", "Target directory for restored files")
	restoreCmd.Flags().BoolVar(&flagRestoreForce, "force", false, "Overwrite existing files")
	_ = restoreCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(backupCmd, restoreCmd)
}
