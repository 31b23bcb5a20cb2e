package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/internal/backup"
	"github.com/ludo-technologies/refakt/internal/constants"
)

// BackupCommand groups the backup management subcommands.
type BackupCommand struct {
	projectPath   string
	retentionDays int
}

// NewBackupCommand creates a new backup command
func NewBackupCommand() *BackupCommand {
	return &BackupCommand{
		projectPath:   ".",
		retentionDays: constants.DefaultBackupRetentionDays,
	}
}

// CreateCobraCommand creates the Cobra command tree for backup management
func (c *BackupCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage pre-apply backups",
	}

	cmd.PersistentFlags().StringVarP(&c.projectPath, "project", "p", c.projectPath,
		"Project root (backups are stored beneath it)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE:  c.runList,
	}

	rollbackCmd := &cobra.Command{
		Use:   "rollback <backup-id>",
		Short: "Restore files from a backup",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runRollback,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <backup-id>",
		Short: "Re-hash backup copies against recorded hashes",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runVerify,
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove backups older than the retention window",
		RunE:  c.runCleanup,
	}
	cleanupCmd.Flags().IntVar(&c.retentionDays, "retention-days", c.retentionDays,
		"Age in days beyond which backups are removed")

	cmd.AddCommand(listCmd, rollbackCmd, verifyCmd, cleanupCmd)
	return cmd
}

func (c *BackupCommand) runList(cmd *cobra.Command, args []string) error {
	manager := backup.NewManager(c.projectPath)
	infos, err := manager.ListBackups()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	for _, info := range infos {
		if !info.Valid {
			fmt.Printf("%s  (corrupt metadata)\n", info.BackupID)
			continue
		}
		age := "unknown age"
		if ts, err := time.Parse(time.RFC3339Nano, info.Timestamp); err == nil {
			age = humanize.Time(ts)
		}
		fmt.Printf("%s  %d file(s), %s, created %s\n",
			info.BackupID, info.FileCount, humanize.Bytes(uint64(info.TotalBytes)), age)
	}
	return nil
}

func (c *BackupCommand) runRollback(cmd *cobra.Command, args []string) error {
	manager := backup.NewManager(c.projectPath)
	restored, err := manager.Rollback(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Restored %d file(s) from %s\n", len(restored), args[0])
	for _, file := range restored {
		fmt.Printf("  %s\n", file)
	}
	return nil
}

func (c *BackupCommand) runVerify(cmd *cobra.Command, args []string) error {
	manager := backup.NewManager(c.projectPath)
	report := manager.VerifyIntegrity(args[0])

	if report.Valid {
		fmt.Printf("Backup %s is intact (%d file(s) verified)\n", args[0], report.FilesVerified)
		return nil
	}

	fmt.Printf("Backup %s has %d issue(s):\n", args[0], len(report.Issues))
	for _, issue := range report.Issues {
		fmt.Printf("  %s: %s\n", issue.Path, issue.Problem)
	}
	return fmt.Errorf("backup verification failed")
}

func (c *BackupCommand) runCleanup(cmd *cobra.Command, args []string) error {
	manager := backup.NewManager(c.projectPath)
	removed, err := manager.CleanupOldBackups(c.retentionDays)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("No backups old enough to remove")
		return nil
	}
	fmt.Printf("Removed %d backup(s):\n", len(removed))
	for _, id := range removed {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
