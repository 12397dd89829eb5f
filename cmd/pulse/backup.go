package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
		Long: `Create, list, restore, and delete copies of the pulse database.

Backups live in a "backups" directory next to the database. An automatic
backup is taken before every OFX import; only the most recent automatic
backups are kept.`,
		Example: `  # Back up before cleaning up categories
  pulse backup create --tag pre-cleanup

  # List backups
  pulse backup list

  # Roll back
  pulse backup restore pre-cleanup`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(restoreBackupCmd())
	cmd.AddCommand(deleteBackupCmd())

	return cmd
}

// withBackups opens storage and hands its backup manager to fn.
func withBackups(cmd *cobra.Command, fn func(*storage.BackupManager) error) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	manager, err := store.Backups()
	if err != nil {
		return fmt.Errorf("failed to open backups: %w", err)
	}
	return fn(manager)
}

func createBackupCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, func(bm *storage.BackupManager) error {
				info, err := bm.Create(cmd.Context(), tag, description)
				if err != nil {
					return fmt.Errorf("failed to create backup: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s (%s)", info.ID, cli.FormatFileSize(info.FileSize))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "backup name (generated from the time if empty)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the backup is for")

	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, func(bm *storage.BackupManager) error {
				backups, err := bm.List()
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("No backups found."))
					return nil
				}
				cli.RenderBackups(cmd.OutOrStdout(), backups)
				return nil
			})
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withBackups(cmd, func(bm *storage.BackupManager) error {
				info, err := bm.Get(args[0])
				if err != nil {
					return err
				}
				if !force && !confirm(cmd.InOrStdin(), out, fmt.Sprintf(
					"This will replace your database with backup %s from %s.",
					info.ID, info.CreatedAt.Local().Format("2006-01-02 15:04:05"))) {
					_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render("Restore cancelled."))
					return nil
				}

				if err := bm.Restore(cmd.Context(), info.ID); err != nil {
					return fmt.Errorf("failed to restore backup: %w", err)
				}
				_, _ = fmt.Fprintln(out, cli.FormatSuccess("Restored from backup "+info.ID))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func deleteBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withBackups(cmd, func(bm *storage.BackupManager) error {
				info, err := bm.Get(args[0])
				if err != nil {
					return err
				}
				if !force && !confirm(cmd.InOrStdin(), out, fmt.Sprintf(
					"This will permanently delete backup %s (%s).", info.ID, cli.FormatFileSize(info.FileSize))) {
					_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render("Deletion cancelled."))
					return nil
				}

				if err := bm.Delete(info.ID); err != nil {
					return fmt.Errorf("failed to delete backup: %w", err)
				}
				_, _ = fmt.Fprintln(out, cli.FormatSuccess("Deleted backup "+info.ID))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// confirm prints message and reads a yes/no answer. Anything but y/yes is no.
func confirm(in io.Reader, out io.Writer, message string) bool {
	_, _ = fmt.Fprintln(out, cli.FormatWarning(message))
	_, _ = fmt.Fprint(out, "Continue? (y/N) ")

	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
