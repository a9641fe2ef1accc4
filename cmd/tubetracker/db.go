package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage database snapshots",
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Store a database snapshot in the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.Backup(cmd.Context())
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Stored %s (%d bytes)\n", info.Name, info.Size)
		return nil
	},
}

var dbSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived database snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Snapshots")
		if err != nil {
			return err
		}
		defer a.Close()

		snaps, err := a.Snapshots()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots stored.")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %10d  %s\n", s.CreatedAt.Format(timeFormat), s.Size, s.Name)
		}
		return nil
	},
}

var dbRestoreCmd = &cobra.Command{
	Use:   "restore SNAPSHOT DEST",
	Short: "Write an archived snapshot to DEST",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		name, dest := args[0], args[1]
		var pass string
		if strings.HasSuffix(name, ".age") {
			pass, err = readPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
		}

		if err := a.Restore(name, dest, pass); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("Restored %s to %s\n", name, dest)
		return nil
	},
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the snapshot archive is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "CheckArchive")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckArchive(); err != nil {
			return err
		}
		fmt.Println("Archive OK.")
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbBackupCmd)
	dbCmd.AddCommand(dbSnapshotsCmd)
	dbCmd.AddCommand(dbRestoreCmd)
	dbCmd.AddCommand(dbCheckCmd)
	rootCmd.AddCommand(dbCmd)
}
