package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"folio/app/repositories"
)

func (c *cli) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the badger store of preview sessions and connectivity checks",
	}

	var yes bool
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	var output string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.backup(cmd.OutOrStdout(), output)
		},
	}
	backupCmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default <data dir>/../backups/backup_<unix>.db)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Initialize a new empty store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.initDb(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Delete the store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.clean(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			},
		},
		backupCmd,
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Restore the store from a backup",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.restore(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], yes)
			},
		},
	)
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	var response string
	fmt.Fscanln(in, &response)
	return response == "y" || response == "Y"
}

func (c *cli) dbPath() string {
	return c.cfg.Store.Dir
}

// clean removes the store.
func (c *cli) clean(in io.Reader, out io.Writer, yes bool) error {
	dbPath := c.dbPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "Store is already clean (does not exist)")
		return nil
	}

	if !yes && !confirm(in, out, "Are you sure you want to clean the store? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean store: %w", err)
	}
	fmt.Fprintln(out, "Store cleaned successfully")
	return nil
}

// initDb initializes a new empty store.
func (c *cli) initDb(out io.Writer) error {
	dbPath := c.dbPath()
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(out, "Store already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}

	store, err := repositories.NewStore(dbPath, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	fmt.Fprintln(out, "Store initialized successfully")
	return nil
}

// backup creates a backup of the store.
func (c *cli) backup(out io.Writer, backupFile string) error {
	dbPath := c.dbPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No store exists to backup")
		return nil
	}

	if backupFile == "" {
		backupDir := filepath.Join(filepath.Dir(filepath.Clean(dbPath)), "backups")
		backupFile = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(backupFile), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	store, err := repositories.NewStore(dbPath, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		return fmt.Errorf("failed to backup store: %w", err)
	}

	fmt.Fprintf(out, "Store backed up successfully to %s\n", backupFile)
	return nil
}

// restore restores the store from a backup.
func (c *cli) restore(in io.Reader, out io.Writer, backupFile string, yes bool) error {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	dbPath := c.dbPath()
	if _, err := os.Stat(dbPath); err == nil {
		if !yes && !confirm(in, out, "Existing store found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	store, err := repositories.NewStore(dbPath, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := store.Restore(f); err != nil {
		return fmt.Errorf("failed to restore store: %w", err)
	}

	fmt.Fprintln(out, "Store restored successfully")
	return nil
}
