package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Create a backup of the database."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

func (ctx *Context) backupManager() (*backup.Manager, error) {
	if ctx.Config.Storage.Backend != constants.BackendSQLite {
		return nil, fmt.Errorf("backups are only supported for the sqlite backend (current: %s)", ctx.Config.Storage.Backend)
	}
	return backup.NewManager(ctx.Store.GetConfigPath(), ctx.Config.Backup.Max), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", info.Name())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.Max)
	table := newTable("CREATED", "FILE", "SIZE")
	for _, b := range backups {
		table.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	ctx.Println(table)
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backupPath, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println(warnColor("WARNING: This will replace your current database with the backup."))
		ctx.Println("A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		if !ctx.Confirm("Continue?") {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	safety, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety.Path != "" {
		ctx.Printf("Previous database saved as %s\n", safety.Name())
	}
	ctx.Println("✓ Database restored successfully!")
	ctx.Printf("Restart any running %s processes to use the restored database.\n", constants.AppName)
	return nil
}
