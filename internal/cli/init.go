package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/internal/storage"
)

type InitCmd struct {
	Force       bool   `help:"Overwrite an existing config file."`
	FromBackend string `help:"Copy existing data from another backend (sqlite|diskv|postgres)." enum:",sqlite,diskv,postgres" default:""`
	FromPath    string `help:"Path or DSN of the backend to copy from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx.Printf("✓ Initialized %s storage at %s\n", ctx.Config.Storage.Backend, ctx.Store.GetConfigPath())

	if err := c.writeConfig(ctx); err != nil {
		return err
	}

	if c.FromBackend != "" {
		n, err := c.copyFrom(ctx)
		if err != nil {
			return err
		}
		ctx.Printf("✓ Copied %d keys from %s\n", n, c.FromBackend)
	}
	return nil
}

func (c *InitCmd) writeConfig(ctx *Context) error {
	path := ctx.Config.Path()
	if !c.Force && config.Exists(path) {
		logger.Debug("Config already exists", "path", path)
		return nil
	}
	if err := ctx.Config.Save(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ctx.Printf("✓ Wrote config to %s\n", path)
	return nil
}

func (c *InitCmd) copyFrom(ctx *Context) (int, error) {
	opts := storage.Options{Backend: c.FromBackend, Path: c.FromPath}
	if c.FromBackend == ctx.Config.Storage.Backend && c.FromPath == "" {
		return 0, fmt.Errorf("source backend must differ from the configured %s backend", c.FromBackend)
	}
	if c.FromBackend == "postgres" {
		opts = storage.Options{Backend: c.FromBackend, DSN: c.FromPath}
	}
	src, err := storage.New(opts)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	n, err := storage.Copy(context.Background(), ctx.Store, src)
	if err != nil {
		return n, fmt.Errorf("copy failed after %d keys: %w", n, err)
	}
	return n, nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		ctx.Println("Nothing to migrate for this backend.")
		return nil
	}
	if err := ctx.Store.Load(); err != nil && !errors.Is(err, migration.ErrSchemaBehind) {
		return err
	}
	n, err := m.Migrate(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if n == 0 {
		ctx.Println("Database schema is up to date.")
		return nil
	}
	ctx.Printf("✓ Applied %d migration(s)\n", n)
	return nil
}
