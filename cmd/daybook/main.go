package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"" env:"DAYBOOK_CONFIG"`
	Debug   bool   `help:"Enable debug logging."`
	Date    string `short:"D" help:"Open the journal on another day (YYYY-MM-DD, yesterday, tomorrow or +/-N)."`
	Yes     bool   `short:"y" help:"Answer yes to confirmation prompts."`

	Init       cli.InitCmd       `cmd:"" help:"Initialize daybook storage and config."`
	Migrate    cli.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Show       cli.ShowCmd       `cmd:"" help:"Show the day."`
	Meditation cli.MeditationCmd `cmd:"" help:"Write or clear the day's meditation."`
	Journey    cli.JourneyCmd    `cmd:"" help:"Manage the day's journey items."`
	Task       cli.TaskCmd       `cmd:"" help:"Manage tasks."`
	Schedule   cli.ScheduleCmd   `cmd:"" help:"Manage schedules."`
	Agenda     cli.AgendaCmd     `cmd:"" help:"Show the two-week agenda."`
	Challenge  cli.ChallengeCmd  `cmd:"" help:"Manage challenges."`
	Review     cli.ReviewCmd     `cmd:"" help:"Look back at past days."`
	Saved      cli.SavedCmd      `cmd:"" help:"List dates with saved entries."`
	Backup     cli.BackupCmd     `cmd:"" help:"Manage database backups."`
	Keyring    cli.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily meditation journal, tasks, schedules and challenges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Path:      cfg.LogPath(),
		Level:     cfg.Log.Level,
		Stderr:    cfg.Log.Stderr,
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Debug:     CLI.Debug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "backend", cfg.Storage.Backend, "config", cfg.Path())

	store, err := storage.New(storage.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.StoragePath(),
		DSN:     cfg.Storage.DSN,
	})
	if err != nil && !isKeyringCommand(ctx) {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(cfg, store)
	appCtx.Date = CLI.Date
	appCtx.AssumeYes = CLI.Yes

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}

// isKeyringCommand reports whether a keyring subcommand was selected. Those
// must work before a postgres connection string exists.
func isKeyringCommand(ctx *kong.Context) bool {
	selected := ctx.Selected()
	for node := selected; node != nil; node = node.Parent {
		if node.Name == "keyring" {
			return true
		}
	}
	return false
}
