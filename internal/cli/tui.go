package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	var forward journal.Notifier
	if ctx.Config.Notifications.Desktop {
		forward = notifier.Desktop{}
	}
	signals := tui.NewSignals(forward)
	gate := &tui.Gate{}

	bg := context.Background()
	j, err := ctx.Journal(bg, journal.WithNotifier(signals), journal.WithConfirmer(gate))
	if err != nil {
		return err
	}
	if ctx.Config.Backup.Auto {
		ctx.PerformAutomaticBackup()
	}

	p := tea.NewProgram(tui.NewModel(bg, j, signals, gate), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
