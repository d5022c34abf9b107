// Package notifier renders journal signals on the terminal and as desktop notifications.
package notifier

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gen2brain/beeep"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/logger"
)

var (
	notifyFunc = beeep.Notify
	alertFunc  = beeep.Alert
)

// Message returns the title and body shown for a signal.
func Message(sig journal.Signal) (string, string) {
	switch sig {
	case journal.SignalSaved:
		return "Saved", "Your entry, tasks and schedules were saved."
	case journal.SignalEmptyDeleted:
		return "Empty entry removed", "The entry had no content and was deleted. Tasks and schedules were saved."
	case journal.SignalChallengeLimitReached:
		return "Challenge limit reached", fmt.Sprintf("You can track at most %d challenges. Replace one instead.", constants.MaxChallenges)
	default:
		return "", ""
	}
}

// Desktop shows signals through the OS notification center.
type Desktop struct{}

func (Desktop) Notify(sig journal.Signal) {
	title, body := Message(sig)
	if title == "" {
		return
	}
	send := notifyFunc
	if sig == journal.SignalChallengeLimitReached {
		send = alertFunc
	}
	if err := send(constants.AppName+": "+title, body, ""); err != nil {
		logger.Warn("Desktop notification failed", "signal", sig, "error", err)
	}
}

// Console prints signals to Out.
type Console struct {
	Out io.Writer
}

func (c Console) Notify(sig journal.Signal) {
	_, body := Message(sig)
	if body == "" {
		return
	}
	switch sig {
	case journal.SignalSaved:
		color.New(color.FgGreen).Fprintln(c.Out, "✓ "+body)
	default:
		color.New(color.FgYellow).Fprintln(c.Out, "! "+body)
	}
}

// Multi delivers each signal to every notifier in order.
type Multi []journal.Notifier

func (m Multi) Notify(sig journal.Signal) {
	for _, n := range m {
		n.Notify(sig)
	}
}

// New returns a console notifier, plus desktop notifications when enabled.
func New(out io.Writer, desktop bool) journal.Notifier {
	if !desktop {
		return Console{Out: out}
	}
	return Multi{Console{Out: out}, Desktop{}}
}
