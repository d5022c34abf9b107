package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/lock"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/storage"
)

// Context is shared by every command. The store and journal are opened
// lazily so commands like init and keyring work without existing data.
type Context struct {
	Config config.Config
	Store  storage.Provider
	// Date overrides the date the journal opens on.
	Date string
	// AssumeYes answers every confirmation prompt with yes.
	AssumeYes bool
	// Clock overrides the system clock.
	Clock journal.Clock

	Out io.Writer
	In  io.Reader

	journal *journal.Journal
	lock    *lock.Lock
	loaded  bool
	input   *bufio.Reader
	inputOf io.Reader
}

func NewContext(cfg config.Config, store storage.Provider) *Context {
	return &Context{
		Config: cfg,
		Store:  store,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

// Load takes the process lock and opens the store.
func (c *Context) Load() error {
	if c.loaded {
		return nil
	}
	l, err := lock.Acquire(c.Config.Dir())
	if err != nil {
		return err
	}
	c.lock = l
	if err := c.Store.Load(); err != nil {
		return err
	}
	c.loaded = true
	return nil
}

// Journal loads the journal on first use, positioned on --date when given.
func (c *Context) Journal(ctx context.Context, opts ...journal.Option) (*journal.Journal, error) {
	if c.journal != nil {
		return c.journal, nil
	}
	if err := c.Load(); err != nil {
		return nil, err
	}

	opts = append([]journal.Option{
		journal.WithNotifier(notifier.New(c.Out, c.Config.Notifications.Desktop)),
		journal.WithConfirmer(journal.ConfirmerFunc(c.Confirm)),
	}, opts...)
	clock := c.Clock
	if clock == nil {
		clock = journal.SystemClock{Location: c.Config.Location()}
	}
	j := journal.New(c.Store, clock, opts...)
	if err := j.Load(ctx); err != nil {
		logger.Warn("Journal loaded with errors", "error", err)
	}

	if c.Date != "" {
		date, err := ParseDate(c.Date, j.Today())
		if err != nil {
			return nil, err
		}
		j.GoTo(date)
	}
	c.journal = j
	return j, nil
}

// Save backs up the database when configured to, then saves the journal.
func (c *Context) Save(ctx context.Context) error {
	if c.journal == nil {
		return errors.New("journal not loaded")
	}
	if c.Config.Backup.Auto {
		c.PerformAutomaticBackup()
	}
	return c.journal.Save(ctx)
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config.Storage.Backend != constants.BackendSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath(), c.Config.Backup.Max)
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Close() error {
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	errs = append(errs, c.lock.Release())
	c.loaded = false
	return errors.Join(errs...)
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm answers yes under --yes and otherwise prompts on In. Successive
// prompts share one buffered reader so piped answers are not lost.
func (c *Context) Confirm(prompt string) bool {
	if c.AssumeYes {
		return true
	}
	if c.input == nil || c.inputOf != c.In {
		c.input = bufio.NewReader(c.In)
		c.inputOf = c.In
	}
	return PromptConfirmer{In: c.input, Out: c.Out}.Confirm(prompt)
}

// PromptConfirmer asks on the terminal and accepts y or yes.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	r, ok := p.In.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(p.In)
	}
	response, err := r.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// ParseDate accepts YYYY-MM-DD, "today", "yesterday", "tomorrow" or a
// signed day offset such as -7.
func ParseDate(s string, today calendar.Date) (calendar.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	if n, err := parseOffset(s); err == nil {
		return today.AddDays(n), nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, yesterday, tomorrow or +/-N)", s)
	}
	return d, nil
}

func parseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, errors.New("not an offset")
	}
	var n int
	if _, err := fmt.Sscanf(s[1:], "%d", &n); err != nil {
		return 0, err
	}
	if s[0] == '-' {
		n = -n
	}
	return n, nil
}
