// Package tui is the interactive day view.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/tui/components/agenda"
	"github.com/julianstephens/daybook/internal/tui/components/tasklist"
)

type tab int

const (
	tabDay tab = iota
	tabTasks
	tabAgenda
	tabChallenges
	tabCount
)

var tabTitles = [tabCount]string{"Day", "Tasks", "Agenda", "Challenges"}

// Signals holds journal signals until the model shows them. Pass it to
// the journal with journal.WithNotifier before building the model.
type Signals struct {
	pending []journal.Signal
	forward journal.Notifier
}

// NewSignals returns a buffer that also forwards each signal to forward, if set.
func NewSignals(forward journal.Notifier) *Signals {
	return &Signals{forward: forward}
}

func (s *Signals) Notify(sig journal.Signal) {
	s.pending = append(s.pending, sig)
	if s.forward != nil {
		s.forward.Notify(sig)
	}
}

func (s *Signals) drain() []journal.Signal {
	out := s.pending
	s.pending = nil
	return out
}

// Gate answers the journal's confirmation prompts with the result of the
// last confirmation form. Each answer is used once.
type Gate struct {
	answer bool
}

func (g *Gate) Confirm(string) bool {
	ok := g.answer
	g.answer = false
	return ok
}

type Model struct {
	ctx     context.Context
	journal *journal.Journal
	signals *Signals
	gate    *Gate

	state     constants.SessionState
	tab       tab
	keys      KeyMap
	help      help.Model
	taskList  tasklist.Model
	agenda    agenda.Model
	dayCursor int
	chCursor  int
	reviewIdx int

	form             *huh.Form
	meditationText   *string
	journeyForm      *JourneyFormModel
	taskForm         *TaskFormModel
	scheduleForm     *ScheduleFormModel
	challengeForm    *ChallengeFormModel
	confirmationForm *ConfirmationFormModel
	editingID        string
	pendingAction    func() tea.Cmd

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the model over a loaded journal. The journal must have
// been created with signals as its notifier and gate as its confirmer.
func NewModel(ctx context.Context, j *journal.Journal, signals *Signals, gate *Gate) Model {
	m := Model{
		ctx:      ctx,
		journal:  j,
		signals:  signals,
		gate:     gate,
		state:    constants.StateDay,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taskList: tasklist.New(j.VisibleTasks(), 0, 0),
		agenda:   agenda.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.PrevDay, m.keys.NextDay, m.keys.Back, m.keys.Today}
	switch m.tab {
	case tabDay:
		keys = append(keys, m.keys.Meditation, m.keys.Add, m.keys.Toggle)
	case tabAgenda:
		keys = append(keys, m.keys.Add)
	case tabChallenges:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Replace)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	travel := []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Back, m.keys.Today}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.tab {
	case tabDay:
		actions = []key.Binding{m.keys.Meditation, m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Delete}
	case tabTasks:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Delete}
	case tabAgenda:
		actions = []key.Binding{m.keys.Add}
	case tabChallenges:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Replace, m.keys.Delete}
	}
	return [][]key.Binding{global, travel, navigation, actions}
}

// refresh reloads the views from the journal and picks up pending signals.
func (m *Model) refresh() {
	m.taskList.SetTasks(m.journal.VisibleTasks())
	m.agenda.SetAgenda(m.journal.CurrentDate(), m.journal.Agenda())
	m.dayCursor = clamp(m.dayCursor, len(m.journal.CurrentEntry().JourneyItems))
	m.chCursor = clamp(m.chCursor, len(m.journal.Challenges()))

	for _, sig := range m.signals.drain() {
		_, body := notifier.Message(sig)
		m.status = body
	}
}

// save writes the journal and records any failure for display.
func (m *Model) save() {
	m.err = m.journal.Save(m.ctx)
	m.refresh()
}

func (m *Model) setErr(err error) {
	m.err = err
	m.refresh()
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
