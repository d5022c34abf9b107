package agenda

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/recurrence"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(13)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	days     []recurrence.DailySchedules
	start    calendar.Date
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.days) == 0 {
		return fmt.Sprintf("\n  Nothing scheduled in the two weeks from %s.\n  Press 'a' to add a schedule.", m.start)
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// SetAgenda replaces the rows shown. start is the first day of the window.
func (m *Model) SetAgenda(start calendar.Date, days []recurrence.DailySchedules) {
	m.start = start
	m.days = days
	m.render()
}

func (m *Model) render() {
	var b strings.Builder
	for i, day := range m.days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(dateStyle.Render(fmt.Sprintf("%s %s", day.Date, day.Date.Weekday())))
		b.WriteString("\n")
		for _, s := range day.Schedules {
			span := s.StartTime
			if s.EndTime != "" {
				span += " - " + s.EndTime
			}
			title := titleStyle.Render(s.Title)
			if s.Completed {
				title = doneStyle.Render(s.Title)
			}
			line := timeStyle.Render(span) + title
			if s.Location != "" {
				line += " " + locationStyle.Render("@ "+s.Location)
			}
			b.WriteString("  " + line + "\n")
		}
	}
	m.viewport.SetContent(b.String())
}
