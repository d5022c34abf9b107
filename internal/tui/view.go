package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.state == constants.StateConfirmation:
		content = lipgloss.Place(m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	case m.state != constants.StateDay:
		content = docStyle.Render(m.form.View())
	default:
		switch m.tab {
		case tabDay:
			content = docStyle.Render(m.viewDay())
		case tabTasks:
			content = docStyle.Render(m.taskList.View())
		case tabAgenda:
			content = docStyle.Render(m.agenda.View())
		case tabChallenges:
			content = docStyle.Render(m.viewChallenges())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	date := m.journal.CurrentDate()
	today := m.journal.Today()

	title := fmt.Sprintf("%s %s", date, date.Weekday())
	switch {
	case date == today:
		title += " (today)"
	case date.Before(today):
		title += fmt.Sprintf(" (%d days ago)", calendar.DaysBetween(date, today))
	default:
		title += fmt.Sprintf(" (in %d days)", calendar.DaysBetween(today, date))
	}

	slots := []string{"look back:"}
	for _, t := range m.journal.ReviewTargets() {
		label := fmt.Sprintf("%dd", t.DaysAgo)
		if t.Reviewed {
			label += "✓"
		}
		switch {
		case t.Current:
			slots = append(slots, currentStyle.Render(label))
		case t.Reviewed:
			slots = append(slots, reviewedStyle.Render(label))
		default:
			slots = append(slots, pendingStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(title),
		"  ",
		strings.Join(slots, " "),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	entry := m.journal.CurrentEntry()
	width := m.width - 6
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Meditation"))
	b.WriteString("\n")
	if text := strings.TrimSpace(entry.Meditation.GodsPresence); text != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(text))
	} else {
		b.WriteString(mutedStyle.Render("Press 'm' to write."))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Journey"))
	b.WriteString("\n")
	if len(entry.JourneyItems) == 0 {
		b.WriteString(mutedStyle.Render("No items. Press 'a' to add one."))
	}
	for i, item := range entry.JourneyItems {
		check := "[ ]"
		if item.Completed {
			check = reviewedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", check, item.Title)
		if item.Scope != "" {
			line += " " + mutedStyle.Render(item.Scope)
		}
		if i == m.dayCursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewChallenges() string {
	challenges := m.journal.Challenges()
	if len(challenges) == 0 {
		return mutedStyle.Render("No challenges. Press 'a' to start one.")
	}

	date := m.journal.CurrentDate()
	today := m.journal.Today()
	var b strings.Builder
	for i, c := range challenges {
		check := "[ ]"
		if c.IsAchieved(date) {
			check = reviewedStyle.Render("[x]")
		}
		name := c.Name
		if name == "" {
			name = mutedStyle.Render("(unnamed)")
		}
		rate := c.AchievementRate(today)
		bar := strings.Repeat("█", rate/10) + strings.Repeat("░", 10-rate/10)
		line := fmt.Sprintf("%s %-24s %s %3d%%", check, name, bar, rate)
		if c.Goal != "" {
			line += " " + mutedStyle.Render(c.Goal)
		}
		if i == m.chCursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("\n%d of %d challenges", len(challenges), constants.MaxChallenges)))
	return b.String()
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("  " + m.err.Error())
	}
	if m.status != "" {
		return warningStyle.Render("  " + m.status)
	}
	return ""
}
