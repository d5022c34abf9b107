package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/tasklist"
)

// actionDoneMsg reports the outcome of a confirmed action.
type actionDoneMsg struct {
	status string
	err    error
}

func done(status string, err error) tea.Cmd {
	return func() tea.Msg { return actionDoneMsg{status: status, err: err} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		bodyHeight := msg.Height - 8
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		m.taskList.SetSize(msg.Width-4, bodyHeight)
		m.agenda.SetSize(msg.Width-4, bodyHeight)
		return m, nil

	case constants.ConfirmationMsg:
		m.confirmationForm = &ConfirmationFormModel{}
		m.form = NewConfirmationForm(msg.Message, m.confirmationForm)
		m.pendingAction = msg.Action
		m.state = constants.StateConfirmation
		return m, m.form.Init()

	case actionDoneMsg:
		m.setErr(msg.err)
		if msg.status != "" && msg.err == nil {
			m.status = msg.status
		}
		return m, nil
	}

	if m.state != constants.StateDay {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		return m.openTaskForm(models.Task{})
	case tasklist.EditTaskMsg:
		return m.openTaskForm(msg.Task)
	case tasklist.ToggleTaskMsg:
		if err := m.journal.ToggleTask(msg.ID); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.save()
		return m, nil
	case tasklist.DeleteTaskMsg:
		task, _ := m.journal.Task(msg.ID)
		return m, confirm(fmt.Sprintf("Delete task %q?", task.Title), func() tea.Cmd {
			if err := m.journal.DeleteTask(msg.ID); err != nil {
				return done("", err)
			}
			return done("Task deleted", m.journal.Save(m.ctx))
		})
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.tab {
	case tabTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case tabAgenda:
		m.agenda, cmd = m.agenda.Update(msg)
	}
	return m, cmd
}

func confirm(message string, action func() tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return constants.ConfirmationMsg{Message: message, Action: action}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tab == tabTasks && m.taskList.Filtering() {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}

	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.tab = (m.tab - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.PrevDay):
		m.journal.GoTo(m.journal.CurrentDate().AddDays(-1))
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.NextDay):
		m.journal.GoTo(m.journal.CurrentDate().AddDays(1))
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		days := constants.ReviewIntervals[m.reviewIdx]
		m.reviewIdx = (m.reviewIdx + 1) % len(constants.ReviewIntervals)
		m.setErr(m.journal.JumpBack(days))
		return m, nil
	case key.Matches(msg, m.keys.Today):
		m.returnToToday()
		return m, nil
	}

	switch m.tab {
	case tabDay:
		return m.handleDayKey(msg)
	case tabTasks:
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	case tabAgenda:
		if key.Matches(msg, m.keys.Add) {
			return m.openScheduleForm()
		}
		var cmd tea.Cmd
		m.agenda, cmd = m.agenda.Update(msg)
		return m, cmd
	case tabChallenges:
		return m.handleChallengeKey(msg)
	}
	return m, nil
}

func (m *Model) returnToToday() {
	visited := m.journal.CurrentDate()
	m.reviewIdx = 0
	if err := m.journal.ReturnToToday(m.ctx); err != nil {
		m.setErr(err)
		return
	}
	if visited != m.journal.Today() && m.journal.IsReviewed(visited) {
		m.status = fmt.Sprintf("Reviewed %s", visited)
	}
	m.refresh()
}

func (m Model) handleDayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.journal.CurrentEntry().JourneyItems
	switch {
	case key.Matches(msg, m.keys.Up):
		m.dayCursor = clamp(m.dayCursor-1, len(items))
	case key.Matches(msg, m.keys.Down):
		m.dayCursor = clamp(m.dayCursor+1, len(items))
	case key.Matches(msg, m.keys.Meditation):
		text := m.journal.CurrentEntry().Meditation.GodsPresence
		m.meditationText = &text
		m.form = NewMeditationForm(m.meditationText)
		m.state = constants.StateEditMeditation
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Add):
		return m.openJourneyForm(models.JourneyItem{})
	case len(items) == 0:
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m.openJourneyForm(items[m.dayCursor])
	case key.Matches(msg, m.keys.Toggle):
		if err := m.journal.ToggleJourneyItem(items[m.dayCursor].ID); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.save()
	case key.Matches(msg, m.keys.Delete):
		item := items[m.dayCursor]
		return m, confirm(fmt.Sprintf("Delete %q?", item.Title), func() tea.Cmd {
			if err := m.journal.DeleteJourneyItem(item.ID); err != nil {
				return done("", err)
			}
			return done("", m.journal.Save(m.ctx))
		})
	}
	return m, nil
}

func (m Model) handleChallengeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	challenges := m.journal.Challenges()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.chCursor = clamp(m.chCursor-1, len(challenges))
	case key.Matches(msg, m.keys.Down):
		m.chCursor = clamp(m.chCursor+1, len(challenges))
	case key.Matches(msg, m.keys.Add):
		c, err := m.journal.AddChallenge(m.ctx)
		if errors.Is(err, journal.ErrChallengeLimit) {
			m.refresh()
			return m, nil
		}
		if err != nil {
			m.setErr(err)
			return m, nil
		}
		m.chCursor = len(challenges)
		return m.openChallengeForm(c)
	case len(challenges) == 0:
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m.openChallengeForm(challenges[m.chCursor])
	case key.Matches(msg, m.keys.Toggle):
		c := challenges[m.chCursor]
		m.setErr(m.journal.ToggleAchievement(m.ctx, c.ID, m.journal.CurrentDate()))
	case key.Matches(msg, m.keys.Replace):
		c := challenges[m.chCursor]
		name := c.Name
		if name == "" {
			name = "this challenge"
		}
		prompt := fmt.Sprintf("Replace %q? Its goal and all achievements will be cleared.", name)
		return m, confirm(prompt, func() tea.Cmd {
			m.gate.answer = true
			replaced, err := m.journal.ReplaceChallenge(m.ctx, c.ID)
			if err != nil || !replaced {
				return done("", err)
			}
			return done("Challenge restarted today", nil)
		})
	case key.Matches(msg, m.keys.Delete):
		c := challenges[m.chCursor]
		return m, confirm(fmt.Sprintf("Delete challenge %q?", c.Name), func() tea.Cmd {
			return done("Challenge deleted", m.journal.DeleteChallenge(m.ctx, c.ID))
		})
	}
	return m, nil
}

func (m Model) openJourneyForm(item models.JourneyItem) (tea.Model, tea.Cmd) {
	m.editingID = item.ID
	m.journeyForm = &JourneyFormModel{Title: item.Title, Scope: item.Scope, Link: item.Link}
	m.form = NewJourneyForm(m.journeyForm)
	m.state = constants.StateEditJourney
	return m, m.form.Init()
}

func (m Model) openTaskForm(task models.Task) (tea.Model, tea.Cmd) {
	m.editingID = task.ID
	if task.ID == "" {
		task.Priority = models.PriorityMedium
		task.DueDate = m.journal.CurrentDate()
	}
	m.taskForm = &TaskFormModel{
		Title:    task.Title,
		Priority: task.Priority,
		DueDate:  task.DueDate.String(),
		DueTime:  task.DueTime,
		Memo:     task.Memo,
	}
	m.form = NewTaskForm(m.taskForm)
	m.state = constants.StateEditTask
	return m, m.form.Init()
}

func (m Model) openScheduleForm() (tea.Model, tea.Cmd) {
	m.editingID = ""
	m.scheduleForm = &ScheduleFormModel{
		StartDate: m.journal.CurrentDate().String(),
		Frequency: models.FrequencyNone,
	}
	m.form = NewScheduleForm(m.scheduleForm)
	m.state = constants.StateEditSchedule
	return m, m.form.Init()
}

func (m Model) openChallengeForm(c models.Challenge) (tea.Model, tea.Cmd) {
	m.editingID = c.ID
	m.challengeForm = &ChallengeFormModel{
		Name:    c.Name,
		Goal:    c.Goal,
		EndDate: c.EndDate.String(),
		Time:    c.Time,
	}
	m.form = NewChallengeForm(m.challengeForm)
	m.state = constants.StateEditChallenge
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == constants.StateConfirmation {
			if m.confirmationForm.Confirmed && m.pendingAction != nil {
				cmds = append(cmds, m.pendingAction())
			}
		} else {
			m.setErr(m.applyForm())
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) closeForm() {
	m.state = constants.StateDay
	m.form = nil
	m.pendingAction = nil
	m.editingID = ""
}

// applyForm writes the completed form back to the journal.
func (m *Model) applyForm() error {
	j := m.journal
	switch m.state {
	case constants.StateEditMeditation:
		j.SetMeditation(*m.meditationText)
		return j.Save(m.ctx)

	case constants.StateEditJourney:
		fm := m.journeyForm
		if m.editingID == "" {
			j.AddJourneyItem(fm.Title, fm.Scope, fm.Link)
			return j.Save(m.ctx)
		}
		for _, item := range j.CurrentEntry().JourneyItems {
			if item.ID == m.editingID {
				item.Title = strings.TrimSpace(fm.Title)
				item.Scope = fm.Scope
				item.Link = fm.Link
				if err := j.UpdateJourneyItem(item); err != nil {
					return err
				}
				return j.Save(m.ctx)
			}
		}
		return journal.ErrNotFound

	case constants.StateEditTask:
		fm := m.taskForm
		var task models.Task
		if m.editingID == "" {
			task = j.AddTask(fm.Title)
		} else {
			t, ok := j.Task(m.editingID)
			if !ok {
				return journal.ErrNotFound
			}
			task = t
		}
		task.Title = strings.TrimSpace(fm.Title)
		task.Priority = fm.Priority
		task.DueTime = strings.TrimSpace(fm.DueTime)
		task.Memo = fm.Memo
		if due, err := calendar.Parse(strings.TrimSpace(fm.DueDate)); err == nil && !due.IsZero() {
			task.DueDate = due
		}
		if err := j.UpdateTask(task); err != nil {
			return err
		}
		return j.Save(m.ctx)

	case constants.StateEditSchedule:
		fm := m.scheduleForm
		item := j.AddSchedule(fm.Title)
		if start, err := calendar.Parse(strings.TrimSpace(fm.StartDate)); err == nil && !start.IsZero() {
			item.StartDate = start
			item.EndDate = start
		}
		item.StartTime = strings.TrimSpace(fm.StartTime)
		item.EndTime = strings.TrimSpace(fm.EndTime)
		item.Location = fm.Location
		item.Memo = fm.Memo
		item.Link = fm.Link
		item.Recurrence = models.RecurrenceRule{Frequency: fm.Frequency}
		if fm.Frequency != models.FrequencyNone {
			item.EndDate = calendar.Date{}
		}
		if fm.Frequency == models.FrequencyWeekly {
			days, err := models.ParseWeekdays(fm.Weekdays)
			if err != nil {
				_ = j.DeleteSchedule(item.ID)
				return err
			}
			item.Recurrence.DaysOfWeek = days
		}
		if err := j.UpdateSchedule(item); err != nil {
			_ = j.DeleteSchedule(item.ID)
			return err
		}
		return j.Save(m.ctx)

	case constants.StateEditChallenge:
		fm := m.challengeForm
		c, ok := j.Challenge(m.editingID)
		if !ok {
			return journal.ErrNotFound
		}
		c.Name = strings.TrimSpace(fm.Name)
		c.Goal = fm.Goal
		c.Time = strings.TrimSpace(fm.Time)
		end, err := calendar.Parse(strings.TrimSpace(fm.EndDate))
		if err != nil {
			return err
		}
		c.EndDate = end
		return j.UpdateChallenge(m.ctx, c)
	}
	return nil
}
