package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

type JourneyFormModel struct {
	Title string
	Scope string
	Link  string
}

type TaskFormModel struct {
	Title    string
	Priority models.Priority
	DueDate  string
	DueTime  string
	Memo     string
}

type ScheduleFormModel struct {
	Title     string
	StartDate string
	StartTime string
	EndTime   string
	Frequency models.Frequency
	Weekdays  string
	Location  string
	Memo      string
	Link      string
}

type ChallengeFormModel struct {
	Name    string
	Goal    string
	EndDate string
	Time    string
}

type ConfirmationFormModel struct {
	Confirmed bool
}

func validateClock(s string) error {
	return models.ValidateClock(strings.TrimSpace(s))
}

func validateDate(s string) error {
	_, err := calendar.Parse(strings.TrimSpace(s))
	if err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func NewMeditationForm(text *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("God's presence").
				Description("What did you notice today?").
				CharLimit(4000).
				Value(text),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewJourneyForm(fm *JourneyFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Scope").
				Description("e.g. chapter or pages").
				Value(&fm.Scope),
			huh.NewInput().
				Title("Link").
				Value(&fm.Link),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(requireText("title")),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("High", models.PriorityHigh),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("Low", models.PriorityLow),
				).
				Value(&fm.Priority),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD)").
				Value(&fm.DueDate).
				Validate(validateDate),
			huh.NewInput().
				Title("Due time (HH:MM)").
				Description("Leave empty for no time").
				Value(&fm.DueTime).
				Validate(validateClock),
			huh.NewInput().
				Title("Memo").
				Value(&fm.Memo),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewScheduleForm(fm *ScheduleFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validateDate),
			huh.NewInput().
				Title("Start time (HH:MM)").
				Value(&fm.StartTime).
				Validate(validateClock),
			huh.NewInput().
				Title("End time (HH:MM)").
				Value(&fm.EndTime).
				Validate(validateClock),
			huh.NewSelect[models.Frequency]().
				Title("Repeat").
				Options(
					huh.NewOption("Once", models.FrequencyNone),
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Monthly", models.FrequencyMonthly),
					huh.NewOption("Yearly", models.FrequencyYearly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Weekdays").
				Description("Weekly only, e.g. mo,we,fr").
				Value(&fm.Weekdays).
				Validate(func(s string) error {
					_, err := models.ParseWeekdays(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Location").
				Value(&fm.Location),
			huh.NewInput().
				Title("Memo").
				Value(&fm.Memo),
			huh.NewInput().
				Title("Link").
				Value(&fm.Link),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewChallengeForm(fm *ChallengeFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(requireText("name")),
			huh.NewInput().
				Title("Goal").
				Value(&fm.Goal),
			huh.NewInput().
				Title("End date (YYYY-MM-DD)").
				Description("Leave empty for an open-ended challenge").
				Value(&fm.EndDate).
				Validate(validateDate),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Time).
				Validate(validateClock),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewConfirmationForm(message string, fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
