// Package recurrence expands schedule definitions into concrete calendar days.
package recurrence

import (
	"sort"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

// DailySchedules is one agenda row: the schedules occurring on a date.
type DailySchedules struct {
	Date      calendar.Date         `json:"date"`
	Schedules []models.ScheduleItem `json:"schedules"`
}

// OccursOn reports whether the schedule is active on date. Nothing occurs
// before the schedule's start date.
func OccursOn(schedule models.ScheduleItem, date calendar.Date) bool {
	start := schedule.StartDate
	if date.Before(start) {
		return false
	}

	rule := schedule.Recurrence
	switch rule.Effective() {
	case models.FrequencyNone:
		end := schedule.EndDate
		if end.IsZero() {
			end = start
		}
		return !date.After(end)
	case models.FrequencyDaily:
		return true
	}

	// The remaining rules repeat the start date's weekday or day of month,
	// so a schedule without one never matches.
	if start.IsZero() {
		return false
	}
	switch rule.Effective() {
	case models.FrequencyWeekly:
		tag := models.TagFor(date.Weekday())
		if len(rule.DaysOfWeek) > 0 {
			return rule.HasDay(tag)
		}
		return date.Weekday() == start.Weekday()
	case models.FrequencyMonthly:
		// Days missing from a month (e.g. the 31st in April) never match.
		return date.Day == start.Day
	case models.FrequencyYearly:
		return date.Day == start.Day && date.Month == start.Month
	default:
		return false
	}
}

// BuildAgenda returns the occurrences across the AgendaDays days starting at
// windowStart. Days without occurrences are omitted and each day's schedules
// are ordered by start time, with an empty time counting as 00:00.
func BuildAgenda(schedules []models.ScheduleItem, windowStart calendar.Date) []DailySchedules {
	var agenda []DailySchedules
	for i := 0; i < constants.AgendaDays; i++ {
		day := windowStart.AddDays(i)

		var occurring []models.ScheduleItem
		for _, s := range schedules {
			if OccursOn(s, day) {
				occurring = append(occurring, s)
			}
		}
		if len(occurring) == 0 {
			continue
		}

		sort.SliceStable(occurring, func(a, b int) bool {
			return sortTime(occurring[a].StartTime) < sortTime(occurring[b].StartTime)
		})
		agenda = append(agenda, DailySchedules{Date: day, Schedules: occurring})
	}
	return agenda
}

func sortTime(t string) string {
	if t == "" {
		return "00:00"
	}
	return t
}
