package journal

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/recurrence"
)

func (j *Journal) Schedules() []models.ScheduleItem {
	return append([]models.ScheduleItem(nil), j.schedules...)
}

func (j *Journal) Schedule(id string) (models.ScheduleItem, bool) {
	if i := j.scheduleIndex(id); i >= 0 {
		return j.schedules[i], true
	}
	return models.ScheduleItem{}, false
}

// AddSchedule creates a one-off schedule on the current date.
func (j *Journal) AddSchedule(title string) models.ScheduleItem {
	item := models.ScheduleItem{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(title),
		StartDate:  j.currentDate,
		EndDate:    j.currentDate,
		Recurrence: models.RecurrenceRule{Frequency: models.FrequencyNone},
	}
	j.schedules = append(j.schedules, item)
	return item
}

// UpdateSchedule replaces a schedule. Weekday selections are dropped
// unless the rule is weekly.
func (j *Journal) UpdateSchedule(item models.ScheduleItem) error {
	item.Recurrence = item.Recurrence.WithFrequency(item.Recurrence.Effective())
	if err := item.Validate(); err != nil {
		return err
	}
	i := j.scheduleIndex(item.ID)
	if i < 0 {
		return ErrNotFound
	}
	j.schedules[i] = item
	return nil
}

func (j *Journal) DeleteSchedule(id string) error {
	i := j.scheduleIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	j.schedules = append(j.schedules[:i], j.schedules[i+1:]...)
	return nil
}

// Agenda is the two-week schedule window starting at the current date.
func (j *Journal) Agenda() []recurrence.DailySchedules {
	return recurrence.BuildAgenda(j.schedules, j.currentDate)
}

func (j *Journal) scheduleIndex(id string) int {
	for i, s := range j.schedules {
		if s.ID == id {
			return i
		}
	}
	return -1
}
