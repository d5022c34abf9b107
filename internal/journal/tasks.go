package journal

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

// VisibleTasks selects the tasks shown for currentDate and orders them by
// due instant, then priority. On today every task due today or later is
// shown; on any other date only tasks due that day.
func VisibleTasks(tasks []models.Task, currentDate, today calendar.Date) []models.Task {
	visible := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate.IsZero() {
			continue
		}
		if currentDate == today {
			if t.DueDate.Before(today) {
				continue
			}
		} else if t.DueDate != currentDate {
			continue
		}
		visible = append(visible, t)
	}
	SortTasks(visible)
	return visible
}

// SortTasks orders tasks in place by due instant, then priority.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(a, b int) bool {
		at, bt := tasks[a].DueAt(), tasks[b].DueAt()
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		return tasks[a].Priority.Rank() < tasks[b].Priority.Rank()
	})
}

// Tasks returns every task in stored order.
func (j *Journal) Tasks() []models.Task {
	return append([]models.Task(nil), j.tasks...)
}

// VisibleTasks applies VisibleTasks to the journal's tasks and dates.
func (j *Journal) VisibleTasks() []models.Task {
	return VisibleTasks(j.tasks, j.currentDate, j.clock.Today())
}

func (j *Journal) Task(id string) (models.Task, bool) {
	for _, t := range j.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// AddTask creates a medium-priority task due on the current date.
func (j *Journal) AddTask(title string) models.Task {
	task := models.Task{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(title),
		Priority: models.PriorityMedium,
		DueDate:  j.currentDate,
	}
	j.tasks = append(j.tasks, task)
	return task
}

func (j *Journal) UpdateTask(task models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	i := j.taskIndex(task.ID)
	if i < 0 {
		return ErrNotFound
	}
	j.tasks[i] = task
	return nil
}

func (j *Journal) ToggleTask(id string) error {
	i := j.taskIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	j.tasks[i].Completed = !j.tasks[i].Completed
	return nil
}

func (j *Journal) DeleteTask(id string) error {
	i := j.taskIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	j.tasks = append(j.tasks[:i], j.tasks[i+1:]...)
	return nil
}

func (j *Journal) taskIndex(id string) int {
	for i, t := range j.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
