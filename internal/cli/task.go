package cli

import (
	"context"
	"strings"

	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a new task."`
	List   TaskListCmd   `cmd:"" default:"1" help:"List tasks due on the day."`
	Edit   TaskEditCmd   `cmd:"" help:"Edit a task."`
	Done   TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
}

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Priority string `short:"p" help:"Priority (high|medium|low)." default:"medium"`
	Due      string `short:"d" help:"Due date (YYYY-MM-DD, today, tomorrow or +/-N). Defaults to the current day."`
	At       string `short:"t" help:"Due time (HH:MM)."`
	Memo     string `short:"m" help:"Free-form memo."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	task := j.AddTask(c.Title)
	edit := TaskEditCmd{ID: task.ID, Memo: &c.Memo, At: &c.At, Priority: &c.Priority}
	if c.Due != "" {
		edit.Due = &c.Due
	}
	if err := edit.apply(j, &task); err != nil {
		_ = j.DeleteTask(task.ID)
		return err
	}
	if err := j.UpdateTask(task); err != nil {
		_ = j.DeleteTask(task.ID)
		return err
	}
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Added task %s (%s) due %s\n", task.Title, shortID(task.ID), task.DueDate)
	return nil
}

type TaskListCmd struct {
	All bool `short:"a" help:"Show every task instead of the ones due on the day."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	tasks := j.VisibleTasks()
	if c.All {
		tasks = j.Tasks()
		journal.SortTasks(tasks)
	}
	if len(tasks) == 0 {
		ctx.Println("No tasks found.")
		return nil
	}

	table := newTable("ID", "DONE", "PRIORITY", "TITLE", "DUE", "MEMO")
	for _, t := range tasks {
		due := t.DueDate.String()
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		if !t.Completed && t.DueDate.Before(j.Today()) {
			due = warnColor(due)
		}
		table.AddRow(shortID(t.ID), checkbox(t.Completed), priorityLabel(t.Priority), t.Title, due, orDash(t.Memo))
	}
	ctx.Println(table)
	return nil
}

type TaskEditCmd struct {
	ID       string  `arg:"" help:"Task ID or prefix."`
	Title    *string `help:"New title."`
	Priority *string `short:"p" help:"New priority (high|medium|low)."`
	Due      *string `short:"d" help:"New due date."`
	At       *string `short:"t" help:"New due time (HH:MM). Empty clears it."`
	Memo     *string `short:"m" help:"New memo."`
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	j, task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := c.apply(j, &task); err != nil {
		return err
	}
	if err := j.UpdateTask(task); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

func (c *TaskEditCmd) apply(j *journal.Journal, task *models.Task) error {
	if c.Title != nil {
		task.Title = strings.TrimSpace(*c.Title)
	}
	if c.Priority != nil {
		p, err := models.ParsePriority(*c.Priority)
		if err != nil {
			return err
		}
		task.Priority = p
	}
	if c.Due != nil {
		d, err := ParseDate(*c.Due, j.Today())
		if err != nil {
			return err
		}
		task.DueDate = d
	}
	if c.At != nil {
		if err := models.ValidateClock(*c.At); err != nil {
			return err
		}
		task.DueTime = *c.At
	}
	if c.Memo != nil {
		task.Memo = *c.Memo
	}
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID or prefix."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	j, task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.ToggleTask(task.ID); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID or prefix."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	j, task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.DeleteTask(task.ID); err != nil {
		return err
	}
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted task %s\n", task.Title)
	return nil
}

func findTask(ctx *Context, prefix string) (*journal.Journal, models.Task, error) {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return nil, models.Task{}, err
	}
	tasks := j.Tasks()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	id, err := matchID("task", prefix, ids)
	if err != nil {
		return nil, models.Task{}, err
	}
	task, _ := j.Task(id)
	return j, task, nil
}

func priorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return warnColor(string(p))
	case models.PriorityLow:
		return dimColor(string(p))
	default:
		return string(p)
	}
}
