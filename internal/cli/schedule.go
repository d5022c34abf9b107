package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
)

type ScheduleCmd struct {
	Add    ScheduleAddCmd    `cmd:"" help:"Add a schedule."`
	List   ScheduleListCmd   `cmd:"" default:"1" help:"List every schedule."`
	Edit   ScheduleEditCmd   `cmd:"" help:"Edit a schedule."`
	Done   ScheduleDoneCmd   `cmd:"" help:"Toggle a schedule's completion."`
	Delete ScheduleDeleteCmd `cmd:"" help:"Delete a schedule."`
}

type ScheduleAddCmd struct {
	Title    string `arg:"" help:"Schedule title."`
	Start    string `short:"s" help:"Start date. Defaults to the current day."`
	End      string `short:"e" help:"End date. Defaults to the start date for one-off schedules."`
	From     string `help:"Start time (HH:MM)."`
	To       string `help:"End time (HH:MM)."`
	Repeat   string `short:"r" help:"Recurrence (none|daily|weekly|monthly|yearly)." default:"none" enum:"none,daily,weekly,monthly,yearly"`
	Weekdays string `short:"w" help:"Comma-separated weekdays for weekly recurrence (e.g. mo,we,fr)."`
	Location string `help:"Location."`
	Memo     string `short:"m" help:"Memo."`
	Link     string `short:"l" help:"Related link."`
}

func (c *ScheduleAddCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	item := j.AddSchedule(c.Title)
	edit := ScheduleEditCmd{
		ID:       item.ID,
		From:     &c.From,
		To:       &c.To,
		Repeat:   &c.Repeat,
		Location: &c.Location,
		Memo:     &c.Memo,
		Link:     &c.Link,
	}
	if c.Start != "" {
		edit.Start = &c.Start
	}
	if c.End != "" {
		edit.End = &c.End
	}
	if c.Weekdays != "" {
		edit.Weekdays = &c.Weekdays
	}
	if err := edit.apply(j, &item); err != nil {
		_ = j.DeleteSchedule(item.ID)
		return err
	}
	// A repeating schedule without an explicit end runs indefinitely.
	if c.End == "" {
		item.EndDate = item.StartDate
		if item.Recurrence.Effective() != models.FrequencyNone {
			item.EndDate = calendar.Date{}
		}
	}
	if err := j.UpdateSchedule(item); err != nil {
		_ = j.DeleteSchedule(item.ID)
		return err
	}
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Added schedule %s (%s), %s from %s\n", item.Title, shortID(item.ID), item.Recurrence, item.StartDate)
	return nil
}

type ScheduleListCmd struct{}

func (c *ScheduleListCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	schedules := j.Schedules()
	if len(schedules) == 0 {
		ctx.Println("No schedules found.")
		return nil
	}
	table := newTable("ID", "DONE", "TITLE", "START", "END", "TIME", "REPEAT", "LOCATION")
	for _, s := range schedules {
		table.AddRow(
			shortID(s.ID),
			checkbox(s.Completed),
			s.Title,
			orDash(s.StartDate.String()),
			orDash(s.EndDate.String()),
			orDash(strings.TrimSpace(timeRange(s))),
			s.Recurrence.String(),
			orDash(s.Location),
		)
	}
	ctx.Println(table)
	return nil
}

type ScheduleEditCmd struct {
	ID       string  `arg:"" help:"Schedule ID or prefix."`
	Title    *string `help:"New title."`
	Start    *string `short:"s" help:"New start date."`
	End      *string `short:"e" help:"New end date. Empty clears it."`
	From     *string `help:"New start time (HH:MM)."`
	To       *string `help:"New end time (HH:MM)."`
	Repeat   *string `short:"r" help:"New recurrence (none|daily|weekly|monthly|yearly)."`
	Weekdays *string `short:"w" help:"New comma-separated weekdays for weekly recurrence."`
	Location *string `help:"New location."`
	Memo     *string `short:"m" help:"New memo."`
	Link     *string `short:"l" help:"New link."`
}

func (c *ScheduleEditCmd) Run(ctx *Context) error {
	j, item, err := findSchedule(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := c.apply(j, &item); err != nil {
		return err
	}
	if err := j.UpdateSchedule(item); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

func (c *ScheduleEditCmd) apply(j *journal.Journal, item *models.ScheduleItem) error {
	if c.Title != nil {
		item.Title = strings.TrimSpace(*c.Title)
	}
	if c.Start != nil {
		d, err := ParseDate(*c.Start, j.Today())
		if err != nil {
			return err
		}
		item.StartDate = d
	}
	if c.End != nil {
		if *c.End == "" {
			item.EndDate = calendar.Date{}
		} else {
			d, err := ParseDate(*c.End, j.Today())
			if err != nil {
				return err
			}
			item.EndDate = d
		}
	}
	if c.From != nil {
		item.StartTime = *c.From
	}
	if c.To != nil {
		item.EndTime = *c.To
	}
	if c.Repeat != nil {
		f := models.Frequency(strings.ToLower(strings.TrimSpace(*c.Repeat)))
		if !f.IsValid() {
			return fmt.Errorf("%w: %q", models.ErrInvalidFrequency, *c.Repeat)
		}
		item.Recurrence = item.Recurrence.WithFrequency(f)
	}
	if c.Weekdays != nil {
		if item.Recurrence.Effective() != models.FrequencyWeekly {
			return fmt.Errorf("weekdays only apply to weekly schedules")
		}
		days, err := models.ParseWeekdays(*c.Weekdays)
		if err != nil {
			return err
		}
		item.Recurrence.DaysOfWeek = days
	}
	if c.Location != nil {
		item.Location = *c.Location
	}
	if c.Memo != nil {
		item.Memo = *c.Memo
	}
	if c.Link != nil {
		item.Link = *c.Link
	}
	return nil
}

type ScheduleDoneCmd struct {
	ID string `arg:"" help:"Schedule ID or prefix."`
}

func (c *ScheduleDoneCmd) Run(ctx *Context) error {
	j, item, err := findSchedule(ctx, c.ID)
	if err != nil {
		return err
	}
	item.Completed = !item.Completed
	if err := j.UpdateSchedule(item); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

type ScheduleDeleteCmd struct {
	ID string `arg:"" help:"Schedule ID or prefix."`
}

func (c *ScheduleDeleteCmd) Run(ctx *Context) error {
	j, item, err := findSchedule(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.DeleteSchedule(item.ID); err != nil {
		return err
	}
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted schedule %s\n", item.Title)
	return nil
}

type AgendaCmd struct{}

func (c *AgendaCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	agenda := j.Agenda()
	if len(agenda) == 0 {
		start := j.CurrentDate()
		ctx.Printf("Nothing scheduled from %s to %s.\n", start, start.AddDays(constants.AgendaDays-1))
		return nil
	}

	table := newTable("DATE", "DAY", "TIME", "TITLE", "LOCATION")
	for _, day := range agenda {
		for i, s := range day.Schedules {
			date, weekday := "", ""
			if i == 0 {
				date, weekday = day.Date.String(), day.Date.Weekday().String()[:3]
			}
			title := s.Title
			if s.Completed {
				title = doneColor(title)
			}
			table.AddRow(date, weekday, orDash(strings.TrimSpace(timeRange(s))), title, orDash(s.Location))
		}
	}
	ctx.Println(table)
	return nil
}

func findSchedule(ctx *Context, prefix string) (*journal.Journal, models.ScheduleItem, error) {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return nil, models.ScheduleItem{}, err
	}
	schedules := j.Schedules()
	ids := make([]string, len(schedules))
	for i, s := range schedules {
		ids[i] = s.ID
	}
	id, err := matchID("schedule", prefix, ids)
	if err != nil {
		return nil, models.ScheduleItem{}, err
	}
	item, _ := j.Schedule(id)
	return j, item, nil
}
