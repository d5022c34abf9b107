package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
)

type ShowCmd struct {
	Plain bool `help:"Print markdown without terminal styling."`
	Width int  `help:"Word wrap width." default:"80"`
}

func (c *ShowCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	md := RenderDay(j)
	if c.Plain {
		ctx.Printf("%s", md)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(c.Width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	ctx.Printf("%s", out)
	return nil
}

// RenderDay formats the journal's current date as markdown.
func RenderDay(j *journal.Journal) string {
	var b strings.Builder
	date := j.CurrentDate()
	fmt.Fprintf(&b, "# %s %s\n\n", date, date.Weekday())
	switch today := j.Today(); {
	case date.Before(today):
		fmt.Fprintf(&b, "_Reviewing %d day(s) ago_\n\n", calendar.DaysBetween(date, today))
	case date.After(today):
		fmt.Fprintf(&b, "_Planning %d day(s) ahead_\n\n", calendar.DaysBetween(today, date))
	}

	entry := j.CurrentEntry()
	b.WriteString("## Meditation\n\n")
	if text := strings.TrimSpace(entry.Meditation.GodsPresence); text != "" {
		fmt.Fprintf(&b, "%s\n\n", text)
	} else {
		b.WriteString("_Nothing written yet._\n\n")
	}

	b.WriteString("## Journey\n\n")
	if len(entry.JourneyItems) == 0 {
		b.WriteString("_No journey items._\n\n")
	}
	for _, item := range entry.JourneyItems {
		fmt.Fprintf(&b, "- %s %s", mdCheck(item.Completed), item.Title)
		if item.Scope != "" {
			fmt.Fprintf(&b, " _(%s)_", item.Scope)
		}
		if item.Link != "" {
			fmt.Fprintf(&b, " [link](%s)", item.Link)
		}
		b.WriteString("\n")
	}
	if len(entry.JourneyItems) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Tasks\n\n")
	tasks := j.VisibleTasks()
	if len(tasks) == 0 {
		b.WriteString("_No tasks due._\n\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s **%s** %s", mdCheck(t.Completed), t.Priority, t.Title)
		if t.DueDate != date {
			fmt.Fprintf(&b, " (due %s)", t.DueDate)
		}
		if t.DueTime != "" {
			fmt.Fprintf(&b, " at %s", t.DueTime)
		}
		b.WriteString("\n")
	}
	if len(tasks) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Schedule\n\n")
	var todays []models.ScheduleItem
	for _, day := range j.Agenda() {
		if day.Date == date {
			todays = day.Schedules
		}
	}
	if len(todays) == 0 {
		b.WriteString("_Nothing scheduled._\n\n")
	}
	for _, s := range todays {
		fmt.Fprintf(&b, "- %s %s%s\n", mdCheck(s.Completed), timeRange(s), s.Title)
	}
	if len(todays) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Challenges\n\n")
	challenges := j.Challenges()
	if len(challenges) == 0 {
		b.WriteString("_No challenges._\n")
	}
	for _, ch := range challenges {
		fmt.Fprintf(&b, "- %s %s: %d%%\n", mdCheck(ch.IsAchieved(date)), orName(ch), ch.AchievementRate(j.Today()))
	}
	return b.String()
}


func mdCheck(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func timeRange(s models.ScheduleItem) string {
	switch {
	case s.StartTime != "" && s.EndTime != "":
		return s.StartTime + "-" + s.EndTime + " "
	case s.StartTime != "":
		return s.StartTime + " "
	default:
		return ""
	}
}

func orName(c models.Challenge) string {
	if strings.TrimSpace(c.Name) == "" {
		return "(unnamed)"
	}
	return c.Name
}
