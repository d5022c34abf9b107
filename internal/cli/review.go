package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
)

type ReviewCmd struct {
	Open   ReviewOpenCmd   `cmd:"" default:"withargs" help:"Look back a review interval (1, 3, 7, 14 or 30 days)."`
	Status ReviewStatusCmd `cmd:"" help:"Show which review intervals are done."`
}

type ReviewOpenCmd struct {
	Days  int  `arg:"" help:"Days ago to review."`
	Plain bool `help:"Print markdown without terminal styling."`
}

// Run shows the past day and marks it reviewed on the way back.
func (c *ReviewOpenCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	if err := j.JumpBack(c.Days); err != nil {
		return err
	}

	md := RenderDay(j)
	if c.Plain {
		ctx.Printf("%s", md)
	} else {
		out, err := glamour.Render(md, "auto")
		if err != nil {
			return fmt.Errorf("failed to render: %w", err)
		}
		ctx.Printf("%s", out)
	}

	date := j.CurrentDate()
	if err := j.ReturnToToday(context.Background()); err != nil {
		return err
	}
	if j.IsReviewed(date) {
		ctx.Printf("✓ Reviewed %s\n", date)
	}
	return nil
}

type ReviewStatusCmd struct{}

func (c *ReviewStatusCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	table := newTable("AGO", "DATE", "REVIEWED")
	for _, t := range j.ReviewTargets() {
		status := dimColor("no")
		if t.Reviewed {
			status = doneColor("yes")
		}
		table.AddRow(fmt.Sprintf("%dd", t.DaysAgo), t.Date.String(), status)
	}
	ctx.Println(table)
	return nil
}

type SavedCmd struct {
	Limit int `short:"n" help:"Show at most this many dates (0 for all)." default:"0"`
}

func (c *SavedCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	dates := j.SavedDates()
	if len(dates) == 0 {
		ctx.Println("No saved entries.")
		return nil
	}
	if c.Limit > 0 && len(dates) > c.Limit {
		dates = dates[:c.Limit]
	}

	table := newTable("DATE", "DAY", "JOURNEY", "MEDITATION", "REVIEWED")
	for _, d := range dates {
		entry := j.Entry(d)
		done := 0
		for _, item := range entry.JourneyItems {
			if item.Completed {
				done++
			}
		}
		reviewed := ""
		if j.IsReviewed(d) {
			reviewed = doneColor("✓")
		}
		table.AddRow(
			d.String(),
			d.Weekday().String()[:3],
			fmt.Sprintf("%d/%d", done, len(entry.JourneyItems)),
			orDash(excerpt(entry.Meditation.GodsPresence, 40)),
			reviewed,
		)
	}
	ctx.Println(table)
	return nil
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
