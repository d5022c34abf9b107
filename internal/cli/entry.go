package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
)

type MeditationCmd struct {
	Set   MeditationSetCmd   `cmd:"" default:"withargs" help:"Write the meditation for the day."`
	Clear MeditationClearCmd `cmd:"" help:"Clear the meditation for the day."`
}

type MeditationSetCmd struct {
	Text []string `arg:"" optional:"" help:"Meditation text. Prints the current text when omitted."`
}

func (c *MeditationSetCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	if len(c.Text) == 0 {
		ctx.Println(orDash(j.CurrentEntry().Meditation.GodsPresence))
		return nil
	}
	j.SetMeditation(strings.Join(c.Text, " "))
	return ctx.Save(context.Background())
}

type MeditationClearCmd struct{}

func (c *MeditationClearCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	j.SetMeditation("")
	return ctx.Save(context.Background())
}

type JourneyCmd struct {
	Add    JourneyAddCmd    `cmd:"" help:"Add a journey item."`
	List   JourneyListCmd   `cmd:"" default:"1" help:"List journey items."`
	Edit   JourneyEditCmd   `cmd:"" help:"Edit a journey item."`
	Done   JourneyDoneCmd   `cmd:"" help:"Toggle a journey item's completion."`
	Delete JourneyDeleteCmd `cmd:"" help:"Delete a journey item."`
}

type JourneyAddCmd struct {
	Title string `arg:"" help:"Item title."`
	Scope string `short:"s" help:"Scope, such as a book or chapter."`
	Link  string `short:"l" help:"Related link."`
}

func (c *JourneyAddCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	item := j.AddJourneyItem(c.Title, c.Scope, c.Link)
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Added journey item %s (%s)\n", item.Title, shortID(item.ID))
	return nil
}

type JourneyListCmd struct{}

func (c *JourneyListCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	items := j.CurrentEntry().JourneyItems
	if len(items) == 0 {
		ctx.Printf("No journey items for %s.\n", j.CurrentDate())
		return nil
	}
	table := newTable("ID", "DONE", "TITLE", "SCOPE", "LINK")
	for _, item := range items {
		table.AddRow(shortID(item.ID), checkbox(item.Completed), item.Title, orDash(item.Scope), orDash(item.Link))
	}
	ctx.Println(table)
	return nil
}

type JourneyEditCmd struct {
	ID    string  `arg:"" help:"Journey item ID or prefix."`
	Title *string `help:"New title."`
	Scope *string `short:"s" help:"New scope."`
	Link  *string `short:"l" help:"New link."`
}

func (c *JourneyEditCmd) Run(ctx *Context) error {
	j, item, err := findJourneyItem(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.Title != nil {
		item.Title = strings.TrimSpace(*c.Title)
	}
	if c.Scope != nil {
		item.Scope = *c.Scope
	}
	if c.Link != nil {
		item.Link = *c.Link
	}
	if err := j.UpdateJourneyItem(item); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

type JourneyDoneCmd struct {
	ID string `arg:"" help:"Journey item ID or prefix."`
}

func (c *JourneyDoneCmd) Run(ctx *Context) error {
	j, item, err := findJourneyItem(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.ToggleJourneyItem(item.ID); err != nil {
		return err
	}
	return ctx.Save(context.Background())
}

type JourneyDeleteCmd struct {
	ID string `arg:"" help:"Journey item ID or prefix."`
}

func (c *JourneyDeleteCmd) Run(ctx *Context) error {
	j, item, err := findJourneyItem(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.DeleteJourneyItem(item.ID); err != nil {
		return err
	}
	if err := ctx.Save(context.Background()); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted journey item %s\n", item.Title)
	return nil
}

func findJourneyItem(ctx *Context, prefix string) (*journal.Journal, models.JourneyItem, error) {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return nil, models.JourneyItem{}, err
	}
	items := j.CurrentEntry().JourneyItems
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	id, err := matchID("journey item", prefix, ids)
	if err != nil {
		return nil, models.JourneyItem{}, fmt.Errorf("%w on %s", err, j.CurrentDate())
	}
	for _, item := range items {
		if item.ID == id {
			return j, item, nil
		}
	}
	return nil, models.JourneyItem{}, journal.ErrNotFound
}
