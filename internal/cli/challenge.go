package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
)

// Challenge changes are written by the journal as they happen, so these
// commands do not call Save.

type ChallengeCmd struct {
	Add     ChallengeAddCmd     `cmd:"" help:"Start a new challenge today."`
	List    ChallengeListCmd    `cmd:"" default:"1" help:"List challenges with achievement rates."`
	Check   ChallengeCheckCmd   `cmd:"" help:"Toggle a challenge's achievement on the day."`
	Edit    ChallengeEditCmd    `cmd:"" help:"Edit a challenge."`
	Replace ChallengeReplaceCmd `cmd:"" help:"Clear a challenge and restart it today."`
	Delete  ChallengeDeleteCmd  `cmd:"" help:"Delete a challenge."`
}

type ChallengeAddCmd struct {
	Name string `arg:"" optional:"" help:"Challenge name."`
	Goal string `short:"g" help:"Goal description."`
	End  string `short:"e" help:"End date."`
	At   string `short:"t" help:"Time of day (HH:MM)."`
}

func (c *ChallengeAddCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	ch, err := j.AddChallenge(context.Background())
	if errors.Is(err, journal.ErrChallengeLimit) {
		// The notifier has already told the user.
		return nil
	}
	if err != nil {
		return err
	}

	edit := ChallengeEditCmd{ID: ch.ID, Name: &c.Name, Goal: &c.Goal, At: &c.At}
	if c.End != "" {
		edit.End = &c.End
	}
	if err := edit.apply(j, &ch); err != nil {
		_ = j.DeleteChallenge(context.Background(), ch.ID)
		return err
	}
	if err := j.UpdateChallenge(context.Background(), ch); err != nil {
		return err
	}
	ctx.Printf("✓ Started challenge %s (%s) on %s\n", orName(ch), shortID(ch.ID), ch.StartDate)
	return nil
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Run(ctx *Context) error {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return err
	}
	challenges := j.Challenges()
	if len(challenges) == 0 {
		ctx.Println("No challenges. Start one with 'challenge add'.")
		return nil
	}
	date := j.CurrentDate()
	table := newTable("ID", "DONE", "NAME", "GOAL", "PERIOD", "DAYS", "RATE")
	for _, ch := range challenges {
		period := ch.StartDate.String() + " ~ "
		if !ch.EndDate.IsZero() {
			period += ch.EndDate.String()
		}
		table.AddRow(
			shortID(ch.ID),
			checkbox(ch.IsAchieved(date)),
			orName(ch),
			orDash(ch.Goal),
			period,
			len(ch.Achievements),
			rateLabel(ch.AchievementRate(j.Today())),
		)
	}
	ctx.Println(table)
	return nil
}

type ChallengeCheckCmd struct {
	ID string `arg:"" help:"Challenge ID or prefix."`
}

func (c *ChallengeCheckCmd) Run(ctx *Context) error {
	j, ch, err := findChallenge(ctx, c.ID)
	if err != nil {
		return err
	}
	date := j.CurrentDate()
	if err := j.ToggleAchievement(context.Background(), ch.ID, date); err != nil {
		return err
	}
	updated, _ := j.Challenge(ch.ID)
	state := "unchecked"
	if updated.IsAchieved(date) {
		state = "checked"
	}
	ctx.Printf("✓ %s %s for %s (rate %d%%)\n", orName(updated), state, date, updated.AchievementRate(j.Today()))
	return nil
}

type ChallengeEditCmd struct {
	ID    string  `arg:"" help:"Challenge ID or prefix."`
	Name  *string `help:"New name."`
	Goal  *string `short:"g" help:"New goal."`
	Start *string `short:"s" help:"New start date."`
	End   *string `short:"e" help:"New end date. Empty clears it."`
	At    *string `short:"t" help:"New time of day (HH:MM)."`
}

func (c *ChallengeEditCmd) Run(ctx *Context) error {
	j, ch, err := findChallenge(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := c.apply(j, &ch); err != nil {
		return err
	}
	return j.UpdateChallenge(context.Background(), ch)
}

func (c *ChallengeEditCmd) apply(j *journal.Journal, ch *models.Challenge) error {
	if c.Name != nil {
		ch.Name = strings.TrimSpace(*c.Name)
	}
	if c.Goal != nil {
		ch.Goal = *c.Goal
	}
	if c.Start != nil {
		d, err := ParseDate(*c.Start, j.Today())
		if err != nil {
			return err
		}
		ch.StartDate = d
	}
	if c.End != nil {
		ch.EndDate = calendar.Date{}
		if *c.End != "" {
			d, err := ParseDate(*c.End, j.Today())
			if err != nil {
				return err
			}
			ch.EndDate = d
		}
	}
	if c.At != nil {
		if err := models.ValidateClock(*c.At); err != nil {
			return err
		}
		ch.Time = *c.At
	}
	return nil
}

type ChallengeReplaceCmd struct {
	ID string `arg:"" help:"Challenge ID or prefix."`
}

func (c *ChallengeReplaceCmd) Run(ctx *Context) error {
	j, ch, err := findChallenge(ctx, c.ID)
	if err != nil {
		return err
	}
	replaced, err := j.ReplaceChallenge(context.Background(), ch.ID)
	if err != nil {
		return err
	}
	if !replaced {
		ctx.Println("Replace cancelled.")
		return nil
	}
	ctx.Printf("✓ Challenge %s cleared and restarted on %s\n", shortID(ch.ID), j.Today())
	return nil
}

type ChallengeDeleteCmd struct {
	ID string `arg:"" help:"Challenge ID or prefix."`
}

func (c *ChallengeDeleteCmd) Run(ctx *Context) error {
	j, ch, err := findChallenge(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := j.DeleteChallenge(context.Background(), ch.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted challenge %s\n", orName(ch))
	return nil
}

func findChallenge(ctx *Context, prefix string) (*journal.Journal, models.Challenge, error) {
	j, err := ctx.Journal(context.Background())
	if err != nil {
		return nil, models.Challenge{}, err
	}
	challenges := j.Challenges()
	ids := make([]string, len(challenges))
	for i, ch := range challenges {
		ids[i] = ch.ID
	}
	id, err := matchID("challenge", prefix, ids)
	if err != nil {
		return nil, models.Challenge{}, err
	}
	ch, _ := j.Challenge(id)
	return j, ch, nil
}

func rateLabel(rate int) string {
	label := fmt.Sprintf("%3d%% %s", rate, strings.Repeat("█", rate/10))
	switch {
	case rate >= 80:
		return doneColor(label)
	case rate < 30:
		return warnColor(label)
	default:
		return label
	}
}
