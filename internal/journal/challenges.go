package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

// Every challenge change is written immediately.

func (j *Journal) Challenges() []models.Challenge {
	return append([]models.Challenge(nil), j.challenges...)
}

func (j *Journal) Challenge(id string) (models.Challenge, bool) {
	if i := j.challengeIndex(id); i >= 0 {
		return j.challenges[i], true
	}
	return models.Challenge{}, false
}

// AddChallenge starts a blank challenge today. With the collection full it
// signals SignalChallengeLimitReached and returns ErrChallengeLimit.
func (j *Journal) AddChallenge(ctx context.Context) (models.Challenge, error) {
	if len(j.challenges) >= constants.MaxChallenges {
		j.notify(SignalChallengeLimitReached)
		return models.Challenge{}, ErrChallengeLimit
	}
	c := models.Challenge{
		ID:           uuid.NewString(),
		StartDate:    j.clock.Today(),
		Achievements: []calendar.Date{},
	}
	j.challenges = append(j.challenges, c)
	return c, j.persistChallenges(ctx)
}

func (j *Journal) UpdateChallenge(ctx context.Context, c models.Challenge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	i := j.challengeIndex(c.ID)
	if i < 0 {
		return ErrNotFound
	}
	j.challenges[i] = c
	return j.persistChallenges(ctx)
}

func (j *Journal) DeleteChallenge(ctx context.Context, id string) error {
	i := j.challengeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	j.challenges = append(j.challenges[:i], j.challenges[i+1:]...)
	return j.persistChallenges(ctx)
}

func (j *Journal) ToggleAchievement(ctx context.Context, id string, date calendar.Date) error {
	i := j.challengeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	j.challenges[i].ToggleAchievement(date)
	return j.persistChallenges(ctx)
}

// ReplaceChallenge wipes a challenge for reuse once the confirmer agrees.
// It reports whether the reset happened. Without a confirmer nothing is reset.
func (j *Journal) ReplaceChallenge(ctx context.Context, id string) (bool, error) {
	i := j.challengeIndex(id)
	if i < 0 {
		return false, ErrNotFound
	}
	name := j.challenges[i].Name
	if name == "" {
		name = "this challenge"
	}
	prompt := fmt.Sprintf("Replace %q? Its goal and all achievements will be cleared.", name)
	if j.confirmer == nil || !j.confirmer.Confirm(prompt) {
		return false, nil
	}
	j.challenges[i].Reset(j.clock.Today())
	return true, j.persistChallenges(ctx)
}

func (j *Journal) challengeIndex(id string) int {
	for i, c := range j.challenges {
		if c.ID == id {
			return i
		}
	}
	return -1
}
