package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/liftadapt/internal/models"
)

type AdaptCmd struct {
	Workout   string  `arg:"" default:"-" help:"Workout JSON file, or - for stdin."`
	Readiness float64 `help:"Readiness score 1-10. Defaults to the last logged score."`
}

func (c *AdaptCmd) Run(ctx *Context) error {
	w, err := ctx.readWorkout(c.Workout)
	if err != nil {
		return err
	}
	var readiness *float64
	if c.Readiness != 0 {
		readiness = &c.Readiness
	}
	return ctx.printJSON(ctx.engine(context.Background()).AdaptWorkout(w, readiness))
}

type SubstituteCmd struct {
	Workout      string  `arg:"" help:"Workout JSON file, or - for stdin."`
	Exercise     string  `required:"" help:"Exercise to replace."`
	With         string  `required:"" help:"Replacement exercise."`
	VolumeFactor float64 `default:"1.0" help:"Volume factor when the replacement is not a known alternative."`
	Rest         int     `help:"Rest adjustment in seconds when the replacement is not a known alternative."`
}

func (c *SubstituteCmd) Run(ctx *Context) error {
	w, err := ctx.readWorkout(c.Workout)
	if err != nil {
		return err
	}
	svc := ctx.engine(context.Background())

	alt := models.Alternative{Name: c.With, VolumeAdjustmentFactor: c.VolumeFactor, RestAdjustmentSeconds: c.Rest}
	for _, a := range svc.GetAlternates(c.Exercise) {
		if strings.EqualFold(a.Name, c.With) {
			alt = a
			break
		}
	}
	return ctx.printJSON(svc.Substitute(w, c.Exercise, alt))
}

type SuggestCmd struct {
	Exercise   string   `arg:"" help:"Exercise to replace."`
	Dislike    []string `help:"Exercise the user does not want (repeatable)."`
	Pain       string   `help:"Painful area, e.g. knee or lower back."`
	Equipment  []string `help:"Available equipment (repeatable)."`
	MaxMinutes int      `help:"Time available for the exercise."`
}

func (c *SuggestCmd) Run(ctx *Context) error {
	var constraints *models.Constraints
	if len(c.Equipment) > 0 || c.MaxMinutes > 0 {
		constraints = &models.Constraints{Equipment: c.Equipment, MaxMinutes: c.MaxMinutes}
	}
	res := ctx.engine(context.Background()).SuggestSubstitutions(c.Exercise, c.Dislike, c.Pain, constraints)
	return ctx.printJSON(res)
}

type AlternatesCmd struct {
	Exercise string `arg:"" help:"Exercise name."`
}

func (c *AlternatesCmd) Run(ctx *Context) error {
	alts := ctx.engine(context.Background()).GetAlternates(c.Exercise)
	if alts == nil {
		alts = []models.Alternative{}
	}
	return ctx.printJSON(alts)
}

type SelectCmd struct {
	Candidates []string `arg:"" help:"Candidates as name[:muscle group[:equipment]]."`
	Target     string   `help:"Target muscle group."`
	Experience string   `enum:"any,beginner,intermediate,advanced" default:"any" help:"Training age."`
}

func (c *SelectCmd) Run(ctx *Context) error {
	bg := context.Background()
	svc := ctx.engine(bg)

	since, until := svc.HistoryWindow()
	sessions, err := ctx.Store.History(bg, ctx.UserID, since, until)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(c.Candidates))
	for _, s := range c.Candidates {
		candidates = append(candidates, parseCandidate(s))
	}
	var level models.Experience
	if c.Experience != "any" {
		level = models.Experience(c.Experience)
	}
	profile := models.UserProfile{
		ExperienceLevel: level,
		Progression:     svc.Progression(sessions),
	}
	return ctx.printJSON(svc.SelectExerciseForUser(candidates, profile, c.Target))
}
