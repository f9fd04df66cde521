package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/models"
)

type FocusCmd struct {
	Focus string `arg:"" help:"v_taper, glutes, toned or functional."`
}

func (c *FocusCmd) Run(ctx *Context) error {
	focus, err := models.ParseFocus(c.Focus)
	if err != nil {
		return err
	}
	svc := ctx.engine(context.Background())
	if err := svc.UpdateAestheticFocus(context.Background(), focus); err != nil {
		return err
	}
	return ctx.printJSON(svc.GetSplitInfo())
}

type ReadinessCmd struct {
	Score float64 `arg:"" help:"Readiness score 1-10."`
}

func (c *ReadinessCmd) Run(ctx *Context) error {
	if !models.ValidReadiness(c.Score) {
		return fmt.Errorf("readiness %v is outside 1-10", c.Score)
	}
	bg := context.Background()
	svc := ctx.engine(bg)
	if err := ctx.Store.SaveReadiness(bg, ctx.UserID, c.Score); err != nil {
		return err
	}
	ctx.Bus.Publish(event.ReadinessUpdated{
		UserID:    ctx.UserID,
		Readiness: event.Readiness{ReadinessScore: c.Score},
		At:        time.Now(),
	})
	return ctx.printJSON(svc.GetSplitInfo())
}

type SplitCmd struct{}

func (c *SplitCmd) Run(ctx *Context) error {
	return ctx.printJSON(ctx.engine(context.Background()).GetSplitInfo())
}

type ProgressionCmd struct{}

func (c *ProgressionCmd) Run(ctx *Context) error {
	bg := context.Background()
	svc := ctx.engine(bg)
	since, until := svc.HistoryWindow()
	sessions, err := ctx.Store.History(bg, ctx.UserID, since, until)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	return ctx.printJSON(svc.Progression(sessions))
}
