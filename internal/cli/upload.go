package cli

import (
	"context"

	"github.com/claude/liftadapt/internal/upload"
)

type UploadCmd struct {
	Dir    string `arg:"" type:"existingdir" help:"Directory of Alpha Progression CSV exports."`
	Server string `required:"" help:"LiftAdapt server URL (e.g. http://liftadapt)."`
	APIKey string `name:"api-key" env:"LIFTADAPT_API_KEY" required:"" help:"Server API key."`
	DryRun bool   `help:"Parse and count without sending."`
}

func (c *UploadCmd) Run(ctx *Context) error {
	client := upload.NewClient(c.Server, c.APIKey)
	ledger := ctx.Store.Ledger("upload " + c.Server)
	stats, err := upload.New(client, ledger, c.Dir, c.DryRun, ctx.Log).Run(context.Background())
	if err != nil {
		return err
	}
	return ctx.printJSON(stats)
}
