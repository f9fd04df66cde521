package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/claude/liftadapt/internal/ingest"
	"github.com/claude/liftadapt/internal/ingest/alpha"
	"github.com/claude/liftadapt/internal/localstore"
)

type ImportCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Alpha Progression CSV exports."`
	Force bool     `help:"Import files even if they were imported before."`
}

type importedFile struct {
	File    string         `json:"file"`
	Skipped bool           `json:"skipped,omitempty"`
	Result  *ingest.Result `json:"result,omitempty"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	bg := context.Background()
	provider := alpha.NewProvider(ctx.Store, ctx.Log)

	var out []importedFile
	for _, path := range c.Files {
		hash, err := localstore.HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		if !c.Force {
			done, err := ctx.Store.IsImported(bg, path, hash)
			if err != nil {
				return err
			}
			if done {
				out = append(out, importedFile{File: path, Skipped: true})
				continue
			}
		}

		res, err := importFile(bg, provider, path, ctx.UserID)
		if err != nil {
			return err
		}
		if err := ctx.Store.MarkImported(bg, path, hash); err != nil {
			return err
		}
		out = append(out, importedFile{File: path, Result: res})
	}
	return ctx.printJSON(out)
}

func importFile(ctx context.Context, p *alpha.Provider, path string, userID int) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := p.Ingest(ctx, f, userID)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return res, nil
}
