package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/claude/liftadapt/internal/cli"
	"github.com/claude/liftadapt/internal/localstore"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"Path to the local SQLite database." type:"path" default:"~/.local/share/liftadapt/liftadapt.db" env:"LIFTADAPT_DB"`
	User    int    `help:"User ID to act as." default:"1"`
	Verbose bool   `help:"Log debug output to stderr." short:"v"`

	Import      cli.ImportCmd      `cmd:"" help:"Import Alpha Progression CSV exports into the local database."`
	Upload      cli.UploadCmd      `cmd:"" help:"Upload new CSV exports to a LiftAdapt server."`
	Adapt       cli.AdaptCmd       `cmd:"" help:"Adapt a workout to readiness and aesthetic focus."`
	Substitute  cli.SubstituteCmd  `cmd:"" help:"Replace an exercise in a workout."`
	Suggest     cli.SuggestCmd     `cmd:"" help:"Suggest substitutions for an exercise."`
	Alternates  cli.AlternatesCmd  `cmd:"" help:"List known alternates for an exercise."`
	Select      cli.SelectCmd      `cmd:"" help:"Pick the best exercise from a candidate list."`
	Focus       cli.FocusCmd       `cmd:"" help:"Set the aesthetic focus."`
	Readiness   cli.ReadinessCmd   `cmd:"" help:"Record today's readiness score."`
	Split       cli.SplitCmd       `cmd:"" help:"Show the current split and focus."`
	Progression cli.ProgressionCmd `cmd:"" help:"Show progression trends from recent history."`
	Mcp         cli.McpCmd         `cmd:"" help:"Serve MCP tools over stdio."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("liftadapt-cli"),
		kong.Description("Adaptive exercise selection and load scaling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": Version},
	)

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	// stdout carries command output and the MCP stdio stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := localstore.Open(CLI.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := cli.NewContext(store, CLI.User, Version, log)
	err = ctx.Run(appCtx)
	appCtx.Close()
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
