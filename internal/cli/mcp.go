package cli

import (
	"context"

	lamcp "github.com/claude/liftadapt/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type McpCmd struct {
	Remote string `help:"Read history from a LiftAdapt server instead of the local database."`
}

// Run serves MCP over stdio until stdin closes.
func (c *McpCmd) Run(ctx *Context) error {
	var ds lamcp.DataSource = ctx.Store
	if c.Remote != "" {
		ds = lamcp.NewHTTPClient(c.Remote)
	}
	s := lamcp.New(ctx.Engines, ds, ctx.Version, ctx.Log)
	return server.ServeStdio(s, server.WithStdioContextFunc(func(bg context.Context) context.Context {
		return lamcp.WithUserID(bg, ctx.UserID)
	}))
}
