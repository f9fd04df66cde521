package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftadapt/internal/accessory"
	"github.com/claude/liftadapt/internal/adapter"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Engines hands out per-user adaptation services. *adapter.Registry
// satisfies it.
type Engines interface {
	For(ctx context.Context, userID int) *adapter.Service
	Library() *accessory.Library
}

var _ Engines = (*adapter.Registry)(nil)

// New creates an MCP server with all tools and resources registered.
func New(engines Engines, ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftAdapt", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftAdapt adapts strength workouts to the user's readiness and aesthetic focus, suggests exercise substitutions and picks exercises from training history. All state is scoped to the authenticated user."),
	)

	h := &handlers{engines: engines, ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolAdaptWorkout, Handler: h.adaptWorkout},
		server.ServerTool{Tool: toolSuggestSubstitutions, Handler: h.suggestSubstitutions},
		server.ServerTool{Tool: toolGetAlternates, Handler: h.getAlternates},
		server.ServerTool{Tool: toolSelectExercise, Handler: h.selectExercise},
		server.ServerTool{Tool: toolGetSplitInfo, Handler: h.getSplitInfo},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resAccessoryLibrary, Handler: h.accessoryLibrary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	engines Engines
	ds      DataSource
	log     *slog.Logger
}

var resAccessoryLibrary = mcp.NewResource(
	"liftadapt://accessory_library",
	"Accessory Library",
	mcp.WithResourceDescription("Accessory exercises appended for each aesthetic focus, with base sets and reps"),
	mcp.WithMIMEType("application/json"),
)
