package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftadapt/internal/adapter"
	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/ingest"
	lamcp "github.com/claude/liftadapt/internal/mcp"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/storage"
	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Store is the persistence the HTTP API needs. *storage.DB satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	SaveReadiness(ctx context.Context, userID int, score float64) error
	History(ctx context.Context, userID int, since, until time.Time) ([]models.Session, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumeSummaryPeriod, error)
	InsertAdaptationLog(ctx context.Context, l storage.AdaptationLog) error
	QueryAdaptationLogs(ctx context.Context, userID, limit int) ([]storage.AdaptationLog, error)
	InsertImportLog(ctx context.Context, l storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, l storage.ImportLog) error
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

var _ Store = (*storage.DB)(nil)

// Importer turns an uploaded export into stored sessions.
type Importer interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Publisher is the publishing side of the event bus.
type Publisher interface {
	Publish(e event.Event)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      Store
	engines *adapter.Registry
	bus     Publisher
	alpha   Importer
	log     *slog.Logger
	apiKey  string
	router  chi.Router
	whois   WhoIsClient
	now     func() time.Time
}

// New creates a new Server with all routes configured.
func New(db Store, engines *adapter.Registry, bus Publisher, alphaProvider Importer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		engines: engines,
		bus:     bus,
		alpha:   alphaProvider,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
		now:     time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Import endpoints (API key required)
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(s.identity)
		r.Post("/alpha", s.handleAlphaImport)
	})

	// Engine API (no auth, tsnet handles access)
	s.router.Group(func(r chi.Router) {
		r.Use(s.identity)
		r.Get("/api/v1/me", s.handleMe)
		r.Post("/api/v1/workouts/adapt", s.handleAdapt)
		r.Post("/api/v1/workouts/substitute", s.handleSubstitute)
		r.Post("/api/v1/substitutions", s.handleSuggestSubstitutions)
		r.Get("/api/v1/substitutions/{exercise}", s.handleAlternates)
		r.Post("/api/v1/exercises/select", s.handleSelect)
		r.Get("/api/v1/progression", s.handleProgression)
		r.Get("/api/v1/history", s.handleHistory)
		r.Get("/api/v1/volume", s.handleVolumeSummary)
		r.Get("/api/v1/split", s.handleSplit)
		r.Put("/api/v1/preferences/focus", s.handleUpdateFocus)
		r.Post("/api/v1/readiness", s.handleReadiness)
		r.Get("/api/v1/adaptations", s.handleAdaptationLogs)
		r.Get("/api/v1/imports", s.handleImportLogs)
	})
}

// SetTailscale switches request identity from the dev user to the tailnet
// user behind each connection.
func (s *Server) SetTailscale(c WhoIsClient) {
	s.whois = c
}

// SetMCP mounts the MCP server at /mcp over streamable HTTP. Tool calls see
// the same user as the REST API.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return lamcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.With(s.identity).Handle("/mcp", h)
}

// identity resolves the request's user via the tailnet when configured and
// falls back to the dev user otherwise.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			dev.ServeHTTP(w, r)
			return
		}
		TailscaleIdentity(s.whois, s.db, s.log)(next).ServeHTTP(w, r)
	})
}

// engine returns the adaptation service of the request's user.
func (s *Server) engine(r *http.Request, uid int) *adapter.Service {
	return s.engines.For(r.Context(), uid)
}
