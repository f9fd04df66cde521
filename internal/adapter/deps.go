package adapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/liftadapt/internal/accessory"
	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/selection"
	"github.com/claude/liftadapt/internal/substitution"
)

// PreferenceStore persists per-user preferences. GetPreferences returns an
// error matching apperr.ErrNotFound when nothing is stored yet.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID int) (models.Preferences, error)
	SavePreferences(ctx context.Context, userID int, p models.Preferences) error
}

// EventBus is the subscription side of the event bus.
type EventBus interface {
	Subscribe(topic string, h event.Handler) string
	Unsubscribe(id string) bool
}

// IdentityProvider resolves the user the service acts for.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (int, error)
}

// StaticIdentity always reports the same user.
type StaticIdentity int

// CurrentUserID implements IdentityProvider.
func (s StaticIdentity) CurrentUserID(context.Context) (int, error) {
	if s <= 0 {
		return 0, apperr.DependencyUnavailable("adapter.StaticIdentity", nil)
	}
	return int(s), nil
}

// Deps are the collaborators of a Service. A nil Store means preferences are
// neither loaded nor saved; a nil Bus means the cached readiness never
// changes after construction.
type Deps struct {
	Store    PreferenceStore
	Bus      EventBus
	Identity IdentityProvider
	Logger   *slog.Logger
	Clock    func() time.Time

	// Engine components; defaults are used when nil.
	Library  *accessory.Library
	Resolver *substitution.Resolver
	Selector *selection.Selector

	// DefaultFocus and DefaultReadiness seed users with nothing stored.
	DefaultFocus     models.AestheticFocus
	DefaultReadiness float64
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Library == nil {
		d.Library = accessory.NewLibrary()
	}
	if d.Resolver == nil {
		d.Resolver = substitution.NewResolver(d.Logger)
	}
	if d.Selector == nil {
		d.Selector = selection.NewSelector(d.Logger)
	}
	if !d.DefaultFocus.Valid() {
		d.DefaultFocus = models.DefaultFocus
	}
	if !models.ValidReadiness(d.DefaultReadiness) {
		d.DefaultReadiness = models.DefaultReadiness
	}
	return d
}
