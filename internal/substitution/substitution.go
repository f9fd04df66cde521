// Package substitution proposes safe or preferred replacements for an exercise.
package substitution

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/models"
)

// MaxSuggestions is how many alternatives Suggest returns.
const MaxSuggestions = 2

// FailureMessage is returned when suggesting fails internally.
const FailureMessage = "Unable to suggest alternatives"

// Result is the outcome of Suggest.
type Result struct {
	Exercise     string               `json:"exercise"`
	Alternatives []models.Alternative `json:"alternatives"`
	Message      string               `json:"message"`
}

// Resolver looks up and filters alternatives.
type Resolver struct {
	rules   map[string][]models.Alternative
	aliases map[string]string
	pain    []PainFilter
	log     *slog.Logger
}

// NewResolver returns a resolver over the built-in rule tables.
func NewResolver(log *slog.Logger) *Resolver {
	return NewResolverWithRules(Rules, PainFilters, log).withAliases(aliases)
}

// NewResolverWithRules returns a resolver over caller-supplied tables.
// Rule keys must already be lower-cased.
func NewResolverWithRules(rules map[string][]models.Alternative, pain []PainFilter, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Resolver{rules: rules, aliases: map[string]string{}, pain: pain, log: log}
}

func (r *Resolver) withAliases(a map[string]string) *Resolver {
	r.aliases = a
	return r
}

func (r *Resolver) lookup(name string) ([]models.Alternative, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alts, ok := r.rules[key]; ok {
		return alts, true
	}
	if canon, ok := r.aliases[key]; ok {
		alts, ok := r.rules[canon]
		return alts, ok
	}
	return nil, false
}

// Alternates returns every alternative for name, unfiltered. Unknown
// exercises yield an empty list.
func (r *Resolver) Alternates(name string) []models.Alternative {
	alts, _ := r.lookup(name)
	return append([]models.Alternative{}, alts...)
}

// Suggest returns up to MaxSuggestions alternatives for name after removing
// disliked names, applying the pain-location filter and the equipment/time
// constraints. It never panics; internal failures produce an empty list
// with FailureMessage.
func (r *Resolver) Suggest(name string, dislikes []string, painLocation string, c *models.Constraints) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("suggest substitutions failed", "exercise", name, "error", apperr.Recovered("substitution.Suggest", p))
			res = Result{Exercise: name, Alternatives: []models.Alternative{}, Message: FailureMessage}
		}
	}()

	if strings.TrimSpace(name) == "" {
		r.log.Warn("suggest substitutions", "error", apperr.Validation("substitution.Suggest", "exercise name is required"))
		return Result{Alternatives: []models.Alternative{}, Message: "Exercise name is required"}
	}

	alts, ok := r.lookup(name)
	if !ok {
		r.log.Debug("no substitution rule", "exercise", name)
		return Result{
			Exercise:     name,
			Alternatives: []models.Alternative{},
			Message:      fmt.Sprintf("No substitution rules found for %s", name),
		}
	}

	filtered := FilterDislikes(alts, dislikes)
	var pf *PainFilter
	if painLocation != "" {
		pf = r.painFilter(painLocation)
		if pf == nil {
			r.log.Debug("no pain filter for location", "location", painLocation)
		} else {
			filtered = pf.Apply(filtered)
		}
	}
	if c != nil {
		filtered = FilterConstraints(filtered, *c)
	}

	if len(filtered) == 0 {
		return Result{
			Exercise:     name,
			Alternatives: []models.Alternative{},
			Message:      fmt.Sprintf("No suitable alternatives for %s match your preferences and constraints", name),
		}
	}
	if len(filtered) > MaxSuggestions {
		filtered = filtered[:MaxSuggestions]
	}

	msg := fmt.Sprintf("Found %d alternative(s) for %s", len(filtered), name)
	if pf != nil {
		msg += fmt.Sprintf(", adjusted for %s pain", pf.Location)
	}
	return Result{Exercise: name, Alternatives: filtered, Message: msg}
}

func (r *Resolver) painFilter(location string) *PainFilter {
	loc := strings.ToLower(strings.TrimSpace(location))
	for i := range r.pain {
		if strings.Contains(loc, r.pain[i].Location) {
			return &r.pain[i]
		}
	}
	return nil
}

// FilterDislikes drops alternatives whose name contains any disliked term,
// case-insensitively. Blank terms are ignored.
func FilterDislikes(alts []models.Alternative, dislikes []string) []models.Alternative {
	terms := make([]string, 0, len(dislikes))
	for _, d := range dislikes {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			terms = append(terms, d)
		}
	}
	out := make([]models.Alternative, 0, len(alts))
	for _, a := range alts {
		if !containsAny(strings.ToLower(a.Name), terms) {
			out = append(out, a)
		}
	}
	return out
}

// Apply drops excluded alternatives and moves preferred ones to the front.
func (f PainFilter) Apply(alts []models.Alternative) []models.Alternative {
	out := make([]models.Alternative, 0, len(alts))
	for _, a := range alts {
		if !containsAny(strings.ToLower(a.Name), f.Exclude) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return f.prefers(out[i]) && !f.prefers(out[j])
	})
	return out
}

func (f PainFilter) prefers(a models.Alternative) bool {
	return containsAny(strings.ToLower(a.Name), f.Prefer)
}

// FilterConstraints keeps alternatives that fit the equipment allow-list
// and time budget. Alternatives missing the relevant metadata pass.
func FilterConstraints(alts []models.Alternative, c models.Constraints) []models.Alternative {
	allowed := make(map[string]bool, len(c.Equipment))
	for _, e := range c.Equipment {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = true
		}
	}
	out := make([]models.Alternative, 0, len(alts))
	for _, a := range alts {
		if len(allowed) > 0 && a.Equipment != "" && !allowed[strings.ToLower(a.Equipment)] {
			continue
		}
		if c.MaxMinutes > 0 && a.EstimatedMinutes > 0 && a.EstimatedMinutes > c.MaxMinutes {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
