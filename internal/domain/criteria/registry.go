// Package criteria holds named per-year predicates that extend how awards
// decide whether a calendar year qualifies.
//
// A Registry is populated once at start-up and passed to the evaluation
// engine; it is safe for concurrent reads afterwards.
package criteria

import (
	"fmt"
	"sort"
	"sync"

	"github.com/okian/medalist/internal/domain/model"
)

// YearContext is everything a predicate may inspect about one year.
type YearContext struct {
	Year int
	// Age is nil when the date of birth is unknown.
	Age *int
	// Records holds the valid activity records logged in Year.
	Records []model.ActivityRecord
	// Unlocked holds awards unlocked on or before Year.
	Unlocked []model.UnlockedAward
	// Params comes from the requirement that invoked the predicate.
	Params map[string]any
}

// Predicate reports whether a year qualifies.
type Predicate func(YearContext) bool

// Registry maps criterion names to predicates.
type Registry struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{preds: make(map[string]Predicate)}
}

// Register adds a predicate under name. Names are unique.
func (r *Registry) Register(name string, p Predicate) error {
	if name == "" {
		return ErrEmptyName
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNilPredicate, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.preds[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.preds[name] = p
	return nil
}

// Lookup returns the predicate registered under name.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[name]
	return p, ok
}

// Names lists registered criteria in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.preds))
	for n := range r.preds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterCEL compiles each expression and registers it under its name.
func (r *Registry) RegisterCEL(exprs map[string]string) error {
	names := make([]string, 0, len(exprs))
	for n := range exprs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p, err := CompileCEL(exprs[n])
		if err != nil {
			return fmt.Errorf("criterion %s: %w", n, err)
		}
		if err := r.Register(n, p); err != nil {
			return err
		}
	}
	return nil
}
