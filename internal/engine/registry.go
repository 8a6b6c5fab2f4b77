package engine

import (
	"sync"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/suggestionstore"
)

// RepositoryFactory builds the Repository a given user's Engine should use,
// e.g. opening a per-user Postgres schema. Called the first time that user
// is touched, and again on a later call if an earlier call returned an
// error, since no Engine is kept for the user until one is built.
type RepositoryFactory func(userID string) (store.Repository, error)

// SuggestionFactory builds the suggestion store a given user's Engine
// should use.
type SuggestionFactory func(userID string) suggestionstore.Store

// Registry is the hosting layer's per-user concurrency boundary: an
// Engine is single-user and not safe for concurrent callers. It lazily
// builds one Engine per user id and serializes access to it with a
// dedicated mutex.
type Registry struct {
	reg        *dimension.Registry
	cfg        *config.Config
	repoFor    RepositoryFactory
	suggFor    SuggestionFactory
	randUnit   func() float64

	mu      sync.Mutex
	entries map[string]*userEntry
}

type userEntry struct {
	mu     sync.Mutex
	engine *Engine
}

// NewRegistry builds a Registry. randUnit is shared across every user's
// Engine; pass rand.Float64 in production.
func NewRegistry(reg *dimension.Registry, cfg *config.Config, repoFor RepositoryFactory, suggFor SuggestionFactory, randUnit func() float64) *Registry {
	return &Registry{
		reg:      reg,
		cfg:      cfg,
		repoFor:  repoFor,
		suggFor:  suggFor,
		randUnit: randUnit,
		entries:  make(map[string]*userEntry),
	}
}

func (r *Registry) entryFor(userID string) *userEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		e = &userEntry{}
		r.entries[userID] = e
	}
	return e
}

// WithEngine locks the given user's Engine, building it on first use, and
// runs fn against it. The lock is always released, including when fn or
// engine construction returns an error.
func (r *Registry) WithEngine(userID string, fn func(*Engine) error) error {
	entry := r.entryFor(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.engine == nil {
		repo, err := r.repoFor(userID)
		if err != nil {
			return err
		}
		sugg := r.suggFor(userID)
		entry.engine = New(r.reg, repo, r.cfg, sugg, r.randUnit)
	}
	return fn(entry.engine)
}
