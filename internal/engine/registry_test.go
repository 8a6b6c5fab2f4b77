package engine

import (
	"sync"
	"testing"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/store/memstore"
	"fretloop-scheduler/internal/suggestionstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := dimension.NewDefaultRegistry()
	cfg := config.Load()
	stores := map[string]store.Repository{}
	var mu sync.Mutex
	repoFor := func(userID string) (store.Repository, error) {
		mu.Lock()
		defer mu.Unlock()
		if s, ok := stores[userID]; ok {
			return s, nil
		}
		s := memstore.New()
		stores[userID] = s
		return s, nil
	}
	suggFor := func(userID string) suggestionstore.Store { return suggestionstore.NewMemory() }
	return NewRegistry(reg, cfg, repoFor, suggFor, func() float64 { return 0 })
}

func TestRegistryBuildsEngineOncePerUser(t *testing.T) {
	r := newTestRegistry(t)

	var seen *Engine
	err := r.WithEngine("alice", func(e *Engine) error {
		seen = e
		return nil
	})
	require.NoError(t, err)

	err = r.WithEngine("alice", func(e *Engine) error {
		assert.Same(t, seen, e, "same user id must reuse the same Engine")
		return nil
	})
	require.NoError(t, err)
}

func TestRegistryIsolatesUsers(t *testing.T) {
	r := newTestRegistry(t)

	var alice, bob *Engine
	require.NoError(t, r.WithEngine("alice", func(e *Engine) error { alice = e; return nil }))
	require.NoError(t, r.WithEngine("bob", func(e *Engine) error { bob = e; return nil }))

	assert.NotSame(t, alice, bob)
	assert.NotSame(t, alice.Repo, bob.Repo)
}

func TestRegistrySerializesConcurrentAccessPerUser(t *testing.T) {
	r := newTestRegistry(t)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := r.WithEngine("alice", func(e *Engine) error {
				_, err := e.GenerateSuggestion()
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
