package engine

import (
	"testing"

	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/store/memstore"
	"fretloop-scheduler/internal/suggestionstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a deterministic randUnit stepping through fixed values,
// repeating the last one once exhausted.
func sequence(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func newEngine(t *testing.T, randUnit func() float64) (*Engine, *memstore.Store) {
	t.Helper()
	repo := memstore.New()
	reg := dimension.NewDefaultRegistry()
	cfg := config.Load()
	sugg := suggestionstore.NewMemory()
	e := New(reg, repo, cfg, sugg, randUnit)
	return e, repo
}

func TestGenerateSuggestionScenario1(t *testing.T) {
	e, _ := newEngine(t, sequence(0))

	s, err := e.GenerateSuggestion()
	require.NoError(t, err)
	assert.Equal(t, "pentatonic_minor", s.Compound.Scale)
	assert.Equal(t, "E", s.Compound.Position)
	assert.Equal(t, "8ths", s.Compound.Rhythm)
	assert.Equal(t, "xx", s.Compound.RhythmPattern)
	assert.Equal(t, "stepwise", s.Compound.NotePattern)
	assert.Contains(t, s.Reasoning, "Building foundation")
	assert.Contains(t, e.Config.Keys, s.Key)
}

func TestGenerateThenLogSuggestedClearsStore(t *testing.T) {
	e, _ := newEngine(t, sequence(0))

	_, err := e.GenerateSuggestion()
	require.NoError(t, err)

	result, err := e.LogSuggestedPractice(210)
	require.NoError(t, err)
	assert.Equal(t, 420, result.Entry.NPM)

	pending, err := e.Suggestion.Load()
	require.NoError(t, err)
	assert.Nil(t, pending, "logging the suggestion must clear the store")
}

func TestLogSuggestedWithNothingPendingIsMissingPrecondition(t *testing.T) {
	e, _ := newEngine(t, sequence(0))

	_, err := e.LogSuggestedPractice(100)
	assert.Error(t, err)
}

func TestOneChangeInvariantAcross100Cycles(t *testing.T) {
	e, repo := newEngine(t, sequence(0.01, 0.5, 0.99))

	hasPrev := false
	for i := 0; i < 100; i++ {
		s, err := e.GenerateSuggestion()
		require.NoError(t, err)

		if hasPrev {
			last, err := repo.GetLastPractice()
			require.NoError(t, err)
			n := compoundid.CountDimensionChanges(last.Compound(), s.Compound)
			assert.LessOrEqual(t, n, 1, "suggestion %d changed more than one dimension from the last logged compound", i)
		}

		bpm := 60 + (i % 61)
		_, err = e.LogSuggestedPractice(bpm)
		require.NoError(t, err)
		hasPrev = true
	}
}
