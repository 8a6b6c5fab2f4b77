package suggestionstore

import (
	"path/filepath"
	"testing"

	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuggestion() models.Suggestion {
	return models.Suggestion{
		Compound:  models.Compound{Scale: "pentatonic_minor", Position: "E", Rhythm: "8ths", RhythmPattern: "xx"},
		Key:       "C",
		Reasoning: "Building foundation",
		Score:     1.0,
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, m.Save(sampleSuggestion()))
	loaded, err = m.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "C", loaded.Key)

	require.NoError(t, m.Clear())
	loaded, err = m.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "suggestion.json")
	f := NewFile(path)

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing file means no pending suggestion")

	require.NoError(t, f.Save(sampleSuggestion()))
	loaded, err = f.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Building foundation", loaded.Reasoning)

	require.NoError(t, f.Clear())
	loaded, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, f.Clear(), "clearing an already-missing file is not an error")
}
