package compoundid

import (
	"testing"

	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseCompound() models.Compound {
	return models.Compound{
		Scale: "pentatonic_minor", Position: "E",
		Rhythm: "8ths", RhythmPattern: "xx",
	}
}

func TestIDFormat(t *testing.T) {
	t.Run("without optional dimensions", func(t *testing.T) {
		assert.Equal(t, "pentatonic_minor+E+8ths:xx", ID(baseCompound()))
	})

	t.Run("with note pattern", func(t *testing.T) {
		c := baseCompound()
		c.NotePattern = "stepwise"
		c.HasNotePattern = true
		assert.Equal(t, "pentatonic_minor+E+8ths:xx+stepwise", ID(c))
	})

	t.Run("with note pattern and articulation", func(t *testing.T) {
		c := baseCompound()
		c.NotePattern = "stepwise"
		c.HasNotePattern = true
		c.Articulation = "continuous"
		c.HasArticulation = true
		assert.Equal(t, "pentatonic_minor+E+8ths:xx+stepwise+continuous", ID(c))
	})
}

func TestRoundTrip(t *testing.T) {
	cases := []models.Compound{
		baseCompound(),
		{Scale: "minor", Position: "C", Rhythm: "16ths", RhythmPattern: "xxxx", NotePattern: "skips", HasNotePattern: true},
		{Scale: "minor", Position: "C", Rhythm: "16ths", RhythmPattern: "xxxx", NotePattern: "skips", HasNotePattern: true, Articulation: "continuous", HasArticulation: true},
	}
	for _, c := range cases {
		id := ID(c)
		parsed, err := Parse(id)
		require.NoError(t, err)
		assert.True(t, c.Equal(parsed), "round trip mismatch for %s", id)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Run("missing rhythm pattern separator", func(t *testing.T) {
		_, err := Parse("pentatonic_minor+E+8ths")
		assert.Error(t, err)
	})

	t.Run("too many segments", func(t *testing.T) {
		_, err := Parse("a+b+c:d+e+f+g")
		assert.Error(t, err)
	})
}

func TestCountDimensionChanges(t *testing.T) {
	t.Run("identical compounds differ in zero dimensions", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		assert.Equal(t, 0, CountDimensionChanges(a, b))
	})

	t.Run("rhythm and rhythm pattern together count as one dimension", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		b.Rhythm = "16ths"
		b.RhythmPattern = "xxxx"
		assert.Equal(t, 1, CountDimensionChanges(a, b))
	})

	t.Run("two differing dimensions count as two", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		b.Scale = "minor"
		b.Position = "C"
		assert.Equal(t, 2, CountDimensionChanges(a, b))
	})
}

func TestChangedDimension(t *testing.T) {
	t.Run("exactly one change returns that dimension", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		b.Scale = "minor"
		dim, ok := ChangedDimension(a, b)
		assert.True(t, ok)
		assert.Equal(t, "scale", dim)
	})

	t.Run("zero changes returns not-ok", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		_, ok := ChangedDimension(a, b)
		assert.False(t, ok)
	})

	t.Run("two changes returns not-ok", func(t *testing.T) {
		a := baseCompound()
		b := baseCompound()
		b.Scale = "minor"
		b.Position = "C"
		_, ok := ChangedDimension(a, b)
		assert.False(t, ok)
	})
}
