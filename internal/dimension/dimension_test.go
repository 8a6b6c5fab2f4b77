package dimension

import (
	"testing"

	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRhythmLadder(t *testing.T) {
	r := NewRhythm()

	t.Run("entry point is 8ths/xx with notes per beat 2", func(t *testing.T) {
		entry := r.EntryPoint()
		assert.Equal(t, "8ths", entry.Name)
		assert.Equal(t, "xx", entry.Pattern)
		assert.Equal(t, 2, r.NotesPerBeat(entry))
	})

	t.Run("neighbors never include the value itself", func(t *testing.T) {
		entry := r.EntryPoint()
		for _, n := range r.Neighbors(entry) {
			assert.False(t, n.Name == entry.Name && n.Pattern == entry.Pattern)
		}
	})

	t.Run("forward neighbor is a next-ladder entry, inverse is not forward", func(t *testing.T) {
		entry := r.EntryPoint()
		sixteenths := models.NewRhythmSignature("16ths", "xxxx")
		assert.True(t, r.IsForwardNeighbor(entry, sixteenths))
		assert.False(t, r.IsForwardNeighbor(sixteenths, entry))
	})
}

func TestPositionGateway(t *testing.T) {
	p := NewPosition()

	t.Run("only the first next entry is forward", func(t *testing.T) {
		e := models.NewPositionSignature("E")
		c := models.NewPositionSignature("C")
		g := models.NewPositionSignature("G")
		assert.True(t, p.IsForwardNeighbor(e, c))
		assert.False(t, p.IsForwardNeighbor(e, g))
	})

	t.Run("backward classification needs inverse lookup at the graph-builder layer", func(t *testing.T) {
		e := models.NewPositionSignature("E")
		c := models.NewPositionSignature("C")
		assert.True(t, p.IsForwardNeighbor(e, c))
		assert.False(t, p.IsForwardNeighbor(c, e))
	})
}

func TestScaleTiers(t *testing.T) {
	s := NewScale()

	t.Run("same tier is lateral and forward", func(t *testing.T) {
		a := models.NewScaleSignature("pentatonic_minor")
		b := models.NewScaleSignature("pentatonic_major")
		assert.True(t, s.IsForwardNeighbor(a, b))
	})

	t.Run("gated forward only via explicit next in tier+1", func(t *testing.T) {
		minor := models.NewScaleSignature("pentatonic_minor")
		dorian := models.NewScaleSignature("dorian")
		assert.False(t, s.IsForwardNeighbor(minor, dorian))
	})

	t.Run("regression to any lower tier is free", func(t *testing.T) {
		dorian := models.NewScaleSignature("dorian")
		minorPent := models.NewScaleSignature("pentatonic_minor")
		neighbors := s.Neighbors(dorian)
		found := false
		for _, n := range neighbors {
			if n.Name == minorPent.Name {
				found = true
			}
		}
		assert.True(t, found)
		assert.False(t, s.IsForwardNeighbor(dorian, minorPent))
	})
}

func TestNotePatternGlobalGateway(t *testing.T) {
	np := NewNotePattern()

	t.Run("same tier is forward", func(t *testing.T) {
		a := models.NewNotePatternSignature("stepwise")
		b := models.NewNotePatternSignature("skips")
		assert.True(t, np.IsForwardNeighbor(a, b))
	})

	t.Run("only the first value of the next tier is a forward neighbor", func(t *testing.T) {
		a := models.NewNotePatternSignature("skips")
		sequences := models.NewNotePatternSignature("sequences")
		arpeggios := models.NewNotePatternSignature("arpeggios")
		assert.True(t, np.IsForwardNeighbor(a, sequences))
		assert.False(t, np.IsForwardNeighbor(a, arpeggios))
	})
}

func TestArticulationIsReserved(t *testing.T) {
	a := NewArticulation()

	t.Run("entry point is the continuous sentinel", func(t *testing.T) {
		assert.Equal(t, "continuous", a.EntryPoint().Name)
	})

	t.Run("has no neighbors to propose", func(t *testing.T) {
		assert.Empty(t, a.Neighbors(a.EntryPoint()))
	})
}

func TestRegistryEntryPointCompound(t *testing.T) {
	reg := NewDefaultRegistry()
	c := reg.EntryPointCompound()

	assert.Equal(t, "pentatonic_minor", c.Scale)
	assert.Equal(t, "E", c.Position)
	assert.Equal(t, "8ths", c.Rhythm)
	assert.Equal(t, "xx", c.RhythmPattern)
	assert.True(t, c.HasNotePattern)
	assert.Equal(t, "stepwise", c.NotePattern)
}
