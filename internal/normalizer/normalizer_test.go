package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBPMToNPM(t *testing.T) {
	t.Run("exact integer product", func(t *testing.T) {
		assert.Equal(t, 420, BPMToNPM(210, 2))
	})

	t.Run("notes per beat of one is identity", func(t *testing.T) {
		assert.Equal(t, 120, BPMToNPM(120, 1))
	})
}

func TestEMA(t *testing.T) {
	t.Run("first observation becomes the EMA outright", func(t *testing.T) {
		assert.Equal(t, 420.0, EMA(0, 420, 0.3))
	})

	t.Run("subsequent observations blend by alpha", func(t *testing.T) {
		got := EMA(400, 500, 0.3)
		assert.InDelta(t, 0.3*500+0.7*400, got, 1e-9)
	})

	t.Run("alpha near zero barely moves the average", func(t *testing.T) {
		got := EMA(400, 1000, 0.01)
		assert.InDelta(t, 406.0, got, 1e-9)
	})
}
