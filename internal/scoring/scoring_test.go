package scoring

import (
	"testing"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestConsolidation(t *testing.T) {
	current := models.Compound{Scale: "pentatonic_minor", Position: "E", Rhythm: "8ths", RhythmPattern: "xx"}
	other := models.Compound{Scale: "minor", Position: "E", Rhythm: "8ths", RhythmPattern: "xx"}

	t.Run("zero for a non-stay candidate", func(t *testing.T) {
		assert.Equal(t, 0.0, Consolidation(other, current, nil))
	})

	t.Run("1.0 for stay with no stats yet", func(t *testing.T) {
		assert.Equal(t, 1.0, Consolidation(current, current, nil))
	})

	t.Run("0 when current is mastered", func(t *testing.T) {
		assert.Equal(t, 0.0, Consolidation(current, current, &models.CompoundStats{IsMastered: true}))
	})

	t.Run("0.2 when expanded but not mastered", func(t *testing.T) {
		assert.Equal(t, 0.2, Consolidation(current, current, &models.CompoundStats{HasExpanded: true}))
	})
}

func TestStaleness(t *testing.T) {
	t.Run("never practiced is maximally stale", func(t *testing.T) {
		assert.Equal(t, 1.0, Staleness(nil, 10, 10))
	})

	t.Run("scales with session gap, clamped to 1", func(t *testing.T) {
		last := 5
		assert.InDelta(t, 0.5, Staleness(&models.CompoundStats{LastPracticedSession: &last}, 10, 10), 0.0001)
		assert.Equal(t, 1.0, Staleness(&models.CompoundStats{LastPracticedSession: &last}, 25, 10))
	})
}

func TestReadiness(t *testing.T) {
	scoring := config.ScoringSettings{TransferCoefficients: map[string]float64{"scale": 0.4}}

	t.Run("direct ema when attempted", func(t *testing.T) {
		st := &models.CompoundStats{Attempts: 1, EMANPM: 200}
		assert.Equal(t, 0.5, Readiness(st, nil, scoring, 400))
	})

	t.Run("no history at all falls back to 0.3", func(t *testing.T) {
		assert.Equal(t, 0.3, Readiness(nil, nil, scoring, 400))
	})

	t.Run("estimates from related compounds via transfer coefficient", func(t *testing.T) {
		related := []RelatedSample{{EMANPM: 400, ChangedDimension: "scale"}}
		assert.InDelta(t, 0.4, Readiness(nil, related, scoring, 400), 0.0001)
	})
}

func TestDiversity(t *testing.T) {
	t.Run("zero for stay", func(t *testing.T) {
		assert.Equal(t, 0.0, Diversity("", []string{"scale"}, 3))
	})

	t.Run("zero when dimension changed recently", func(t *testing.T) {
		assert.Equal(t, 0.0, Diversity("scale", []string{"position", "scale"}, 3))
	})

	t.Run("0.5 when dimension is fresh", func(t *testing.T) {
		assert.Equal(t, 0.5, Diversity("rhythm", []string{"position", "scale"}, 3))
	})
}

func TestRecencyBoost(t *testing.T) {
	t.Run("zero with two or fewer practiced compounds", func(t *testing.T) {
		assert.Equal(t, 0.0, RecencyBoost(2, 20, 0.5, 10))
	})

	t.Run("scales and clamps to cap", func(t *testing.T) {
		assert.InDelta(t, 0.3, RecencyBoost(3, 3, 0.5, 10), 0.0001)
		assert.Equal(t, 0.5, RecencyBoost(3, 100, 0.5, 10))
	})
}

func TestSelectSquaredWeightSharpensExploitation(t *testing.T) {
	scores := []float64{0.1, 0.9}
	lowPick := SelectSquaredWeight(scores, func() float64 { return 0.005 })
	highPick := SelectSquaredWeight(scores, func() float64 { return 0.99 })
	assert.Equal(t, 0, lowPick)
	assert.Equal(t, 1, highPick)
}

func TestSelectSquaredWeightUniformFallbackWhenAllZero(t *testing.T) {
	scores := []float64{0, 0, 0}
	idx := SelectSquaredWeight(scores, func() float64 { return 0.5 })
	assert.Equal(t, 1, idx)
}
