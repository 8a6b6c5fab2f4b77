package memstore

import (
	"testing"

	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseCompound() models.Compound {
	return models.Compound{Scale: "pentatonic_minor", Position: "E", Rhythm: "8ths", RhythmPattern: "xx"}
}

func TestLogAndReadPractice(t *testing.T) {
	s := New()

	t.Run("no entries means nil last practice", func(t *testing.T) {
		last, err := s.GetLastPractice()
		require.NoError(t, err)
		assert.Nil(t, last)
	})

	t.Run("logging appends and assigns increasing ids", func(t *testing.T) {
		e1, err := s.LogPractice(store.PracticeLogInput{Compound: baseCompound(), BPM: 80, NPM: 160})
		require.NoError(t, err)
		e2, err := s.LogPractice(store.PracticeLogInput{Compound: baseCompound(), BPM: 90, NPM: 180})
		require.NoError(t, err)
		assert.Equal(t, e1.ID+1, e2.ID)

		last, err := s.GetLastPractice()
		require.NoError(t, err)
		assert.Equal(t, e2.ID, last.ID)
	})

	t.Run("recent practice is most-recent-first and capped", func(t *testing.T) {
		recent, err := s.GetRecentPractice(1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, 180, recent[0].NPM)
	})

	t.Run("update and delete act on the right row", func(t *testing.T) {
		all, err := s.GetAllPractice()
		require.NoError(t, err)
		id := all[0].ID

		require.NoError(t, s.UpdatePractice(id, store.PracticeLogInput{Compound: baseCompound(), BPM: 100, NPM: 200}))
		got, err := s.GetPracticeByID(id)
		require.NoError(t, err)
		assert.Equal(t, 200, got.NPM)

		require.NoError(t, s.DeletePractice(id))
		got, err = s.GetPracticeByID(id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("updating a missing entry is a missing-precondition error", func(t *testing.T) {
		err := s.UpdatePractice(9999, store.PracticeLogInput{Compound: baseCompound()})
		require.Error(t, err)
		var serr *store.Error
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, store.MissingPrecondition, serr.Kind)
	})
}

func TestCompoundStatsProgression(t *testing.T) {
	s := New()
	id := "pentatonic_minor+E+8ths:xx"

	t.Run("first attempt seeds ema and first-practiced session", func(t *testing.T) {
		st, err := s.UpdateCompoundStats(id, 400, 100, 1, 0.3, 400, 480, 3, 80)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Attempts)
		assert.Equal(t, float64(400), st.EMANPM)
		assert.True(t, st.HasExpanded)
		require.NotNil(t, st.FirstPracticedSession)
		assert.Equal(t, 1, *st.FirstPracticedSession)
	})

	t.Run("subsequent attempt blends ema", func(t *testing.T) {
		st, err := s.UpdateCompoundStats(id, 500, 110, 2, 0.3, 400, 480, 3, 80)
		require.NoError(t, err)
		assert.InDelta(t, 0.3*500+0.7*400, st.EMANPM, 0.0001)
	})

	t.Run("mastery streak accumulates and trips is_mastered", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := s.UpdateCompoundStats(id, 500, 110, 3+i, 0.3, 400, 480, 3, 80)
			require.NoError(t, err)
		}
		st, err := s.GetCompoundStats(id)
		require.NoError(t, err)
		assert.True(t, st.IsMastered)
	})
}

func TestRelatedCompounds(t *testing.T) {
	s := New()
	_, err := s.UpdateCompoundStats("pentatonic_minor+E+8ths:xx", 300, 100, 1, 0.3, 400, 480, 3, 80)
	require.NoError(t, err)
	_, err = s.UpdateCompoundStats("pentatonic_major+E+8ths:xx", 300, 100, 1, 0.3, 400, 480, 3, 80)
	require.NoError(t, err)
	_, err = s.UpdateCompoundStats("minor+C+8ths:xx", 300, 100, 1, 0.3, 400, 480, 3, 80)
	require.NoError(t, err)

	related, err := s.GetRelatedCompounds(baseCompound())
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "pentatonic_major+E+8ths:xx", related[0].CompoundID)
}

func TestDimensionUnlockIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.UnlockDimension("note-pattern", 5))
	require.NoError(t, s.UnlockDimension("note-pattern", 9))

	unlocked, err := s.GetUnlockedDimensions()
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, 5, unlocked[0].UnlockedSession)
}

func TestCountExpandedCompoundsInTier(t *testing.T) {
	s := New()
	_, err := s.UpdateCompoundStats("pentatonic_minor+E+8ths:xx", 400, 100, 1, 0.3, 400, 480, 3, 80)
	require.NoError(t, err)
	require.NoError(t, s.UnlockDimension("note-pattern", 2))
	_, err = s.UpdateCompoundStats("minor+E+8ths:xx+stepwise", 400, 100, 3, 0.3, 400, 480, 3, 80)
	require.NoError(t, err)

	t.Run("tier 0 counts only compounds first practiced before note-pattern unlocked", func(t *testing.T) {
		n, err := s.CountExpandedCompoundsInTier(0)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("tier 1 requires note-pattern already unlocked and counts compounds practiced after", func(t *testing.T) {
		n, err := s.CountExpandedCompoundsInTier(1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("tier 2 has not been entered yet so counts zero", func(t *testing.T) {
		n, err := s.CountExpandedCompoundsInTier(2)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestAchievementsIdempotent(t *testing.T) {
	s := New()
	earned, err := s.EarnAchievement("first_steps")
	require.NoError(t, err)
	assert.True(t, earned)

	earned, err = s.EarnAchievement("first_steps")
	require.NoError(t, err)
	assert.False(t, earned)

	ids, err := s.GetEarnedAchievementIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"first_steps"}, ids)
}

func TestRecalculateAllStatsRebuildsFromLog(t *testing.T) {
	s := New()
	_, err := s.LogPractice(store.PracticeLogInput{Compound: baseCompound(), BPM: 100, NPM: 400})
	require.NoError(t, err)
	_, err = s.LogPractice(store.PracticeLogInput{Compound: baseCompound(), BPM: 110, NPM: 440})
	require.NoError(t, err)

	require.NoError(t, s.RecalculateAllStats(0.3, 400, 480, 3, 80))

	st, err := s.GetCompoundStats("pentatonic_minor+E+8ths:xx")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 2, st.Attempts)
	assert.Equal(t, 440, st.BestNPM)
}
