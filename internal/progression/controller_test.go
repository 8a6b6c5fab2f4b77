package progression

import (
	"testing"
	"time"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*Controller, *memstore.Store) {
	t.Helper()
	repo := memstore.New()
	reg := dimension.NewDefaultRegistry()
	cfg := config.Load()
	ctl := New(reg, repo, cfg, nil)
	ctl.Now = func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }
	return ctl, repo
}

func TestLogPracticeComputesNPMAndIncrementsSession(t *testing.T) {
	ctl, _ := newController(t)
	compound := ctl.Registry.EntryPointCompound()

	result, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 210})
	require.NoError(t, err)
	assert.Equal(t, 420, result.Entry.NPM)
	assert.Equal(t, 1, result.Session)
	assert.Equal(t, 1, result.CompoundStats.Attempts)
}

func TestLogPracticeRejectsNonPositiveBPM(t *testing.T) {
	ctl, _ := newController(t)
	compound := ctl.Registry.EntryPointCompound()
	_, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 0})
	assert.Error(t, err)
}

func TestLogPracticeMasteryLatchesScenario3(t *testing.T) {
	ctl, _ := newController(t)
	compound := ctl.Registry.EntryPointCompound()

	for i := 0; i < 3; i++ {
		result, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 250})
		require.NoError(t, err)
		if i == 2 {
			assert.True(t, result.CompoundStats.IsMastered)
			assert.Equal(t, 3, result.CompoundStats.MasteryStreak)
		}
	}

	result, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 100})
	require.NoError(t, err)
	assert.True(t, result.CompoundStats.IsMastered, "mastery must never un-latch")
}

func TestLogPracticeUnlocksNotePatternAfterFirstExpansionScenario6(t *testing.T) {
	ctl, repo := newController(t)
	compound := ctl.Registry.EntryPointCompound()

	result, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 210})
	require.NoError(t, err)
	assert.Contains(t, result.NewlyUnlocked, "note-pattern")

	unlocked, err := repo.IsDimensionUnlocked("note-pattern")
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestLogPracticeIsSessionMonotonic(t *testing.T) {
	ctl, _ := newController(t)
	compound := ctl.Registry.EntryPointCompound()

	r1, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 100})
	require.NoError(t, err)
	r2, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 100})
	require.NoError(t, err)
	assert.Equal(t, r1.Session+1, r2.Session)
}

func TestCheckAchievementsIdempotent(t *testing.T) {
	ctl, repo := newController(t)
	compound := ctl.Registry.EntryPointCompound()
	_, err := ctl.LogPractice(LogInput{Compound: compound, Key: "C", BPM: 100})
	require.NoError(t, err)

	earnedAgain, err := CheckAchievements(repo)
	require.NoError(t, err)
	assert.Empty(t, earnedAgain, "no achievement already earned should be recorded twice")
}
