package candidate

import (
	"testing"

	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T) (*Generator, *memstore.Store) {
	t.Helper()
	repo := memstore.New()
	reg := dimension.NewDefaultRegistry()
	cfg := config.Load()
	return New(reg, repo, cfg), repo
}

func TestGenerateWithNoHistoryReturnsEntryPoint(t *testing.T) {
	gen, _ := newHarness(t)
	cands, err := gen.Generate()
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "pentatonic_minor+E+8ths:xx+stepwise+continuous", cands[0].CompoundID)
	assert.Equal(t, 1.0, cands[0].Score)
}

func logEntry(t *testing.T, repo *memstore.Store, reg *dimension.Registry, gen *Generator) {
	t.Helper()
	entry := reg.EntryPointCompound()
	_, err := repo.LogPractice(store.PracticeLogInput{Compound: entry, Key: "C", BPM: 210, NPM: 420})
	require.NoError(t, err)
	session, err := repo.IncrementSession()
	require.NoError(t, err)
	_, err = repo.UpdateCompoundStats(compoundid.ID(entry), 420, 210, session, gen.Config.EMAAlpha,
		gen.Config.Progression.ExpansionNPM, gen.Config.Progression.MasteryNPM, gen.Config.Progression.MasteryStreak, gen.Config.Struggling.NPM)
	require.NoError(t, err)
}

func TestGenerateAfterExpansionProposesTierZeroNeighbors(t *testing.T) {
	gen, repo := newHarness(t)
	reg := dimension.NewDefaultRegistry()
	logEntry(t, repo, reg, gen)

	cands, err := gen.Generate()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, c := range cands {
		found[c.CompoundID] = true
		assert.LessOrEqual(t, compoundid.CountDimensionChanges(reg.EntryPointCompound(), c.Compound), 1)
	}
	assert.True(t, found["pentatonic_minor+E+8ths:xx+stepwise+continuous"], "stay candidate must be present")
	assert.True(t, found["pentatonic_major+E+8ths:xx+stepwise+continuous"], "scale tier-0 neighbor must be present")
	assert.False(t, found["minor+D+8ths:xx+stepwise+continuous"], "two-dimension-change compound must never appear")
}

func TestGenerateHigherTierUnlockBypassesExpansionGate(t *testing.T) {
	gen, repo := newHarness(t)
	reg := dimension.NewDefaultRegistry()
	// Log the entry point below the expansion threshold so only the
	// unlocked higher-tier dimension can produce a neighbor.
	entry := reg.EntryPointCompound()
	_, err := repo.LogPractice(store.PracticeLogInput{Compound: entry, Key: "C", BPM: 150, NPM: 300})
	require.NoError(t, err)
	session, err := repo.IncrementSession()
	require.NoError(t, err)
	_, err = repo.UpdateCompoundStats(compoundid.ID(entry), 300, 150, session, gen.Config.EMAAlpha,
		gen.Config.Progression.ExpansionNPM, gen.Config.Progression.MasteryNPM, gen.Config.Progression.MasteryStreak, gen.Config.Struggling.NPM)
	require.NoError(t, err)
	require.NoError(t, repo.UnlockDimension("note-pattern", 1))

	cands, err := gen.Generate()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, c := range cands {
		found[c.CompoundID] = true
	}
	assert.True(t, found["pentatonic_minor+E+8ths:xx+skips+continuous"], "unlocked note-pattern neighbor must be proposed")
}

func TestGenerateExcludesMasteredStay(t *testing.T) {
	gen, repo := newHarness(t)
	reg := dimension.NewDefaultRegistry()
	entry := reg.EntryPointCompound()
	id := compoundid.ID(entry)

	_, err := repo.LogPractice(store.PracticeLogInput{Compound: entry, Key: "C", BPM: 250, NPM: 500})
	require.NoError(t, err)
	session, err := repo.IncrementSession()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = repo.UpdateCompoundStats(id, 500, 250, session, gen.Config.EMAAlpha,
			gen.Config.Progression.ExpansionNPM, gen.Config.Progression.MasteryNPM, gen.Config.Progression.MasteryStreak, gen.Config.Struggling.NPM)
		require.NoError(t, err)
	}

	cands, err := gen.Generate()
	require.NoError(t, err)
	for _, c := range cands {
		assert.NotEqual(t, id, c.CompoundID, "a mastered compound must never be offered as STAY")
	}
}
