// Package progression implements the practice-log transaction: state
// transitions on log, dimension unlocks, streak updates, and achievement
// checks.
package progression

import (
	"time"

	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/normalizer"
	"fretloop-scheduler/internal/store"
)

// SuggestionClearer is the minimal suggestion-store capability the
// controller needs: clear the pending suggestion once it has been logged
// against.
type SuggestionClearer interface {
	Clear() error
}

// LogInput is the tuple a caller logs practice against.
type LogInput struct {
	Compound  models.Compound
	Key       string
	BPM       int
	Reasoning string
}

// LogResult summarizes everything that changed as a result of one log.
type LogResult struct {
	Entry              models.PracticeEntry  `json:"entry"`
	CompoundStats      models.CompoundStats  `json:"compound_stats"`
	Session            int                   `json:"session"`
	NewlyUnlocked      []string              `json:"newly_unlocked,omitempty"`
	EarnedAchievements []string              `json:"earned_achievements,omitempty"`
}

// Controller runs the progression algorithm for a single user.
type Controller struct {
	Registry   *dimension.Registry
	Repo       store.Repository
	Config     *config.Config
	Suggestion SuggestionClearer
	Now        func() time.Time
}

// New builds a Controller. suggestion may be nil if the caller has no
// suggestion store to clear.
func New(reg *dimension.Registry, repo store.Repository, cfg *config.Config, suggestion SuggestionClearer) *Controller {
	return &Controller{Registry: reg, Repo: repo, Config: cfg, Suggestion: suggestion, Now: time.Now}
}

// LogPractice runs the ordered steps of a single practice log: record the
// entry, update compound stats, evaluate dimension unlocks, clear any
// pending suggestion, update the streak, and check achievements.
func (c *Controller) LogPractice(in LogInput) (LogResult, error) {
	if in.BPM <= 0 {
		return LogResult{}, store.Invalid("bpm must be positive")
	}

	rhythmDim := c.Registry.Rhythm()
	if rhythmDim == nil {
		return LogResult{}, store.Invalid("rhythm dimension not registered")
	}
	rhythmSig := models.NewRhythmSignature(in.Compound.Rhythm, in.Compound.RhythmPattern)
	npm := normalizer.BPMToNPM(in.BPM, rhythmDim.NotesPerBeat(rhythmSig))

	session, err := c.Repo.IncrementSession()
	if err != nil {
		return LogResult{}, err
	}

	entry, err := c.Repo.LogPractice(store.PracticeLogInput{
		Compound:  in.Compound,
		Key:       in.Key,
		BPM:       in.BPM,
		NPM:       npm,
		Reasoning: in.Reasoning,
	})
	if err != nil {
		return LogResult{}, err
	}

	if err := c.updateLegacySignatureStats(in.Compound, npm); err != nil {
		return LogResult{}, err
	}

	compoundID := compoundid.ID(in.Compound)
	stats, err := c.Repo.UpdateCompoundStats(
		compoundID, npm, in.BPM, session, c.Config.EMAAlpha,
		c.Config.Progression.ExpansionNPM, c.Config.Progression.MasteryNPM, c.Config.Progression.MasteryStreak,
		c.Config.Struggling.NPM,
	)
	if err != nil {
		return LogResult{}, err
	}

	unlocked, err := c.evaluateUnlocks(session)
	if err != nil {
		return LogResult{}, err
	}

	if c.Suggestion != nil {
		if err := c.Suggestion.Clear(); err != nil {
			return LogResult{}, err
		}
	}

	if err := c.updateStreak(); err != nil {
		return LogResult{}, err
	}

	earned, err := CheckAchievements(c.Repo)
	if err != nil {
		return LogResult{}, err
	}
	for _, id := range earned {
		if IsMasteryCategory(id) {
			if err := c.Repo.AddStreakFreezes(1); err != nil {
				return LogResult{}, err
			}
		}
	}

	return LogResult{
		Entry:              entry,
		CompoundStats:      stats,
		Session:            session,
		NewlyUnlocked:      unlocked,
		EarnedAchievements: earned,
	}, nil
}

func (c *Controller) updateLegacySignatureStats(compound models.Compound, npm int) error {
	sigs := []models.Signature{
		models.NewScaleSignature(compound.Scale),
		models.NewPositionSignature(compound.Position),
		models.NewRhythmSignature(compound.Rhythm, compound.RhythmPattern),
	}
	if compound.HasNotePattern {
		sigs = append(sigs, models.NewNotePatternSignature(compound.NotePattern))
	}
	if compound.HasArticulation {
		sigs = append(sigs, models.NewArticulationSignature(compound.Articulation))
	}

	for _, sig := range sigs {
		sigID := sig.ID()
		if err := c.Repo.UpdateStats(sigID, npm, c.Config.EMAAlpha); err != nil {
			return err
		}
		if err := c.Repo.UpdateProgression(
			sigID, npm, c.Config.Progression.ExpansionNPM, c.Config.Progression.MasteryNPM, c.Config.Progression.MasteryStreak,
		); err != nil {
			return err
		}
	}
	return nil
}

// evaluateUnlocks unlocks each locked higher-tier dimension once enough
// distinct compounds have expanded within its prerequisite tier's
// subspace (default unlock_requirement = 1).
func (c *Controller) evaluateUnlocks(session int) ([]string, error) {
	var unlocked []string
	for _, dimName := range c.Registry.HigherTierNames() {
		already, err := c.Repo.IsDimensionUnlocked(dimName)
		if err != nil {
			return nil, err
		}
		if already {
			continue
		}

		tierCfg, ok := c.Config.DimensionTier(dimName)
		if !ok {
			continue
		}
		requirement := tierCfg.UnlockRequirement
		if requirement <= 0 {
			requirement = 1
		}

		count, err := c.Repo.CountExpandedCompoundsInTier(tierCfg.Tier - 1)
		if err != nil {
			return nil, err
		}
		if count >= requirement {
			if err := c.Repo.UnlockDimension(dimName, session); err != nil {
				return nil, err
			}
			unlocked = append(unlocked, dimName)
		}
	}
	return unlocked, nil
}

func (c *Controller) updateStreak() error {
	info, err := c.Repo.GetStreakInfo()
	if err != nil {
		return err
	}
	next := UpdateStreak(info, c.Now().Format(dateLayout))
	return c.Repo.UpdateStreakData(next.CurrentStreak, next.LongestStreak, next.LastPracticeDate, next.StreakFreezes)
}
