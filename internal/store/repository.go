// Package store defines the abstract persistence contract the core
// consumes. Every method is implicitly scoped to the user_id the
// concrete Repository instance was constructed for.
package store

import "fretloop-scheduler/internal/models"

// PracticeLogInput is the set of fields needed to append a practice
// entry.
type PracticeLogInput struct {
	Compound  models.Compound
	Key       string
	BPM       int
	NPM       int
	Reasoning string
}

// Repository is the abstract persistence contract the core depends on.
// Concrete implementations live in memstore (tests, legacy display
// fallback) and postgres (production).
type Repository interface {
	// Practice log
	LogPractice(in PracticeLogInput) (models.PracticeEntry, error)
	GetLastPractice() (*models.PracticeEntry, error)
	GetRecentPractice(limit int) ([]models.PracticeEntry, error)
	GetAllPractice() ([]models.PracticeEntry, error)
	GetPracticeByID(id int64) (*models.PracticeEntry, error)
	UpdatePractice(id int64, in PracticeLogInput) error
	DeletePractice(id int64) error
	HasAnyPractice() (bool, error)
	GetTotalPracticeCount() (int, error)

	// Signature stats (legacy)
	GetStats(sigID string) (*models.SignatureStats, error)
	GetAllStats() ([]models.SignatureStats, error)
	UpdateStats(sigID string, npm int, alpha float64) error
	UpdateProgression(sigID string, npm, expansionNPM, masteryNPM, masteryStreak int) error

	// Session
	GetCurrentSession() (int, error)
	IncrementSession() (int, error)

	// Compound stats
	GetCompoundStats(compoundID string) (*models.CompoundStats, error)
	GetOrCreateCompoundStats(compoundID string) (models.CompoundStats, error)
	UpdateCompoundStats(compoundID string, npm, bpm, session int, alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) (models.CompoundStats, error)
	GetAllCompoundStats() ([]models.CompoundStats, error)
	GetRelatedCompounds(c models.Compound) ([]models.CompoundStats, error)
	SetCompoundExpanded(compoundID string, expanded bool) error

	// Dimension unlocks
	IsDimensionUnlocked(name string) (bool, error)
	UnlockDimension(name string, session int) error
	GetUnlockedDimensions() ([]models.DimensionUnlock, error)
	CountExpandedCompoundsInTier(tier int) (int, error)

	// Recalculation
	RecalculateAllStats(alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) error

	// Proficiencies
	SetProficient(dimension, value string) error
	RemoveProficient(dimension, value string) error
	IsProficient(dimension, value string) (bool, error)
	GetProficiencies(dimension string) ([]models.Proficiency, error)
	GetAllProficiencies() ([]models.Proficiency, error)

	// Struggling
	GetStrugglingCompounds(threshold int) ([]models.CompoundStats, error)
	GetStrugglingProficiencies(threshold int) ([]models.Proficiency, error)

	// Streak
	GetStreakInfo() (models.StreakInfo, error)
	UpdateStreakData(current, longest int, lastDate string, freezes int) error
	AddStreakFreezes(n int) error

	// Achievements
	EarnAchievement(id string) (earned bool, err error)
	HasAchievement(id string) (bool, error)
	GetEarnedAchievementIDs() ([]string, error)

	// Aggregate helpers
	GetMaxNPMAcrossCompounds() (int, error)
	CountMasteredCompounds() (int, error)
	CountExpandedCompounds() (int, error)
	GetMasteredPositions() ([]string, error)
	GetDistinctPracticedValues(dimension string) ([]string, error)
}
