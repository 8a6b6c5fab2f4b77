package progression

import "fretloop-scheduler/internal/store"

// Achievement is a typed, immutable achievement rule. Check receives the
// repository so it can consult any aggregate helper.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Category    string // mastery | exploration | consistency | speed
	Check       func(repo store.Repository) (bool, error)
}

// Definitions is the fixed, never-renumbered achievement catalog.
func Definitions() []Achievement {
	return []Achievement{
		{
			ID: "first_steps", Name: "First Steps", Category: "consistency",
			Description: "Log your first practice.",
			Check: func(repo store.Repository) (bool, error) {
				return repo.HasAnyPractice()
			},
		},
		{
			ID: "first_expansion", Name: "Breaking Ground", Category: "exploration",
			Description: "Expand your first compound past the expansion threshold.",
			Check: func(repo store.Repository) (bool, error) {
				n, err := repo.CountExpandedCompounds()
				return n >= 1, err
			},
		},
		{
			ID: "first_mastery", Name: "Mastered", Category: "mastery",
			Description: "Master your first compound.",
			Check: func(repo store.Repository) (bool, error) {
				n, err := repo.CountMasteredCompounds()
				return n >= 1, err
			},
		},
		{
			ID: "five_mastered", Name: "Well Rounded", Category: "mastery",
			Description: "Master five distinct compounds.",
			Check: func(repo store.Repository) (bool, error) {
				n, err := repo.CountMasteredCompounds()
				return n >= 5, err
			},
		},
		{
			ID: "note_pattern_unlocked", Name: "New Territory", Category: "exploration",
			Description: "Unlock the note-pattern dimension.",
			Check: func(repo store.Repository) (bool, error) {
				return repo.IsDimensionUnlocked("note-pattern")
			},
		},
		{
			ID: "century_practice", Name: "Centurion", Category: "consistency",
			Description: "Log one hundred practice attempts.",
			Check: func(repo store.Repository) (bool, error) {
				n, err := repo.GetTotalPracticeCount()
				return n >= 100, err
			},
		},
		{
			ID: "speed_demon", Name: "Speed Demon", Category: "speed",
			Description: "Reach an NPM of 560 or higher on any compound.",
			Check: func(repo store.Repository) (bool, error) {
				n, err := repo.GetMaxNPMAcrossCompounds()
				return n >= 560, err
			},
		},
	}
}

// CheckAchievements runs every not-yet-earned definition's Check and
// idempotently records each that now passes. It returns the IDs newly
// earned by this call.
func CheckAchievements(repo store.Repository) ([]string, error) {
	var earned []string
	for _, a := range Definitions() {
		has, err := repo.HasAchievement(a.ID)
		if err != nil {
			return nil, err
		}
		if has {
			continue
		}
		ok, err := a.Check(repo)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		wasEarned, err := repo.EarnAchievement(a.ID)
		if err != nil {
			return nil, err
		}
		if wasEarned {
			earned = append(earned, a.ID)
		}
	}
	return earned, nil
}

// IsMasteryCategory reports whether id names a mastery-category
// achievement; each newly-earned mastery achievement awards one
// streak-freeze token.
func IsMasteryCategory(id string) bool {
	for _, a := range Definitions() {
		if a.ID == id {
			return a.Category == "mastery"
		}
	}
	return false
}
