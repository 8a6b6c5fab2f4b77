package models

import "time"

// PracticeEntry is the append-only log row recorded for each practice
// session.
type PracticeEntry struct {
	ID       int64     `json:"id"`
	LoggedAt time.Time `json:"logged_at"`

	Scale         string `json:"scale"`
	Position      string `json:"position"`
	Rhythm        string `json:"rhythm"`
	RhythmPattern string `json:"rhythm_pattern"`
	NotePattern   string `json:"note_pattern,omitempty"`
	Articulation  string `json:"articulation,omitempty"`

	Key       string `json:"key"`
	BPM       int    `json:"bpm"`
	NPM       int    `json:"npm"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Compound reconstructs the practiced Compound from the log row. Storage
// always populates note_pattern/articulation, so the entry's own values
// stand for the Has* flags.
func (p PracticeEntry) Compound() Compound {
	return Compound{
		Scale:           p.Scale,
		Position:        p.Position,
		Rhythm:          p.Rhythm,
		RhythmPattern:   p.RhythmPattern,
		NotePattern:     p.NotePattern,
		Articulation:    p.Articulation,
		HasNotePattern:  p.NotePattern != "",
		HasArticulation: p.Articulation != "",
	}
}

// StreakInfo tracks the calendar-day streak.
type StreakInfo struct {
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastPracticeDate  string `json:"last_practice_date,omitempty"` // YYYY-MM-DD
	StreakFreezes     int    `json:"streak_freezes"`
}

// DimensionUnlock records when a higher-tier dimension unlocked.
type DimensionUnlock struct {
	Dimension      string `json:"dimension"`
	UnlockedSession int   `json:"unlocked_session"`
}

// Proficiency is a user-declared competence claim; advisory only, never
// consulted by the scheduler.
type Proficiency struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// Achievement is an earned achievement row.
type Achievement struct {
	ID       string    `json:"id"`
	EarnedAt time.Time `json:"earned_at"`
}

// AchievementDefinition is a typed, immutable achievement rule.
type AchievementDefinition struct {
	ID          string
	Name        string
	Description string
	Category    string // mastery | exploration | consistency | speed
}

// SignatureStats is the legacy per-signature progression record kept for
// backward display. It is never consulted by the generator or scorer.
type SignatureStats struct {
	SigID            string  `json:"sig_id"`
	Attempts         int     `json:"attempts"`
	BestNPM          int     `json:"best_npm"`
	EMANPM           float64 `json:"ema_npm"`
	LastNPM          int     `json:"last_npm"`
	HasExpanded      bool    `json:"has_expanded"`
	MasteryStreak    int     `json:"mastery_streak"`
	IsMastered       bool    `json:"is_mastered"`
	StrugglingStreak int     `json:"struggling_streak"`
	LastSeen         time.Time `json:"last_seen"`
}

// Suggestion is the value held by the suggestion store between "generate"
// and "log" calls.
type Suggestion struct {
	Compound  Compound `json:"compound"`
	Key       string   `json:"key"`
	Reasoning string   `json:"reasoning"`
	Score     float64  `json:"score"`
}
