package models

// Compound is the ordered tuple of dimension values a learner practices.
// NotePattern and Articulation are optional at the type level (the Has*
// flags track presence) even though storage always populates them from
// first practice onward.
type Compound struct {
	Scale         string `json:"scale"`
	Position      string `json:"position"`
	Rhythm        string `json:"rhythm"`
	RhythmPattern string `json:"rhythm_pattern"`
	NotePattern   string `json:"note_pattern,omitempty"`
	Articulation  string `json:"articulation,omitempty"`

	HasNotePattern  bool `json:"-"`
	HasArticulation bool `json:"-"`
}

// Equal reports field-by-field equality, accounting for unset optional
// dimensions.
func (c Compound) Equal(other Compound) bool {
	if c.Scale != other.Scale || c.Position != other.Position ||
		c.Rhythm != other.Rhythm || c.RhythmPattern != other.RhythmPattern {
		return false
	}
	if c.HasNotePattern != other.HasNotePattern {
		return false
	}
	if c.HasNotePattern && c.NotePattern != other.NotePattern {
		return false
	}
	if c.HasArticulation != other.HasArticulation {
		return false
	}
	if c.HasArticulation && c.Articulation != other.Articulation {
		return false
	}
	return true
}

// WithDimension returns a copy of c with the named dimension set to sig.
// Dimension names match Signature.Dimension ("scale", "position",
// "rhythm", "note-pattern", "articulation").
func (c Compound) WithDimension(sig Signature) Compound {
	next := c
	switch sig.Dimension {
	case "scale":
		next.Scale = sig.Name
	case "position":
		next.Position = sig.Name
	case "rhythm":
		next.Rhythm = sig.Name
		next.RhythmPattern = sig.Pattern
	case "note-pattern":
		next.NotePattern = sig.Name
		next.HasNotePattern = true
	case "articulation":
		next.Articulation = sig.Name
		next.HasArticulation = true
	}
	return next
}

// Value returns the Signature currently occupying the named dimension, and
// whether that dimension is populated on this compound.
func (c Compound) Value(dimension string) (Signature, bool) {
	switch dimension {
	case "scale":
		return NewScaleSignature(c.Scale), true
	case "position":
		return NewPositionSignature(c.Position), true
	case "rhythm":
		return NewRhythmSignature(c.Rhythm, c.RhythmPattern), true
	case "note-pattern":
		if !c.HasNotePattern {
			return Signature{}, false
		}
		return NewNotePatternSignature(c.NotePattern), true
	case "articulation":
		if !c.HasArticulation {
			return Signature{}, false
		}
		return NewArticulationSignature(c.Articulation), true
	}
	return Signature{}, false
}

// CompoundStats is the per-user, per-compound progression state.
type CompoundStats struct {
	CompoundID            string  `json:"compound_id"`
	Attempts              int     `json:"attempts"`
	BestNPM               int     `json:"best_npm"`
	EMANPM                float64 `json:"ema_npm"`
	LastNPM               int     `json:"last_npm"`
	LastBPM               int     `json:"last_bpm"`
	HasExpanded           bool    `json:"has_expanded"`
	MasteryStreak         int     `json:"mastery_streak"`
	IsMastered            bool    `json:"is_mastered"`
	StrugglingStreak      int     `json:"struggling_streak"`
	LastPracticedSession  *int    `json:"last_practiced_session,omitempty"`
	// FirstPracticedSession records the session of this compound's first
	// attempt, used to attribute an expansion to the dimension tier that
	// was active when it happened.
	FirstPracticedSession *int    `json:"first_practiced_session,omitempty"`
}
