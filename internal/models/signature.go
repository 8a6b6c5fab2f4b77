package models

import "fmt"

// Signature is a tagged value on one dimension. Dimension is the
// discriminator; Pattern is only meaningful for the rhythm variant.
type Signature struct {
	Dimension string `json:"dimension"`
	Name      string `json:"name"`
	Pattern   string `json:"pattern,omitempty"`
}

// ID renders the canonical sig_id used as a map key.
func (s Signature) ID() string {
	if s.Dimension == "rhythm" {
		return fmt.Sprintf("rhythm:%s:%s", s.Name, s.Pattern)
	}
	return fmt.Sprintf("%s:%s", s.Dimension, s.Name)
}

// NewRhythmSignature builds a rhythm variant.
func NewRhythmSignature(name, pattern string) Signature {
	return Signature{Dimension: "rhythm", Name: name, Pattern: pattern}
}

// NewScaleSignature builds a scale variant.
func NewScaleSignature(name string) Signature {
	return Signature{Dimension: "scale", Name: name}
}

// NewPositionSignature builds a position variant.
func NewPositionSignature(name string) Signature {
	return Signature{Dimension: "position", Name: name}
}

// NewNotePatternSignature builds a note-pattern variant.
func NewNotePatternSignature(name string) Signature {
	return Signature{Dimension: "note-pattern", Name: name}
}

// NewArticulationSignature builds an articulation variant.
func NewArticulationSignature(name string) Signature {
	return Signature{Dimension: "articulation", Name: name}
}
