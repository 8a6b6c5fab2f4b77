// Package dimension implements the pluggable skill-axis model, its tiered
// neighbor graphs, and the forward/backward classification used
// throughout candidate generation and the graph builder.
package dimension

import "fretloop-scheduler/internal/models"

// Dimension is the contract every skill axis implements.
type Dimension interface {
	Name() string
	EntryPoint() models.Signature
	Signatures() []models.Signature
	Neighbors(s models.Signature) []models.Signature
	IsForwardNeighbor(from, to models.Signature) bool
	Describe(s models.Signature) string
	Prerequisites(v models.Signature) []models.Signature
}

// Tiered is an optional capability: dimensions with an internal difficulty
// tier.
type Tiered interface {
	GetTier(s models.Signature) int
}

// Rhythmic is an optional capability checked only for the rhythm
// dimension, which is the only axis where a signature maps to a
// notes-per-beat subdivision.
type Rhythmic interface {
	NotesPerBeat(s models.Signature) int
}
