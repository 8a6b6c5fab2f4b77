package dimension

import "fretloop-scheduler/internal/models"

// Articulation is the reserved, unimplemented tier-2 dimension: declared
// so compound storage can populate it from its entry point, but carrying
// no neighbor graph. Neighbors always returns nil, so the candidate
// generator never proposes a change along this dimension until a real
// value set and neighbor graph are supplied.
type Articulation struct{}

// NewArticulation builds the reserved articulation dimension.
func NewArticulation() *Articulation { return &Articulation{} }

func (a *Articulation) Name() string { return "articulation" }

func (a *Articulation) EntryPoint() models.Signature {
	return models.NewArticulationSignature("continuous")
}

func (a *Articulation) Signatures() []models.Signature {
	return []models.Signature{a.EntryPoint()}
}

func (a *Articulation) Neighbors(models.Signature) []models.Signature { return nil }

func (a *Articulation) IsForwardNeighbor(models.Signature, models.Signature) bool { return false }

func (a *Articulation) Describe(s models.Signature) string { return s.Name }

func (a *Articulation) Prerequisites(models.Signature) []models.Signature { return nil }

func (a *Articulation) GetTier(models.Signature) int { return 2 }
