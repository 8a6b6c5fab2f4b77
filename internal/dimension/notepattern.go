package dimension

import "fretloop-scheduler/internal/models"

// NotePattern is the tiered, tier-to-values dimension: unlike Scale,
// there is no per-value next list — forward progression always gates
// through the single first value of the next tier (a global gateway, not
// a per-value one).
type NotePattern struct {
	tierValues [][]string
	tierOf     map[string]int
}

// NewNotePattern builds the default note-pattern tiers.
func NewNotePattern() *NotePattern {
	tiers := [][]string{
		{"stepwise", "skips"},
		{"sequences", "arpeggios"},
		{"hybrid_picking"},
	}
	tierOf := map[string]int{}
	for tier, names := range tiers {
		for _, n := range names {
			tierOf[n] = tier
		}
	}
	return &NotePattern{tierValues: tiers, tierOf: tierOf}
}

func (n *NotePattern) Name() string { return "note-pattern" }

func (n *NotePattern) EntryPoint() models.Signature {
	return models.NewNotePatternSignature("stepwise")
}

func (n *NotePattern) Signatures() []models.Signature {
	var out []models.Signature
	for _, names := range n.tierValues {
		for _, name := range names {
			out = append(out, models.NewNotePatternSignature(name))
		}
	}
	return out
}

func (n *NotePattern) GetTier(sig models.Signature) int {
	return n.tierOf[sig.Name]
}

// gatewayOf returns the single forward-reachable value of tier+1, or ""
// if there is no such tier.
func (n *NotePattern) gatewayOf(tier int) string {
	if tier+1 >= len(n.tierValues) {
		return ""
	}
	next := n.tierValues[tier+1]
	if len(next) == 0 {
		return ""
	}
	return next[0]
}

func (n *NotePattern) Neighbors(sig models.Signature) []models.Signature {
	tier, ok := n.tierOf[sig.Name]
	if !ok {
		return nil
	}
	var out []models.Signature
	for _, name := range n.tierValues[tier] {
		if name != sig.Name {
			out = append(out, models.NewNotePatternSignature(name))
		}
	}
	for t := tier - 1; t >= 0; t-- {
		for _, name := range n.tierValues[t] {
			out = append(out, models.NewNotePatternSignature(name))
		}
	}
	if gw := n.gatewayOf(tier); gw != "" {
		out = append(out, models.NewNotePatternSignature(gw))
	}
	return out
}

func (n *NotePattern) IsForwardNeighbor(from, to models.Signature) bool {
	tier, ok := n.tierOf[from.Name]
	if !ok {
		return false
	}
	if n.tierOf[to.Name] == tier {
		return true
	}
	return n.gatewayOf(tier) == to.Name
}

func (n *NotePattern) Describe(sig models.Signature) string {
	return sig.Name
}

func (n *NotePattern) Prerequisites(v models.Signature) []models.Signature {
	tier := n.GetTier(v)
	var out []models.Signature
	for t := 0; t < tier; t++ {
		for _, name := range n.tierValues[t] {
			out = append(out, models.NewNotePatternSignature(name))
		}
	}
	return out
}
