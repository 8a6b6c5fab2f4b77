package dimension

import "fretloop-scheduler/internal/models"

type scaleValue struct {
	name string
	tier int
	next []string // gated forward targets, must lie in tier+1
}

// Scale is the tiered-graph dimension: lateral moves within a tier are
// always available, regression to any lower tier is always available,
// and forward progression is gated by each value's explicit next list.
type Scale struct {
	order  []string
	values map[string]scaleValue
}

// NewScale builds the default scale progression: the pentatonic pair at
// tier 0, their diatonic parents at tier 1, and two common modes at tier 2.
func NewScale() *Scale {
	order := []string{"pentatonic_minor", "pentatonic_major", "minor", "major", "dorian", "mixolydian"}
	values := map[string]scaleValue{
		"pentatonic_minor": {name: "pentatonic_minor", tier: 0, next: []string{"minor"}},
		"pentatonic_major": {name: "pentatonic_major", tier: 0, next: []string{"major"}},
		"minor":            {name: "minor", tier: 1, next: []string{"dorian"}},
		"major":            {name: "major", tier: 1, next: []string{"mixolydian"}},
		"dorian":           {name: "dorian", tier: 2, next: nil},
		"mixolydian":       {name: "mixolydian", tier: 2, next: nil},
	}
	return &Scale{order: order, values: values}
}

func (s *Scale) Name() string { return "scale" }

func (s *Scale) EntryPoint() models.Signature {
	return models.NewScaleSignature("pentatonic_minor")
}

func (s *Scale) Signatures() []models.Signature {
	out := make([]models.Signature, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, models.NewScaleSignature(n))
	}
	return out
}

func (s *Scale) GetTier(sig models.Signature) int {
	return s.values[sig.Name].tier
}

func (s *Scale) Neighbors(sig models.Signature) []models.Signature {
	v, ok := s.values[sig.Name]
	if !ok {
		return nil
	}
	seen := map[string]bool{sig.Name: true}
	var out []models.Signature
	for _, other := range s.order {
		if seen[other] {
			continue
		}
		ov := s.values[other]
		switch {
		case ov.tier == v.tier:
			seen[other] = true
			out = append(out, models.NewScaleSignature(other))
		case ov.tier < v.tier:
			seen[other] = true
			out = append(out, models.NewScaleSignature(other))
		case ov.tier == v.tier+1:
			for _, nk := range v.next {
				if nk == other {
					seen[other] = true
					out = append(out, models.NewScaleSignature(other))
					break
				}
			}
		}
	}
	return out
}

func (s *Scale) IsForwardNeighbor(from, to models.Signature) bool {
	v, ok := s.values[from.Name]
	if !ok {
		return false
	}
	tv, ok := s.values[to.Name]
	if !ok {
		return false
	}
	if tv.tier == v.tier {
		return true
	}
	if tv.tier == v.tier+1 {
		for _, nk := range v.next {
			if nk == to.Name {
				return true
			}
		}
	}
	return false
}

func (s *Scale) Describe(sig models.Signature) string {
	return sig.Name
}

func (s *Scale) Prerequisites(v models.Signature) []models.Signature {
	tier := s.GetTier(v)
	var out []models.Signature
	for _, n := range s.order {
		if s.values[n].tier < tier {
			out = append(out, models.NewScaleSignature(n))
		}
	}
	return out
}
