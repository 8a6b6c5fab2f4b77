package dimension

import "fretloop-scheduler/internal/models"

type positionValue struct {
	name string
	next []string // first entry is the forward gateway; rest are neighbors but not forward
}

// Position is the CAGED fretboard-position ladder. Only the first entry
// of a value's next list is a forward neighbor; every value whose next
// list contains s is a backward neighbor of s.
type Position struct {
	order  []string
	values map[string]positionValue
}

// NewPosition builds the default CAGED progression starting at open
// position E.
func NewPosition() *Position {
	order := []string{"E", "C", "A", "G", "D"}
	values := map[string]positionValue{
		"E": {name: "E", next: []string{"C", "G"}},
		"C": {name: "C", next: []string{"A"}},
		"A": {name: "A", next: []string{"G"}},
		"G": {name: "G", next: []string{"D"}},
		"D": {name: "D", next: nil},
	}
	return &Position{order: order, values: values}
}

func (p *Position) Name() string { return "position" }

func (p *Position) EntryPoint() models.Signature {
	return models.NewPositionSignature("E")
}

func (p *Position) Signatures() []models.Signature {
	out := make([]models.Signature, 0, len(p.order))
	for _, n := range p.order {
		out = append(out, models.NewPositionSignature(n))
	}
	return out
}

func (p *Position) Neighbors(s models.Signature) []models.Signature {
	v, ok := p.values[s.Name]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []models.Signature
	for _, n := range v.next {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, models.NewPositionSignature(n))
	}
	for name, other := range p.values {
		if name == s.Name || seen[name] {
			continue
		}
		for _, n := range other.next {
			if n == s.Name {
				seen[name] = true
				out = append(out, models.NewPositionSignature(name))
				break
			}
		}
	}
	return out
}

func (p *Position) IsForwardNeighbor(from, to models.Signature) bool {
	v, ok := p.values[from.Name]
	if !ok || len(v.next) == 0 {
		return false
	}
	return v.next[0] == to.Name
}

func (p *Position) Describe(s models.Signature) string {
	return s.Name + " position"
}

func (p *Position) Prerequisites(v models.Signature) []models.Signature {
	idx := -1
	for i, n := range p.order {
		if n == v.Name {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}
	out := make([]models.Signature, 0, idx)
	for _, n := range p.order[:idx] {
		out = append(out, models.NewPositionSignature(n))
	}
	return out
}
