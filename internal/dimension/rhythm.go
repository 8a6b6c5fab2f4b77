package dimension

import "fretloop-scheduler/internal/models"

type rhythmValue struct {
	name         string
	pattern      string
	notesPerBeat int
	tier         int
	next         []string // keys of forward-progression rhythms
}

func rhythmKey(name, pattern string) string {
	return name + ":" + pattern
}

// Rhythm is the linear-ladder dimension: neighbors are the union of each
// value's forward ladder entries and their inverses.
type Rhythm struct {
	order  []string
	values map[string]rhythmValue
}

// NewRhythm builds the default rhythm ladder: straight eighths through
// triplet subdivision, the beginner's path through common strum/picking
// patterns.
func NewRhythm() *Rhythm {
	order := []string{
		rhythmKey("8ths", "xx"),
		rhythmKey("8ths", "downup"),
		rhythmKey("16ths", "xxxx"),
		rhythmKey("16ths", "dotted"),
		rhythmKey("triplets", "xxx"),
	}
	values := map[string]rhythmValue{
		rhythmKey("8ths", "xx"): {
			name: "8ths", pattern: "xx", notesPerBeat: 2, tier: 0,
			next: []string{rhythmKey("8ths", "downup"), rhythmKey("16ths", "xxxx")},
		},
		rhythmKey("8ths", "downup"): {
			name: "8ths", pattern: "downup", notesPerBeat: 2, tier: 1,
			next: []string{rhythmKey("16ths", "xxxx")},
		},
		rhythmKey("16ths", "xxxx"): {
			name: "16ths", pattern: "xxxx", notesPerBeat: 4, tier: 2,
			next: []string{rhythmKey("16ths", "dotted"), rhythmKey("triplets", "xxx")},
		},
		rhythmKey("16ths", "dotted"): {
			name: "16ths", pattern: "dotted", notesPerBeat: 4, tier: 3,
			next: []string{rhythmKey("triplets", "xxx")},
		},
		rhythmKey("triplets", "xxx"): {
			name: "triplets", pattern: "xxx", notesPerBeat: 3, tier: 4,
			next: nil,
		},
	}
	return &Rhythm{order: order, values: values}
}

func (r *Rhythm) Name() string { return "rhythm" }

func (r *Rhythm) EntryPoint() models.Signature {
	return models.NewRhythmSignature("8ths", "xx")
}

func (r *Rhythm) Signatures() []models.Signature {
	sigs := make([]models.Signature, 0, len(r.order))
	for _, k := range r.order {
		v := r.values[k]
		sigs = append(sigs, models.NewRhythmSignature(v.name, v.pattern))
	}
	return sigs
}

func (r *Rhythm) Neighbors(s models.Signature) []models.Signature {
	key := rhythmKey(s.Name, s.Pattern)
	v, ok := r.values[key]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []models.Signature
	for _, nk := range v.next {
		if seen[nk] {
			continue
		}
		seen[nk] = true
		nv := r.values[nk]
		out = append(out, models.NewRhythmSignature(nv.name, nv.pattern))
	}
	for k, other := range r.values {
		if k == key || seen[k] {
			continue
		}
		for _, nk := range other.next {
			if nk == key {
				seen[k] = true
				out = append(out, models.NewRhythmSignature(other.name, other.pattern))
				break
			}
		}
	}
	return out
}

func (r *Rhythm) IsForwardNeighbor(from, to models.Signature) bool {
	v, ok := r.values[rhythmKey(from.Name, from.Pattern)]
	if !ok {
		return false
	}
	toKey := rhythmKey(to.Name, to.Pattern)
	for _, nk := range v.next {
		if nk == toKey {
			return true
		}
	}
	return false
}

func (r *Rhythm) Describe(s models.Signature) string {
	return s.Name + " (" + s.Pattern + ")"
}

func (r *Rhythm) GetTier(s models.Signature) int {
	return r.values[rhythmKey(s.Name, s.Pattern)].tier
}

func (r *Rhythm) NotesPerBeat(s models.Signature) int {
	return r.values[rhythmKey(s.Name, s.Pattern)].notesPerBeat
}

func (r *Rhythm) Prerequisites(v models.Signature) []models.Signature {
	tier := r.GetTier(v)
	var out []models.Signature
	for _, k := range r.order {
		val := r.values[k]
		if val.tier < tier {
			out = append(out, models.NewRhythmSignature(val.name, val.pattern))
		}
	}
	return out
}
