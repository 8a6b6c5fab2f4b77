package dimension

import "fretloop-scheduler/internal/models"

// Registry is the named lookup of dimensions: resolve the four known
// dimensions through a registry rather than dispatching virtually on every
// lookup.
type Registry struct {
	byName map[string]Dimension
	order  []string
}

// NewDefaultRegistry builds the registry with the four concrete
// dimensions and the reserved articulation placeholder.
func NewDefaultRegistry() *Registry {
	r := &Registry{byName: map[string]Dimension{}}
	r.register(NewScale())
	r.register(NewPosition())
	r.register(NewRhythm())
	r.register(NewNotePattern())
	r.register(NewArticulation())
	return r
}

func (r *Registry) register(d Dimension) {
	r.byName[d.Name()] = d
	r.order = append(r.order, d.Name())
}

// Get returns the dimension by name, or nil if unknown.
func (r *Registry) Get(name string) Dimension {
	return r.byName[name]
}

// Names returns every registered dimension's name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// TierZeroNames returns the always-unlocked base dimensions.
func (r *Registry) TierZeroNames() []string {
	return []string{"scale", "position", "rhythm"}
}

// HigherTierNames returns the gated-exploration dimensions.
func (r *Registry) HigherTierNames() []string {
	return []string{"note-pattern", "articulation"}
}

// Rhythm is a typed accessor for the rhythm dimension, exposing the
// NotesPerBeat capability without a type assertion at call sites.
func (r *Registry) Rhythm() *Rhythm {
	d, _ := r.byName["rhythm"].(*Rhythm)
	return d
}

// EntryPointCompound builds the all-entry-points compound used for the
// no-practice-history edge case.
func (r *Registry) EntryPointCompound() models.Compound {
	scale := r.Get("scale").EntryPoint()
	position := r.Get("position").EntryPoint()
	rhythm := r.Get("rhythm").EntryPoint()
	notePattern := r.Get("note-pattern").EntryPoint()
	articulation := r.Get("articulation").EntryPoint()

	c := models.Compound{
		Scale:           scale.Name,
		Position:        position.Name,
		Rhythm:          rhythm.Name,
		RhythmPattern:   rhythm.Pattern,
		NotePattern:     notePattern.Name,
		HasNotePattern:  true,
		Articulation:    articulation.Name,
		HasArticulation: true,
	}
	return c
}
