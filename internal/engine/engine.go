// Package engine wires the dimension registry, repository, candidate
// generator, scorer/selector, progression controller and suggestion store
// into the single per-user facade an adapter (HTTP handler, CLI) calls.
package engine

import (
	"time"

	"fretloop-scheduler/internal/candidate"
	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/graph"
	"fretloop-scheduler/internal/metrics"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/progression"
	"fretloop-scheduler/internal/scoring"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/suggestionstore"
)

// Engine is the single-user facade: one per user identity, not safe for
// concurrent use by more than one caller at a time.
type Engine struct {
	Registry   *dimension.Registry
	Repo       store.Repository
	Config     *config.Config
	Suggestion suggestionstore.Store
	Controller *progression.Controller

	// RandUnit sources the squared-weight selector; must return a value in
	// [0, 1). The key is picked round-robin from the session counter and
	// does not use it. New stores the given function as is, with no default.
	RandUnit func() float64
}

// New builds an Engine over the given collaborators.
func New(reg *dimension.Registry, repo store.Repository, cfg *config.Config, suggestion suggestionstore.Store, randUnit func() float64) *Engine {
	ctl := progression.New(reg, repo, cfg, suggestion)
	return &Engine{
		Registry:   reg,
		Repo:       repo,
		Config:     cfg,
		Suggestion: suggestion,
		Controller: ctl,
		RandUnit:   randUnit,
	}
}

// GenerateSuggestion runs candidate generation, scoring and squared-weight
// selection, then saves the chosen suggestion so a subsequent LogSuggested
// call can consume it.
func (e *Engine) GenerateSuggestion() (models.Suggestion, error) {
	start := time.Now()
	defer func() { metrics.SuggestionLatency.Observe(time.Since(start).Seconds()) }()

	hasHistory, err := e.Repo.HasAnyPractice()
	if err != nil {
		return models.Suggestion{}, err
	}

	gen := candidate.New(e.Registry, e.Repo, e.Config)
	candidates, err := gen.Generate()
	if err != nil {
		return models.Suggestion{}, err
	}
	isSingletonEntryPoint := len(candidates) == 1 && candidates[0].SourceCompoundID == ""

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = c.Score
	}
	idx := scoring.SelectSquaredWeight(scores, e.RandUnit)
	chosen := candidates[idx]

	session, err := e.Repo.GetCurrentSession()
	if err != nil {
		return models.Suggestion{}, err
	}
	var key string
	if len(e.Config.Keys) > 0 {
		key = e.Config.Keys[session%len(e.Config.Keys)]
	}

	suggestion := models.Suggestion{
		Compound:  chosen.Compound,
		Key:       key,
		Reasoning: reasoningFor(chosen),
		Score:     chosen.Score,
	}

	if err := e.Suggestion.Save(suggestion); err != nil {
		return models.Suggestion{}, err
	}

	metrics.SuggestionsGenerated.WithLabelValues(suggestionSource(hasHistory, isSingletonEntryPoint)).Inc()
	return suggestion, nil
}

// suggestionSource classifies a generated suggestion for the
// SuggestionsGenerated counter: "entrypoint" for the no-history seed,
// "fallback" when the 1-change filter emptied the candidate set,
// "candidates" otherwise.
func suggestionSource(hasHistory, isSingletonEntryPoint bool) string {
	if !isSingletonEntryPoint {
		return "candidates"
	}
	if !hasHistory {
		return "entrypoint"
	}
	return "fallback"
}

// LogSuggestedPractice logs the pending suggestion against bpm. It is a
// MissingPrecondition error to call this with no suggestion pending.
func (e *Engine) LogSuggestedPractice(bpm int) (progression.LogResult, error) {
	pending, err := e.Suggestion.Load()
	if err != nil {
		return progression.LogResult{}, err
	}
	if pending == nil {
		return progression.LogResult{}, store.MissingPrereq("no pending suggestion to log against")
	}
	return e.logPractice(progression.LogInput{
		Compound:  pending.Compound,
		Key:       pending.Key,
		BPM:       bpm,
		Reasoning: pending.Reasoning,
	})
}

// LogCustomPractice logs an arbitrary tuple the caller picked themselves,
// bypassing the suggestion store entirely.
func (e *Engine) LogCustomPractice(compound models.Compound, key string, bpm int) (progression.LogResult, error) {
	return e.logPractice(progression.LogInput{Compound: compound, Key: key, BPM: bpm})
}

func (e *Engine) logPractice(in progression.LogInput) (progression.LogResult, error) {
	prior, err := e.Repo.GetCompoundStats(compoundid.ID(in.Compound))
	if err != nil {
		return progression.LogResult{}, err
	}
	wasMastered := prior != nil && prior.IsMastered

	result, err := e.Controller.LogPractice(in)
	if err != nil {
		return progression.LogResult{}, err
	}

	metrics.PracticeLogged.WithLabelValues(in.Compound.Rhythm, in.Compound.Scale).Inc()
	if result.CompoundStats.IsMastered && !wasMastered {
		metrics.CompoundMastered.Inc()
	}
	for _, id := range result.EarnedAchievements {
		metrics.AchievementEarned.WithLabelValues(id).Inc()
	}
	return result, nil
}

// Graph builds the practiced-compound graph for UI display.
func (e *Engine) Graph() (graph.Graph, error) {
	all, err := e.Repo.GetAllCompoundStats()
	if err != nil {
		return graph.Graph{}, err
	}
	return graph.Build(e.Registry, all)
}

// ExpandedGraph adds potential forward-only neighbor nodes for unlocked
// dimensions.
func (e *Engine) ExpandedGraph() (graph.Graph, error) {
	all, err := e.Repo.GetAllCompoundStats()
	if err != nil {
		return graph.Graph{}, err
	}
	unlocks, err := e.Repo.GetUnlockedDimensions()
	if err != nil {
		return graph.Graph{}, err
	}
	unlocked := map[string]bool{}
	for _, u := range unlocks {
		unlocked[u.Dimension] = true
	}
	return graph.BuildExpanded(e.Registry, all, unlocked)
}

// Recalculate rebuilds every derived stat from the practice log.
func (e *Engine) Recalculate() error {
	return e.Repo.RecalculateAllStats(
		e.Config.EMAAlpha,
		e.Config.Progression.ExpansionNPM,
		e.Config.Progression.MasteryNPM,
		e.Config.Progression.MasteryStreak,
		e.Config.Struggling.NPM,
	)
}

// reasoningFor renders a short human-readable rationale for a chosen
// candidate.
func reasoningFor(c candidate.Candidate) string {
	switch c.ChangedDimension {
	case "":
		if c.SourceCompoundID == "" {
			return "Building foundation with the starting exercise."
		}
		return "Consolidating: staying on " + c.CompoundID + " to build consistency."
	case "scale":
		return "Exploring a new scale from " + c.SourceCompoundID + "."
	case "position":
		return "Shifting position from " + c.SourceCompoundID + "."
	case "rhythm":
		return "Varying rhythm from " + c.SourceCompoundID + "."
	case "note-pattern":
		return "Expanding note pattern from " + c.SourceCompoundID + "."
	case "articulation":
		return "Adding articulation from " + c.SourceCompoundID + "."
	default:
		return "Building foundation."
	}
}
