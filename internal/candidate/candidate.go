// Package candidate implements the candidate generator: enumerates
// 1-dimension-change compounds reachable from practiced history,
// filtered by expansion and unlock gates, deduplicated by maximum score.
package candidate

import (
	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/scoring"
	"fretloop-scheduler/internal/store"
)

// Candidate is one proposal the selector may choose from.
type Candidate struct {
	Compound         models.Compound
	CompoundID       string
	Score            float64
	SourceCompoundID string
	ChangedDimension string // "" for a STAY candidate
}

// Generator produces candidates for a single user's practice state.
type Generator struct {
	Registry *dimension.Registry
	Repo     store.Repository
	Config   *config.Config
}

// New builds a Generator over the given registry, repository and config.
func New(reg *dimension.Registry, repo store.Repository, cfg *config.Config) *Generator {
	return &Generator{Registry: reg, Repo: repo, Config: cfg}
}

// Generate runs the full candidate-generation algorithm and returns the
// deduplicated, 1-change-filtered candidate set.
func (g *Generator) Generate() ([]Candidate, error) {
	hasHistory, err := g.Repo.HasAnyPractice()
	if err != nil {
		return nil, err
	}
	if !hasHistory {
		entry := g.Registry.EntryPointCompound()
		return []Candidate{{
			Compound:   entry,
			CompoundID: compoundid.ID(entry),
			Score:      1.0,
		}}, nil
	}

	last, err := g.Repo.GetLastPractice()
	if err != nil {
		return nil, err
	}
	current := last.Compound()
	currentID := compoundid.ID(current)

	session, err := g.Repo.GetCurrentSession()
	if err != nil {
		return nil, err
	}

	allStats, err := g.Repo.GetAllCompoundStats()
	if err != nil {
		return nil, err
	}

	unlockedDims := map[string]bool{}
	unlocks, err := g.Repo.GetUnlockedDimensions()
	if err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		unlockedDims[u.Dimension] = true
	}

	recentChanges, err := g.recentChangedDimensions(g.Config.DiversityLookback)
	if err != nil {
		return nil, err
	}

	currentStats, err := g.Repo.GetCompoundStats(currentID)
	if err != nil {
		return nil, err
	}

	byID := map[string]Candidate{}

	for _, source := range allStats {
		sourceCompound, err := compoundid.Parse(source.CompoundID)
		if err != nil {
			continue
		}

		if !source.IsMastered {
			cand, err := g.buildCandidate(sourceCompound, "", current, currentStats, source, session, len(allStats), recentChanges)
			if err != nil {
				return nil, err
			}
			addOrKeepMax(byID, cand)
		}

		if source.HasExpanded {
			for _, dimName := range g.Registry.TierZeroNames() {
				if err := g.expandAlong(byID, dimName, sourceCompound, source, current, currentStats, session, len(allStats), recentChanges); err != nil {
					return nil, err
				}
			}
		}

		for _, dimName := range g.Registry.HigherTierNames() {
			if !unlockedDims[dimName] {
				continue
			}
			if err := g.expandAlong(byID, dimName, sourceCompound, source, current, currentStats, session, len(allStats), recentChanges); err != nil {
				return nil, err
			}
		}
	}

	var filtered []Candidate
	for _, cand := range byID {
		if compoundid.CountDimensionChanges(current, cand.Compound) <= 1 {
			filtered = append(filtered, cand)
		}
	}

	if len(filtered) == 0 {
		entry := g.Registry.EntryPointCompound()
		return []Candidate{{
			Compound:   entry,
			CompoundID: compoundid.ID(entry),
			Score:      1.0,
		}}, nil
	}

	return filtered, nil
}

func (g *Generator) expandAlong(byID map[string]Candidate, dimName string, sourceCompound models.Compound, source models.CompoundStats, current models.Compound, currentStats *models.CompoundStats, session, totalPracticed int, recentChanges []string) error {
	dim := g.Registry.Get(dimName)
	if dim == nil {
		return nil
	}
	curSig, ok := sourceCompound.Value(dimName)
	if !ok {
		return nil
	}
	for _, neighborSig := range dim.Neighbors(curSig) {
		candCompound := sourceCompound.WithDimension(neighborSig)
		candID := compoundid.ID(candCompound)
		candStats, err := g.Repo.GetCompoundStats(candID)
		if err != nil {
			return err
		}
		if candStats != nil && candStats.IsMastered {
			continue
		}
		cand, err := g.buildCandidate(candCompound, dimName, current, currentStats, source, session, totalPracticed, recentChanges)
		if err != nil {
			return err
		}
		addOrKeepMax(byID, cand)
	}
	return nil
}

func (g *Generator) buildCandidate(candCompound models.Compound, changedDim string, current models.Compound, currentStats *models.CompoundStats, source models.CompoundStats, session, totalPracticed int, recentChanges []string) (Candidate, error) {
	candID := compoundid.ID(candCompound)

	candStats, err := g.Repo.GetCompoundStats(candID)
	if err != nil {
		return Candidate{}, err
	}

	var related []scoring.RelatedSample
	if candStats == nil || candStats.Attempts == 0 {
		relatedStats, err := g.Repo.GetRelatedCompounds(candCompound)
		if err != nil {
			return Candidate{}, err
		}
		for _, r := range relatedStats {
			other, err := compoundid.Parse(r.CompoundID)
			if err != nil {
				continue
			}
			dim, ok := compoundid.ChangedDimension(candCompound, other)
			if !ok {
				continue
			}
			related = append(related, scoring.RelatedSample{EMANPM: r.EMANPM, ChangedDimension: dim})
		}
	}

	c := scoring.Components{
		Consolidation: scoring.Consolidation(candCompound, current, currentStats),
		Staleness:     scoring.Staleness(candStats, session, g.Config.CompoundScoring.StalenessSessions),
		Readiness:     scoring.Readiness(candStats, related, g.Config.CompoundScoring, g.Config.Progression.ExpansionNPM),
		Diversity:     scoring.Diversity(changedDim, recentChanges, g.Config.DiversityLookback),
	}

	sessionsSincePractice := session
	if source.LastPracticedSession != nil {
		sessionsSincePractice = session - *source.LastPracticedSession
	}
	c.RecencyBoost = scoring.RecencyBoost(totalPracticed, sessionsSincePractice, g.Config.RecencyBoostCap, g.Config.RecencyBoostSessions)
	c.StrugglingBoost = scoring.StrugglingBoost(source.StrugglingStreak, g.Config.StrugglingBoost)

	return Candidate{
		Compound:         candCompound,
		CompoundID:       candID,
		Score:            c.Total(g.Config.CompoundScoring),
		SourceCompoundID: source.CompoundID,
		ChangedDimension: changedDim,
	}, nil
}

func addOrKeepMax(byID map[string]Candidate, cand Candidate) {
	existing, ok := byID[cand.CompoundID]
	if !ok || cand.Score > existing.Score {
		byID[cand.CompoundID] = cand
	}
}

// recentChangedDimensions walks the last lookback+1 practice entries in
// chronological order and returns the dimension that changed between each
// consecutive pair, for the diversity component.
func (g *Generator) recentChangedDimensions(lookback int) ([]string, error) {
	if lookback <= 0 {
		return nil, nil
	}
	recent, err := g.Repo.GetRecentPractice(lookback + 1)
	if err != nil {
		return nil, err
	}
	// GetRecentPractice returns newest-first; reverse to chronological.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	var changes []string
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Compound()
		next := recent[i].Compound()
		if dim, ok := compoundid.ChangedDimension(prev, next); ok {
			changes = append(changes, dim)
		}
	}
	return changes, nil
}
