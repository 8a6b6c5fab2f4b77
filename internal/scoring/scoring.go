// Package scoring implements the four-component candidate scorer and the
// squared-weight selector: a small, pure, config-driven set of functions
// with no side effects.
package scoring

import (
	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/models"
)

// Components holds the four weighted-sum inputs plus the two additive
// boosts the generator applies before dedup.
type Components struct {
	Consolidation   float64
	Staleness       float64
	Readiness       float64
	Diversity       float64
	RecencyBoost    float64
	StrugglingBoost float64
}

// Total combines the weighted sum of the four components with the two
// additive boosts.
func (c Components) Total(w config.ScoringSettings) float64 {
	return w.ConsolidationWeight*c.Consolidation +
		w.StalenessWeight*c.Staleness +
		w.ReadinessWeight*c.Readiness +
		w.DiversityWeight*c.Diversity +
		c.RecencyBoost + c.StrugglingBoost
}

// Consolidation scores a STAY candidate against the learner's overall
// current compound. Zero for any candidate other than the current
// compound itself.
func Consolidation(candidate, current models.Compound, currentStats *models.CompoundStats) float64 {
	if !candidate.Equal(current) {
		return 0
	}
	if currentStats == nil {
		return 1.0
	}
	if currentStats.IsMastered {
		return 0
	}
	if !currentStats.HasExpanded {
		return 1.0
	}
	return 0.2
}

// Staleness rewards a candidate that has not been practiced recently (or
// ever).
func Staleness(stats *models.CompoundStats, currentSession, stalenessSessions int) float64 {
	if stats == nil || stats.LastPracticedSession == nil {
		return 1.0
	}
	if stalenessSessions <= 0 {
		return 1.0
	}
	gap := float64(currentSession-*stats.LastPracticedSession) / float64(stalenessSessions)
	if gap > 1 {
		return 1
	}
	if gap < 0 {
		return 0
	}
	return gap
}

// RelatedSample is one related compound's stats paired with the single
// dimension by which it differs from the candidate, used for the
// transfer-learning readiness estimate.
type RelatedSample struct {
	EMANPM         float64
	ChangedDimension string
}

// Readiness estimates how close a candidate is to the expansion
// threshold, either from its own EMA or, lacking direct history, from
// related compounds scaled by their transfer coefficient.
func Readiness(stats *models.CompoundStats, related []RelatedSample, scoring config.ScoringSettings, expansionNPM int) float64 {
	if expansionNPM <= 0 {
		return 0
	}
	if stats != nil && stats.Attempts > 0 {
		v := stats.EMANPM / float64(expansionNPM)
		if v > 1 {
			return 1
		}
		if v < 0 {
			return 0
		}
		return v
	}
	if len(related) == 0 {
		return 0.3
	}
	sum := 0.0
	for _, r := range related {
		coeff := scoring.TransferCoefficient(r.ChangedDimension)
		sum += r.EMANPM * coeff
	}
	mean := sum / float64(len(related))
	v := mean / float64(expansionNPM)
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// Diversity rewards exploring a dimension that hasn't changed recently.
// Zero for STAY (changedDim == "").
func Diversity(changedDim string, recentChanges []string, lookback int) float64 {
	if changedDim == "" {
		return 0
	}
	n := lookback
	if n > len(recentChanges) {
		n = len(recentChanges)
	}
	for _, d := range recentChanges[len(recentChanges)-n:] {
		if d == changedDim {
			return 0
		}
	}
	return 0.5
}

// RecencyBoost rewards neglected practiced compounds once the learner has
// more than a couple of them in play.
func RecencyBoost(totalPracticed int, sessionsSincePractice int, cap float64, sessions int) float64 {
	if totalPracticed <= 2 {
		return 0
	}
	if sessionsSincePractice < 0 {
		sessionsSincePractice = 0
	}
	if sessions <= 0 {
		return cap
	}
	boost := float64(sessionsSincePractice) / float64(sessions)
	if boost > cap {
		return cap
	}
	return boost
}

// StrugglingBoost adds a fixed boost when the source compound has an
// active struggling streak.
func StrugglingBoost(strugglingStreak int, amount float64) float64 {
	if strugglingStreak > 0 {
		return amount
	}
	return 0
}

// SelectSquaredWeight performs squared-weight random selection: square
// every score, cumulative-weight pick, uniform fallback if every score is
// zero. randUnit must return a value in [0, 1).
func SelectSquaredWeight(scores []float64, randUnit func() float64) int {
	if len(scores) == 0 {
		return -1
	}
	if len(scores) == 1 {
		return 0
	}

	squared := make([]float64, len(scores))
	total := 0.0
	for i, s := range scores {
		sq := s * s
		squared[i] = sq
		total += sq
	}

	if total == 0 {
		idx := int(randUnit() * float64(len(scores)))
		if idx >= len(scores) {
			idx = len(scores) - 1
		}
		return idx
	}

	target := randUnit() * total
	cumulative := 0.0
	for i, sq := range squared {
		cumulative += sq
		if target < cumulative {
			return i
		}
	}
	return len(scores) - 1
}
