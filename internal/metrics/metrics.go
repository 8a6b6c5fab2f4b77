// Package metrics exposes the Prometheus instrumentation surfacing
// suggestion, practice, mastery, and achievement activity across users.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fretloop_suggestions_generated_total",
		Help: "Suggestions produced by generate_compound_suggestion, by source.",
	}, []string{"source"})

	PracticeLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fretloop_practice_logged_total",
		Help: "Practice entries logged, by rhythm and scale.",
	}, []string{"rhythm", "scale"})

	CompoundMastered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fretloop_compound_mastered_total",
		Help: "Compounds that newly latched is_mastered.",
	})

	AchievementEarned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fretloop_achievement_earned_total",
		Help: "Achievements earned, by achievement id.",
	}, []string{"achievement_id"})

	SuggestionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fretloop_suggestion_latency_seconds",
		Help:    "Wall-clock time spent generating a suggestion.",
		Buckets: prometheus.DefBuckets,
	})
)
