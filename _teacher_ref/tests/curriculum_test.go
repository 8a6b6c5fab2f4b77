package tests

import (
	"noble-ngs-curriculum/internal/config"
	"noble-ngs-curriculum/internal/services"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestLevelProgression tests the level progression logic
func TestLevelProgression(t *testing.T) {
	// Create a test config with XP thresholds
	cfg := &config.Config{
		LevelUpXPThresholds: []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700, 3250, 3850},
		AgentUnlockLevel:    12,
	}

	// Create a mock progress service (without DB connection for unit tests)
	service := services.NewProgressService(nil, cfg)

	t.Run("User starts at level 1 with 0 XP", func(t *testing.T) {
		// Level 1 starts at 0 XP
		level := calculateLevel(service, 0)
		assert.Equal(t, 1, level, "User should start at level 1")
	})

	t.Run("User reaches level 2 at 100 XP", func(t *testing.T) {
		level := calculateLevel(service, 100)
		assert.Equal(t, 2, level, "User should reach level 2 at 100 XP")
	})

	t.Run("User reaches level 3 at 250 XP", func(t *testing.T) {
		level := calculateLevel(service, 250)
		assert.Equal(t, 3, level, "User should reach level 3 at 250 XP")
	})

	t.Run("User stays at current level if below threshold", func(t *testing.T) {
		level := calculateLevel(service, 99)
		assert.Equal(t, 1, level, "User should stay at level 1 with 99 XP")

		level = calculateLevel(service, 249)
		assert.Equal(t, 2, level, "User should stay at level 2 with 249 XP")
	})

	t.Run("User reaches max level with enough XP", func(t *testing.T) {
		level := calculateLevel(service, 10000)
		assert.Equal(t, 12, level, "User should reach max level with high XP")
	})
}

// TestXPTracking tests XP earning and tracking
func TestXPTracking(t *testing.T) {
	cfg := &config.Config{
		XPSources: map[string]int{
			"lesson_completion": 50,
			"challenge_passed":  100,
			"reflection":        25,
			"daily_streak":      10,
		},
		LevelUpXPThresholds: []int{0, 100, 250, 450},
		AgentUnlockLevel:    12,
	}

	t.Run("Lesson completion awards correct XP", func(t *testing.T) {
		xpAmount := cfg.XPSources["lesson_completion"]
		assert.Equal(t, 50, xpAmount, "Lesson completion should award 50 XP")
	})

	t.Run("Challenge completion awards correct XP", func(t *testing.T) {
		xpAmount := cfg.XPSources["challenge_passed"]
		assert.Equal(t, 100, xpAmount, "Challenge completion should award 100 XP")
	})

	t.Run("Multiple XP sources accumulate", func(t *testing.T) {
		totalXP := 0
		totalXP += cfg.XPSources["lesson_completion"] // 50
		totalXP += cfg.XPSources["challenge_passed"]  // 100
		totalXP += cfg.XPSources["reflection"]        // 25

		assert.Equal(t, 175, totalXP, "Total XP should accumulate correctly")
	})
}

// TestAgentCreationGating tests the agent creation unlock logic
func TestAgentCreationGating(t *testing.T) {
	cfg := &config.Config{
		AgentUnlockLevel:    12,
		LevelUpXPThresholds: []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700, 3250, 3850},
	}

	t.Run("Agent creation is locked before level 12", func(t *testing.T) {
		for level := 1; level < 12; level++ {
			canCreate := level >= cfg.AgentUnlockLevel
			assert.False(t, canCreate, "Agent creation should be locked at level %d", level)
		}
	})

	t.Run("Agent creation unlocks at level 12", func(t *testing.T) {
		currentLevel := 12
		canCreateAgent := currentLevel >= cfg.AgentUnlockLevel
		assert.True(t, canCreateAgent, "Agent creation should unlock at level 12")
	})

	t.Run("Agent creation remains unlocked after level 12", func(t *testing.T) {
		for level := 12; level <= 24; level++ {
			canCreate := level >= cfg.AgentUnlockLevel
			assert.True(t, canCreate, "Agent creation should remain unlocked at level %d", level)
		}
	})
}

// TestAchievementUnlocking tests achievement logic
func TestAchievementUnlocking(t *testing.T) {
	t.Run("Level up triggers achievement", func(t *testing.T) {
		oldLevel := 5
		newLevel := 6

		leveledUp := newLevel > oldLevel
		assert.True(t, leveledUp, "Level up should be detected")
	})

	t.Run("Same level doesn't trigger achievement", func(t *testing.T) {
		oldLevel := 5
		newLevel := 5

		leveledUp := newLevel > oldLevel
		assert.False(t, leveledUp, "No level up when level stays the same")
	})

	t.Run("Agent unlock triggers achievement", func(t *testing.T) {
		agentUnlockLevel := 12
		previouslyUnlocked := false
		currentLevel := 12

		shouldUnlock := currentLevel >= agentUnlockLevel && !previouslyUnlocked
		assert.True(t, shouldUnlock, "Agent unlock should trigger achievement")
	})

	t.Run("Agent unlock doesn't trigger if already unlocked", func(t *testing.T) {
		agentUnlockLevel := 12
		previouslyUnlocked := true
		currentLevel := 13

		shouldUnlock := currentLevel >= agentUnlockLevel && !previouslyUnlocked
		assert.False(t, shouldUnlock, "Agent unlock achievement shouldn't trigger if already unlocked")
	})
}

// TestProgressCalculations tests progress percentage calculations
func TestProgressCalculations(t *testing.T) {
	cfg := &config.Config{
		LevelUpXPThresholds: []int{0, 100, 250, 450, 700},
	}

	t.Run("Progress at 0% of current level", func(t *testing.T) {
		currentLevel := 2
		totalXP := 100 // At the start of level 2

		currentThreshold := cfg.LevelUpXPThresholds[currentLevel-1] // 100
		nextThreshold := cfg.LevelUpXPThresholds[currentLevel]      // 250
		xpInCurrentLevel := totalXP - currentThreshold              // 0
		xpNeededForLevel := nextThreshold - currentThreshold        // 150

		progressPercent := (float64(xpInCurrentLevel) / float64(xpNeededForLevel)) * 100
		assert.Equal(t, 0.0, progressPercent, "Progress should be 0% at level start")
	})

	t.Run("Progress at 50% of current level", func(t *testing.T) {
		currentLevel := 2
		totalXP := 175 // Halfway through level 2 (100 + 75)

		currentThreshold := cfg.LevelUpXPThresholds[currentLevel-1]
		nextThreshold := cfg.LevelUpXPThresholds[currentLevel]
		xpInCurrentLevel := totalXP - currentThreshold
		xpNeededForLevel := nextThreshold - currentThreshold

		progressPercent := (float64(xpInCurrentLevel) / float64(xpNeededForLevel)) * 100
		assert.Equal(t, 50.0, progressPercent, "Progress should be 50% at midpoint")
	})

	t.Run("XP to next level calculation", func(t *testing.T) {
		totalXP := 150
		nextThreshold := 250

		xpToNextLevel := nextThreshold - totalXP
		assert.Equal(t, 100, xpToNextLevel, "Should need 100 more XP to level up")
	})
}

// TestUserProgressInitialization tests initial user setup
func TestUserProgressInitialization(t *testing.T) {
	t.Run("New user starts at level 1", func(t *testing.T) {
		initialLevel := 1
		assert.Equal(t, 1, initialLevel, "New user should start at level 1")
	})

	t.Run("New user starts with 0 XP", func(t *testing.T) {
		initialXP := 0
		assert.Equal(t, 0, initialXP, "New user should start with 0 XP")
	})

	t.Run("New user doesn't have agent creation unlocked", func(t *testing.T) {
		agentUnlocked := false
		assert.False(t, agentUnlocked, "New user shouldn't have agent creation unlocked")
	})

	t.Run("User ID is valid UUID", func(t *testing.T) {
		userID := uuid.New()
		assert.NotEqual(t, uuid.Nil, userID, "User ID should be valid UUID")
	})
}

// Helper function that reimplements the private calculateLevel logic (no reflection)
// In production code, this would be exported or tested through public methods
func calculateLevel(service *services.ProgressService, totalXP int) int {
	// Since calculateLevel is not exported, we test through the config
	// This is a simplified version that mimics the logic
	cfg := &config.Config{
		LevelUpXPThresholds: []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700, 3250, 3850},
	}

	level := 1
	for i, threshold := range cfg.LevelUpXPThresholds {
		if totalXP >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}
