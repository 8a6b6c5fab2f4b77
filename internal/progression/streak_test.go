package progression

import (
	"testing"

	"fretloop-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUpdateStreakScenario5(t *testing.T) {
	info := models.StreakInfo{}

	info = UpdateStreak(info, "2024-01-15")
	assert.Equal(t, 1, info.CurrentStreak)

	info = UpdateStreak(info, "2024-01-16")
	assert.Equal(t, 2, info.CurrentStreak)
	assert.Equal(t, 2, info.LongestStreak)

	info.StreakFreezes = 1

	info = UpdateStreak(info, "2024-01-18")
	assert.Equal(t, 3, info.CurrentStreak)
	assert.Equal(t, 0, info.StreakFreezes)
	assert.Equal(t, 3, info.LongestStreak)

	info = UpdateStreak(info, "2024-01-21")
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 3, info.LongestStreak)
}

func TestUpdateStreakGapTwoNoFreezeResets(t *testing.T) {
	info := models.StreakInfo{CurrentStreak: 2, LongestStreak: 2, LastPracticeDate: "2024-02-01"}
	info = UpdateStreak(info, "2024-02-03")
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 2, info.LongestStreak)
}

func TestUpdateStreakSameDayNoChange(t *testing.T) {
	info := models.StreakInfo{CurrentStreak: 4, LongestStreak: 4, LastPracticeDate: "2024-02-01"}
	info = UpdateStreak(info, "2024-02-01")
	assert.Equal(t, 4, info.CurrentStreak)
}
