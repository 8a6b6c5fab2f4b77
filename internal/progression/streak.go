package progression

import (
	"time"

	"fretloop-scheduler/internal/models"
)

const dateLayout = "2006-01-02"

// UpdateStreak applies the calendar-day streak rules to info for a
// practice logged on date (YYYY-MM-DD), returning the updated value.
func UpdateStreak(info models.StreakInfo, date string) models.StreakInfo {
	if info.LastPracticeDate == "" {
		info.CurrentStreak = 1
		info.LongestStreak = max(info.LongestStreak, 1)
		info.LastPracticeDate = date
		return info
	}

	gap := gapDays(info.LastPracticeDate, date)

	switch {
	case gap <= 0:
		// Same day or an out-of-order earlier date: no change.
		return info
	case gap == 1:
		info.CurrentStreak++
		info.LongestStreak = max(info.LongestStreak, info.CurrentStreak)
		info.LastPracticeDate = date
	case gap == 2 && info.StreakFreezes > 0:
		info.CurrentStreak++
		info.StreakFreezes--
		info.LongestStreak = max(info.LongestStreak, info.CurrentStreak)
		info.LastPracticeDate = date
	default:
		info.CurrentStreak = 1
		info.LastPracticeDate = date
	}
	return info
}

func gapDays(from, to string) int {
	a, errA := time.Parse(dateLayout, from)
	b, errB := time.Parse(dateLayout, to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
