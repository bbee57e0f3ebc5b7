package domain

import (
	"math"
	"time"
)

// StreakMultiplier scales XP rewards for consistent users.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 90:
		return 2.0
	case streak >= 30:
		return 1.5
	case streak >= 7:
		return 1.2
	default:
		return 1.0
	}
}

// BaseReward is the XP a task of priority p is worth before the streak bonus.
func BaseReward(p Priority) int {
	switch p {
	case PriorityHigh:
		return 50
	case PriorityMedium:
		return 25
	default:
		return 10
	}
}

// Reward is the XP granted for completing a task of priority p with the given streak.
func Reward(p Priority, streak int) int {
	return int(math.Round(float64(BaseReward(p)) * StreakMultiplier(streak)))
}

// Normalize carries excess XP into level-ups until xp < level*100.
func Normalize(level, xp int) (int, int) {
	if level < InitialLevel {
		level = InitialLevel
	}
	if xp < 0 {
		xp = 0
	}

	for xp >= level*XPPerLevel {
		xp -= level * XPPerLevel
		level++
	}

	return level, xp
}

// CompleteTask applies one task completion at time now. The multiplier is taken
// from the streak as it was before this completion.
func CompleteTask(stats UserStats, p Priority, now time.Time) UserStats {
	next := stats

	reward := Reward(p, stats.Streak)
	next.Level, next.XP = Normalize(stats.Level, stats.XP+reward)

	switch {
	case stats.LastCompletedAt == nil:
		next.Streak = 1
	default:
		gap := DaysBetween(*stats.LastCompletedAt, now)
		if gap == 1 {
			next.Streak = stats.Streak + 1
		} else if gap > 1 {
			next.Streak = 1
		}
	}

	completedAt := now
	next.LastCompletedAt = &completedAt
	next.TotalTasksCompleted = stats.TotalTasksCompleted + 1

	return next
}

// ReconcileStreakOnLoad expires a streak when more than one calendar day has
// passed since the last completion.
func ReconcileStreakOnLoad(stats UserStats, today time.Time) UserStats {
	next := stats
	if stats.LastCompletedAt != nil && DaysBetween(*stats.LastCompletedAt, today) > 1 {
		next.Streak = 0
	}
	return next
}

// StartOfDay returns local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from 'from' to 'to', evaluated in to's
// location. DST transitions do not affect the result.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.In(to.Location()).Date()
	ty, tm, td := to.Date()

	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}
