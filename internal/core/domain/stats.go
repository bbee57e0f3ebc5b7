package domain

import (
	"errors"
	"time"
)

var (
	ErrStatsNotFound = errors.New("user stats not found")
)

const (
	InitialLevel = 1
	XPPerLevel   = 100
)

type UserStats struct {
	UserID              string     `json:"-" db:"user_id"`
	Level               int        `json:"level" db:"level"`
	XP                  int        `json:"xp" db:"xp"`
	TotalTasksCompleted int        `json:"total_tasks_completed" db:"total_tasks_completed"`
	Streak              int        `json:"streak" db:"streak"`
	LastCompletedAt     *time.Time `json:"last_completed_at,omitempty" db:"last_completed_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// DefaultStats is what a user starts with, and what a missing record loads as.
func DefaultStats(userID string) UserStats {
	return UserStats{
		UserID: userID,
		Level:  InitialLevel,
	}
}

// XPToNextLevel is the XP needed to leave the current level.
func (s UserStats) XPToNextLevel() int {
	return s.Level * XPPerLevel
}

type LevelChange string

const (
	LevelUnchanged LevelChange = ""
	LevelUp        LevelChange = "up"
	LevelDown      LevelChange = "down"
)

func CompareLevels(before, after UserStats) LevelChange {
	switch {
	case after.Level > before.Level:
		return LevelUp
	case after.Level < before.Level:
		return LevelDown
	default:
		return LevelUnchanged
	}
}

// Progress is the read model rendered next to the task list.
type Progress struct {
	Level           int     `json:"level"`
	XP              int     `json:"xp"`
	XPToNextLevel   int     `json:"xp_to_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
	Streak          int     `json:"streak"`
	Multiplier      float64 `json:"multiplier"`
	TotalCompleted  int     `json:"total_tasks_completed"`
	Rank            Rank    `json:"rank"`
	StreakTier      Tier    `json:"streak_tier"`
	DailyQuote      string  `json:"daily_quote"`
}

func NewProgress(stats UserStats, now time.Time) Progress {
	next := stats.XPToNextLevel()

	percent := 0.0
	if next > 0 {
		percent = float64(stats.XP) / float64(next) * 100
		if percent > 100 {
			percent = 100
		}
	}

	return Progress{
		Level:           stats.Level,
		XP:              stats.XP,
		XPToNextLevel:   next,
		ProgressPercent: percent,
		Streak:          stats.Streak,
		Multiplier:      StreakMultiplier(stats.Streak),
		TotalCompleted:  stats.TotalTasksCompleted,
		Rank:            RankForLevel(stats.Level),
		StreakTier:      TierForStreak(stats.Streak),
		DailyQuote:      DailyQuote(now),
	}
}
