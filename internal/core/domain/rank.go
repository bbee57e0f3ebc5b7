package domain

import "time"

type Rank struct {
	Title string `json:"title"`
	Perk  string `json:"perk,omitempty"`
}

func RankForLevel(level int) Rank {
	switch {
	case level >= 50:
		return Rank{Title: "Zen Master", Perk: "Legendary"}
	case level >= 25:
		return Rank{Title: "Sage", Perk: "Deep Flow"}
	case level >= 10:
		return Rank{Title: "Scholar", Perk: "Focus +5%"}
	default:
		return Rank{Title: "Seeker"}
	}
}

// Tier names the streak bracket; thresholds match StreakMultiplier.
type Tier struct {
	Label string `json:"label"`
	Boost string `json:"boost,omitempty"`
}

func TierForStreak(streak int) Tier {
	switch {
	case streak >= 90:
		return Tier{Label: "Transcendent", Boost: "2.0x XP"}
	case streak >= 30:
		return Tier{Label: "Devoted", Boost: "1.5x XP"}
	case streak >= 7:
		return Tier{Label: "Diligent", Boost: "1.2x XP"}
	default:
		return Tier{Label: "Consistency"}
	}
}

var quotes = []string{
	"True knowledge exists in knowing that you know nothing.",
	"The expert in anything was once a beginner.",
	"Wisdom begins in wonder.",
	"Simplicity is the final achievement.",
	"A journey of a thousand miles begins with a single step.",
}

func DailyQuote(now time.Time) string {
	return quotes[now.Day()%len(quotes)]
}
