package api

import (
	"time"

	"github.com/GlintPay/grip/store"
)

// CalculateStreak counts consecutive check-in days walking back from today. dates must be sorted
// newest first. A missed today does not break the streak as long as yesterday was done.
func CalculateStreak(dates []string, today time.Time) int {
	streak := 0
	current := truncateDay(today)

	for _, d := range dates {
		day, err := time.ParseInLocation(store.DateLayout, d, current.Location())
		if err != nil {
			break
		}

		switch {
		case day.Equal(current):
			streak++
			current = current.AddDate(0, 0, -1)
		case day.Equal(current.AddDate(0, 0, -1)):
			streak++
			current = day.AddDate(0, 0, -1)
		default:
			return streak
		}
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
