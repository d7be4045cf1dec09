package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "none", dates: nil, want: 0},
		{name: "today only", dates: []string{"2025-03-10"}, want: 1},
		{name: "yesterday only", dates: []string{"2025-03-09"}, want: 1},
		{name: "run including today", dates: []string{"2025-03-10", "2025-03-09", "2025-03-08"}, want: 3},
		{name: "run ending yesterday", dates: []string{"2025-03-09", "2025-03-08", "2025-03-07"}, want: 3},
		{name: "gap stops", dates: []string{"2025-03-10", "2025-03-09", "2025-03-06", "2025-03-05"}, want: 2},
		{name: "too old", dates: []string{"2025-03-07", "2025-03-06"}, want: 0},
		{name: "across month", dates: []string{"2025-03-01", "2025-02-28"}, want: 0},
		{name: "garbage stops", dates: []string{"2025-03-10", "nope"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(tt.dates, today))
		})
	}

	assert.Equal(t, 2, CalculateStreak([]string{"2025-03-01", "2025-02-28"}, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)))
}
