package insights

import (
	"context"
	"testing"
	"time"

	"github.com/GlintPay/grip/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), "grip.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Init(context.Background()))
	return s
}

func score(v int64) *int64 {
	return &v
}

var today = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestBuildContextEmpty(t *testing.T) {
	got, err := BuildContext(context.Background(), newStore(t), today, 30)
	require.NoError(t, err)
	assert.Equal(t, NoData, got)
}

func TestBuildContext(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.SaveCheckIn(ctx, "2025-03-09", []store.Answer{
		{QuestionId: 2, Text: "Deploy afronden"},
		{QuestionId: 1, Score: score(7)},
	})
	require.NoError(t, err)
	_, err = s.SaveCheckIn(ctx, "2025-01-01", []store.Answer{{QuestionId: 1, Score: score(2)}})
	require.NoError(t, err)

	require.NoError(t, s.SaveWeekReview(ctx, store.WeekReview{Year: 2025, WeekNumber: 10, Score: score(8), WentWell: "Sport", PrioritiesNextWeek: "Rust"}))

	goal, err := s.CreateGoal(ctx, store.Goal{Title: "Marathon", Description: "Voor de zomer", Type: store.GoalQuarterly, Quarter: "Q1", Year: 2025})
	require.NoError(t, err)
	task, err := s.AddGoalTask(ctx, goal, "Schema kiezen")
	require.NoError(t, err)
	_, err = s.ToggleGoalTask(ctx, task)
	require.NoError(t, err)
	_, err = s.AddGoalTask(ctx, goal, "30 km lopen")
	require.NoError(t, err)

	tracker, err := s.CreateTracker(ctx, store.Tracker{Name: "Slaap", Unit: "uur"})
	require.NoError(t, err)
	require.NoError(t, s.SaveTrackerEntry(ctx, tracker, "2025-03-08", decimal.RequireFromString("7.5")))

	got, err := BuildContext(ctx, s, today, 30)
	require.NoError(t, err)

	want := `## Recente check-ins

### 2025-03-09
- Energieniveau: 7
- Wat is vandaag je #1 prioriteit?: Deploy afronden

## Recente weekreviews

### Week 10 (2025)
- Score: 8/10
- Ging goed: Sport
- Prioriteiten: Rust

## Actieve doelen
- [quarterly 2025 Q1] Marathon
  Voor de zomer
  [x] Schema kiezen
  [ ] 30 km lopen

## Tracker data

### Slaap (uur)
- 2025-03-08: 7.5`

	assert.Equal(t, want, got)
}
