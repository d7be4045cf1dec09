package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GlintPay/grip/store"
)

const (
	NoData        = "Nog geen data beschikbaar."
	reviewsInView = 4
)

// Source is the read side of the store used to describe recent activity
type Source interface {
	AnswersSince(ctx context.Context, since string) ([]store.AnsweredQuestion, error)
	RecentWeekReviews(ctx context.Context, limit int) ([]store.WeekReview, error)
	ActiveGoals(ctx context.Context) ([]store.Goal, error)
	GoalTasks(ctx context.Context, goalId int64) ([]store.GoalTask, error)
	TrackerPointsSince(ctx context.Context, since string) ([]store.TrackerPoint, error)
}

// BuildContext renders the last `days` of check-ins, the latest week reviews, active goals with
// their tasks and tracker data as markdown
func BuildContext(ctx context.Context, src Source, today time.Time, days int) (string, error) {
	since := today.AddDate(0, 0, -days).Format(store.DateLayout)
	var parts []string

	answers, err := src.AnswersSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("loading check-ins: %w", err)
	}
	if len(answers) > 0 {
		parts = append(parts, "## Recente check-ins")
		current := ""
		for _, a := range answers {
			if a.Date != current {
				current = a.Date
				parts = append(parts, "\n### "+current)
			}
			parts = append(parts, fmt.Sprintf("- %s: %s", a.Text, a.Display()))
		}
	}

	reviews, err := src.RecentWeekReviews(ctx, reviewsInView)
	if err != nil {
		return "", fmt.Errorf("loading week reviews: %w", err)
	}
	if len(reviews) > 0 {
		parts = append(parts, "\n## Recente weekreviews")
		for _, r := range reviews {
			parts = append(parts, fmt.Sprintf("\n### Week %d (%d)", r.WeekNumber, r.Year))
			if r.Score != nil && *r.Score != 0 {
				parts = append(parts, fmt.Sprintf("- Score: %d/10", *r.Score))
			}
			if r.WentWell != "" {
				parts = append(parts, "- Ging goed: "+r.WentWell)
			}
			if r.Improve != "" {
				parts = append(parts, "- Verbeteren: "+r.Improve)
			}
			if r.PrioritiesNextWeek != "" {
				parts = append(parts, "- Prioriteiten: "+r.PrioritiesNextWeek)
			}
		}
	}

	goals, err := src.ActiveGoals(ctx)
	if err != nil {
		return "", fmt.Errorf("loading goals: %w", err)
	}
	if len(goals) > 0 {
		parts = append(parts, "\n## Actieve doelen")
		for _, g := range goals {
			label := fmt.Sprintf("%s %d", g.Type, g.Year)
			if g.Quarter != "" {
				label += " " + g.Quarter
			}
			parts = append(parts, fmt.Sprintf("- [%s] %s", label, g.Title))
			if g.Description != "" {
				parts = append(parts, "  "+g.Description)
			}

			tasks, err := src.GoalTasks(ctx, g.Id)
			if err != nil {
				return "", fmt.Errorf("loading tasks of goal %d: %w", g.Id, err)
			}
			for _, t := range tasks {
				mark := " "
				if t.Completed {
					mark = "x"
				}
				parts = append(parts, fmt.Sprintf("  [%s] %s", mark, t.Title))
			}
		}
	}

	points, err := src.TrackerPointsSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("loading trackers: %w", err)
	}
	if len(points) > 0 {
		parts = append(parts, "\n## Tracker data")
		current := ""
		for _, p := range points {
			name := p.Name
			if p.Unit != "" {
				name += " (" + p.Unit + ")"
			}
			if name != current {
				current = name
				parts = append(parts, "\n### "+name)
			}
			parts = append(parts, fmt.Sprintf("- %s: %s", p.Date, p.Value.String()))
		}
	}

	if len(parts) == 0 {
		return NoData, nil
	}
	return strings.Join(parts, "\n"), nil
}
