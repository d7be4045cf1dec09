package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/GlintPay/grip/questions"
	"github.com/GlintPay/grip/store"
)

const insightsShown = 20

func quarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

func formatOptional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func found(err error) (bool, error) {
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (rtr *Routing) dashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := rtr.now()
		today := now.Format(store.DateLayout)
		year, week := now.ISOWeek()

		_, err := rtr.Store.CheckInByDate(ctx, today)
		hasCheckIn, err := found(err)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		_, err = rtr.Store.WeekReview(ctx, year, week)
		hasReview, err := found(err)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		goals, err := rtr.Store.ActiveGoals(ctx)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		dates, err := rtr.Store.CompletedCheckInDates(ctx)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		tasks, err := rtr.Store.DailyTasks(ctx, today)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		trackers, err := rtr.Store.Trackers(ctx)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		rtr.render(w, "dashboard", map[string]any{
			"Today":         today,
			"HasCheckIn":    hasCheckIn,
			"HasWeekReview": hasReview,
			"Goals":         goals,
			"Streak":        CalculateStreak(dates, now),
			"Year":          year,
			"Week":          week,
			"DailyTasks":    tasks,
			"Trackers":      trackers,
		})
	}
}

func (rtr *Routing) checkInPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := rtr.now()
		today := now.Format(store.DateLayout)

		qs, err := questions.Daily(ctx, rtr.Store, now)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		_, err = rtr.Store.CheckInByDate(ctx, today)
		done, err := found(err)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		rtr.render(w, "checkin", map[string]any{
			"Questions":   qs,
			"Today":       today,
			"AlreadyDone": done,
		})
	}
}

func (rtr *Routing) historyPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := rtr.Store.CheckInHistory(r.Context())
		if err != nil {
			rtr.writeError(w, err)
			return
		}
		rtr.render(w, "history", map[string]any{"History": history})
	}
}

func (rtr *Routing) weekReviewPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		year, week := rtr.now().ISOWeek()

		qs, err := questions.Weekly(ctx, rtr.Store)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		existing, err := rtr.Store.WeekReview(ctx, year, week)
		if _, err := found(err); err != nil {
			rtr.writeError(w, err)
			return
		}

		var score, onTrack string
		if existing != nil {
			score = formatOptional(existing.Score)
			onTrack = formatOptional(existing.OnTrackGoals)
		}

		rtr.render(w, "weekreview", map[string]any{
			"Questions": qs,
			"Year":      year,
			"Week":      week,
			"Existing":  existing,
			"Score":     score,
			"OnTrack":   onTrack,
		})
	}
}

func (rtr *Routing) focusPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := rtr.now()
		year, week := now.ISOWeek()
		quarter := quarterOf(now)

		review, err := rtr.Store.WeekReview(ctx, year, week)
		if errors.Is(err, store.ErrNotFound) {
			// fall back to the most recent review
			review, err = rtr.Store.LatestWeekReview(ctx)
		}
		if _, err := found(err); err != nil {
			rtr.writeError(w, err)
			return
		}

		priorities := ""
		if review != nil {
			priorities = review.PrioritiesNextWeek
		}

		quarterly, err := rtr.Store.ActiveQuarterlyGoals(ctx, year, quarter)
		if err != nil {
			rtr.writeError(w, err)
			return
		}
		yearly, err := rtr.Store.ActiveYearlyGoals(ctx, year)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		rtr.render(w, "focus", map[string]any{
			"Priorities":     priorities,
			"QuarterlyGoals": quarterly,
			"YearlyGoals":    yearly,
			"Week":           week,
			"Year":           year,
			"Quarter":        quarter,
		})
	}
}

type goalView struct {
	store.Goal
	Tasks []store.GoalTask
}

func (rtr *Routing) goalsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := rtr.now()

		all, err := rtr.Store.Goals(ctx)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		var yearly, quarterly, archived []goalView
		for _, g := range all {
			tasks, err := rtr.Store.GoalTasks(ctx, g.Id)
			if err != nil {
				rtr.writeError(w, err)
				return
			}
			v := goalView{Goal: g, Tasks: tasks}

			switch {
			case g.Status != store.StatusActive:
				archived = append(archived, v)
			case g.Type == store.GoalYearly:
				yearly = append(yearly, v)
			default:
				quarterly = append(quarterly, v)
			}
		}

		rtr.render(w, "goals", map[string]any{
			"YearlyGoals":    yearly,
			"QuarterlyGoals": quarterly,
			"ArchivedGoals":  archived,
			"CurrentYear":    now.Year(),
			"CurrentQuarter": quarterOf(now),
		})
	}
}

func (rtr *Routing) insightsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := rtr.Store.RecentInsights(r.Context(), insightsShown)
		if err != nil {
			rtr.writeError(w, err)
			return
		}
		rtr.render(w, "insights", map[string]any{"History": history})
	}
}
