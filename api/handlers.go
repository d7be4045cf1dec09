package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/store"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func (rtr *Routing) saveCheckInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			badRequest(w, err.Error())
			return
		}

		var answers []store.Answer
		for key, vals := range r.PostForm {
			idStr, ok := strings.CutPrefix(key, "q_")
			if !ok || len(vals) == 0 || vals[0] == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				badRequest(w, "invalid question "+key)
				return
			}

			value := vals[0]
			if r.PostForm.Get("type_"+idStr) == store.TypeScore {
				n, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					badRequest(w, "invalid score for "+key)
					return
				}
				answers = append(answers, store.Answer{QuestionId: id, Score: &n})
			} else {
				answers = append(answers, store.Answer{QuestionId: id, Text: value})
			}
		}

		if _, err := rtr.Store.SaveCheckIn(r.Context(), rtr.today(), answers); err != nil {
			rtr.writeError(w, err)
			return
		}
		checkInsTotal.Inc()

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (rtr *Routing) saveWeekReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form weekReviewForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}

		year, week := rtr.now().ISOWeek()
		err := rtr.Store.SaveWeekReview(r.Context(), store.WeekReview{
			Year:               year,
			WeekNumber:         week,
			Score:              form.Score,
			WentWell:           form.WentWell,
			Improve:            form.Improve,
			OnTrackGoals:       form.OnTrackGoals,
			PrioritiesNextWeek: form.PrioritiesNextWeek,
		})
		if err != nil {
			rtr.writeError(w, err)
			return
		}
		weekReviewsTotal.Inc()

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (rtr *Routing) createGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form goalForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}
		if form.Title == "" || form.Year == 0 {
			badRequest(w, "title and year are required")
			return
		}
		if form.Type != store.GoalYearly && form.Type != store.GoalQuarterly {
			badRequest(w, "invalid goal type")
			return
		}

		_, err := rtr.Store.CreateGoal(r.Context(), store.Goal{
			Title:       form.Title,
			Description: form.Description,
			Type:        form.Type,
			Quarter:     form.Quarter,
			Year:        form.Year,
		})
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/goals", http.StatusSeeOther)
	}
}

type goalChangesRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (rtr *Routing) updateGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid goal id")
			return
		}

		var req goalChangesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if req.Status != nil {
			switch *req.Status {
			case store.StatusActive, store.StatusCompleted, store.StatusAbandoned:
			default:
				badRequest(w, "invalid status")
				return
			}
		}

		err = rtr.Store.UpdateGoal(r.Context(), id, store.GoalChanges{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
		})
		rtr.handleOutput(w, err, map[string]bool{"ok": true})
	}
}

func (rtr *Routing) addGoalUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid goal id")
			return
		}

		var form noteForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}

		if _, err := rtr.Store.AddGoalUpdate(r.Context(), id, form.Note); err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/goals", http.StatusSeeOther)
	}
}

func (rtr *Routing) addGoalTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid goal id")
			return
		}

		var form titleForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}
		if form.Title == "" {
			badRequest(w, "title is required")
			return
		}

		if _, err := rtr.Store.AddGoalTask(r.Context(), id, form.Title); err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/goals", http.StatusSeeOther)
	}
}

func (rtr *Routing) toggleGoalTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid task id")
			return
		}
		completed, err := rtr.Store.ToggleGoalTask(r.Context(), id)
		rtr.handleOutput(w, err, map[string]bool{"ok": true, "completed": completed})
	}
}

func (rtr *Routing) deleteGoalTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid task id")
			return
		}
		err = rtr.Store.DeleteGoalTask(r.Context(), id)
		rtr.handleOutput(w, err, map[string]bool{"ok": true})
	}
}

func (rtr *Routing) listDailyTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = rtr.today()
		}
		tasks, err := rtr.Store.DailyTasks(r.Context(), date)
		if tasks == nil {
			tasks = []store.DailyTask{}
		}
		rtr.handleOutput(w, err, tasks)
	}
}

func (rtr *Routing) addDailyTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form titleForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}
		if form.Title == "" {
			badRequest(w, "title is required")
			return
		}
		if form.Date == "" {
			form.Date = rtr.today()
		}

		if _, err := rtr.Store.AddDailyTask(r.Context(), form.Title, form.Date); err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (rtr *Routing) toggleDailyTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid task id")
			return
		}
		completed, err := rtr.Store.ToggleDailyTask(r.Context(), id)
		rtr.handleOutput(w, err, map[string]bool{"ok": true, "completed": completed})
	}
}

type trackerView struct {
	store.Tracker
	Entries []store.TrackerEntry `json:"entries"`
}

func (rtr *Routing) listTrackersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		since := rtr.now().AddDate(0, 0, -rtr.contextDays()).Format(store.DateLayout)

		trackers, err := rtr.Store.Trackers(ctx)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		views := make([]trackerView, 0, len(trackers))
		for _, t := range trackers {
			entries, err := rtr.Store.TrackerEntries(ctx, t.Id, since)
			if err != nil {
				rtr.writeError(w, err)
				return
			}
			if entries == nil {
				entries = []store.TrackerEntry{}
			}
			views = append(views, trackerView{Tracker: t, Entries: entries})
		}
		rtr.handleOutput(w, nil, views)
	}
}

func (rtr *Routing) createTrackerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form trackerForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}
		if form.Name == "" {
			badRequest(w, "name is required")
			return
		}
		if form.Type != "" && form.Type != store.TrackerNumber && form.Type != store.TrackerBoolean {
			badRequest(w, "invalid tracker type")
			return
		}

		if _, err := rtr.Store.CreateTracker(r.Context(), store.Tracker{Name: form.Name, Unit: form.Unit, Type: form.Type}); err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (rtr *Routing) saveTrackerEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			badRequest(w, "invalid tracker id")
			return
		}

		var form trackerEntryForm
		if err := decodeForm(r, &form); err != nil {
			badRequest(w, err.Error())
			return
		}

		value, err := parseTrackerValue(form.Value)
		if err != nil {
			badRequest(w, "invalid value")
			return
		}
		if form.Date == "" {
			form.Date = rtr.today()
		}

		if err := rtr.Store.SaveTrackerEntry(r.Context(), id, form.Date, value); err != nil {
			rtr.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// parseTrackerValue accepts numbers and checkbox values; an unchecked box posts nothing
func parseTrackerValue(s string) (decimal.Decimal, error) {
	switch strings.ToLower(s) {
	case "", "off", "false":
		return decimal.Zero, nil
	case "on", "true":
		return decimal.NewFromInt(1), nil
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

type askRequest struct {
	Question string `json:"question"`
}

func (rtr *Routing) askInsightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Geen vraag opgegeven")
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			badRequest(w, "Geen vraag opgegeven")
			return
		}

		if rtr.Coach == nil {
			insightsTotal.WithLabelValues("unavailable").Inc()
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"error": "Geen API key geconfigureerd"})
			return
		}

		answer, err := rtr.Coach.Ask(r.Context(), req.Question)
		if err != nil {
			insightsTotal.WithLabelValues("error").Inc()
			rtr.writeError(w, err)
			return
		}

		if _, err := rtr.Store.AddInsight(r.Context(), req.Question, answer, store.ContextGeneral); err != nil {
			insightsTotal.WithLabelValues("error").Inc()
			rtr.writeError(w, err)
			return
		}
		insightsTotal.WithLabelValues("ok").Inc()
		log.Debug().Msg("Coach answered a question")

		rtr.handleOutput(w, nil, map[string]string{"response": answer})
	}
}

func (rtr *Routing) contextDays() int {
	if rtr.AppConfig.Insights.ContextDays > 0 {
		return rtr.AppConfig.Insights.ContextDays
	}
	return config.DefaultContextDays
}
