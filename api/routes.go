package api

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/store"
	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog/log"
)

const (
	applicationJSON = "application/json"
)

// Coach answers a free-form question against the stored data
type Coach interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Routing struct {
	ServerName   string
	ParentRouter chi.Router

	AppConfig config.ApplicationConfiguration
	Store     *store.Store
	Coach     Coach
	Now       func() time.Time

	templates *template.Template
}

func (rtr *Routing) SetupFunctionalRoutes(r chi.Router) error {
	if e := rtr.enableOTelForRouter(r); e != nil {
		return e
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	rtr.templates = tmpl

	r.Get("/", rtr.dashboardHandler())
	r.Get("/checkin", rtr.checkInPageHandler())
	r.Get("/checkin/history", rtr.historyPageHandler())
	r.Get("/weekreview", rtr.weekReviewPageHandler())
	r.Get("/focus", rtr.focusPageHandler())
	r.Get("/goals", rtr.goalsPageHandler())
	r.Get("/insights", rtr.insightsPageHandler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkin", rtr.saveCheckInHandler())
		r.Post("/weekreview", rtr.saveWeekReviewHandler())

		r.Post("/goals", rtr.createGoalHandler())
		r.Put("/goals/{id}", rtr.updateGoalHandler())
		r.Post("/goals/{id}/update", rtr.addGoalUpdateHandler())
		r.Post("/goals/{id}/tasks", rtr.addGoalTaskHandler())
		r.Put("/tasks/{id}/toggle", rtr.toggleGoalTaskHandler())
		r.Delete("/tasks/{id}", rtr.deleteGoalTaskHandler())

		r.Get("/daily-tasks", rtr.listDailyTasksHandler())
		r.Post("/daily-tasks", rtr.addDailyTaskHandler())
		r.Put("/daily-tasks/{id}/toggle", rtr.toggleDailyTaskHandler())

		r.Get("/trackers", rtr.listTrackersHandler())
		r.Post("/trackers", rtr.createTrackerHandler())
		r.Post("/trackers/{id}/entries", rtr.saveTrackerEntryHandler())

		r.Post("/insights/ask", rtr.askInsightHandler())
	})

	r.Handle("/static/*", staticHandler())

	return nil
}

func (rtr *Routing) now() time.Time {
	if rtr.Now != nil {
		return rtr.Now()
	}
	return time.Now()
}

func (rtr *Routing) today() string {
	return rtr.now().Format(store.DateLayout)
}

func (rtr *Routing) handleOutput(w http.ResponseWriter, err error, val any) {
	if err != nil {
		rtr.writeError(w, err)
		return
	}

	bytes, err := json.Marshal(val)
	if err != nil {
		rtr.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", applicationJSON)
	_, _ = w.Write(bytes)
}

func (rtr *Routing) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeStatus(w, http.StatusNotFound, map[string]any{"message": err.Error()})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)

	info := map[string]interface{}{"message": err.Error()}
	_ = json.NewEncoder(w).Encode(info)

	log.Error().Err(err).Stack().Msg("Response error")
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeStatus(w, http.StatusBadRequest, map[string]any{"error": msg})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (rtr *Routing) enableOTelForRouter(r chi.Router) error {
	if !rtr.AppConfig.Tracing.Enabled {
		return nil
	}

	if rtr.ServerName == "" || rtr.ParentRouter == nil {
		return errors.New("OTel not configured")
	}

	r.Use(otelchi.Middleware(rtr.ServerName, otelchi.WithChiRoutes(rtr.ParentRouter)))

	log.Info().Msgf("OpenTelemetry trace is enabled")
	return nil
}
