package deploy

import (
	"context"
	"sync"
	"time"

	"codnect.io/chrono"
	"github.com/rs/zerolog/log"
)

type Runner interface {
	Prepare(ctx context.Context) (*Plan, error)
	Deploy(ctx context.Context, plan *Plan, req Request) (*Report, error)
}

// Watcher re-renders on a fixed rate and deploys only when the rendered content changes
type Watcher struct {
	Runner   Runner
	Request  Request
	Interval time.Duration

	running   sync.Mutex
	lastHash  string
	scheduler chrono.TaskScheduler
	task      chrono.ScheduledTask
}

func (w *Watcher) Start(ctx context.Context) error {
	w.scheduler = chrono.NewDefaultTaskScheduler()

	log.Info().Msgf("Watching for changes every %v", w.Interval)

	task, err := w.scheduler.ScheduleAtFixedRate(func(_ context.Context) {
		w.Tick(ctx)
	}, w.Interval)
	if err != nil {
		return err
	}
	w.task = task
	return nil
}

func (w *Watcher) Stop() {
	if w.task != nil {
		w.task.Cancel()
	}
	if w.scheduler != nil {
		<-w.scheduler.Shutdown()
	}
}

// Tick runs one cycle, skipping it when the previous one has not finished. It reports whether a
// deployment was made.
func (w *Watcher) Tick(ctx context.Context) bool {
	if !w.running.TryLock() {
		log.Debug().Msg("Previous run still in progress, skipping")
		return false
	}
	defer w.running.Unlock()

	start := time.Now()

	plan, err := w.Runner.Prepare(ctx)
	if err != nil {
		observe(ResultError, start)
		log.Error().Err(err).Msg("Render failed")
		return false
	}

	if plan.Hash == w.lastHash {
		observe(ResultUnchanged, start)
		return false
	}

	report, err := w.Runner.Deploy(ctx, plan, w.Request)
	if err != nil {
		observe(ResultError, start)
		log.Error().Err(err).Msg("Deployment failed")
		return false
	}

	w.lastHash = plan.Hash
	if report.Deployed {
		observe(ResultDeployed, start)
	} else {
		observe(ResultUnchanged, start)
	}
	return report.Deployed
}
