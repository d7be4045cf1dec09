package deploy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultDeployed  = "deployed"
	ResultUnchanged = "unchanged"
	ResultDryRun    = "dry_run"
	ResultError     = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grip",
		Name:      "deploy_runs_total",
		Help:      "Deployment pipeline runs by result.",
	}, []string{"result"})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grip",
		Name:      "deploy_duration_seconds",
		Help:      "Deployment pipeline duration in seconds.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

func init() {
	prometheus.MustRegister(runsTotal, runDuration)
}

func observe(result string, start time.Time) {
	runsTotal.WithLabelValues(result).Inc()
	runDuration.Observe(time.Since(start).Seconds())
}
