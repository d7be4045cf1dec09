package api

import "github.com/prometheus/client_golang/prometheus"

var (
	checkInsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grip",
		Name:      "checkins_saved_total",
		Help:      "Daily check-ins saved.",
	})

	weekReviewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grip",
		Name:      "week_reviews_saved_total",
		Help:      "Week reviews saved.",
	})

	insightsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grip",
		Name:      "insights_requests_total",
		Help:      "Coach questions by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(checkInsTotal, weekReviewsTotal, insightsTotal)
}
