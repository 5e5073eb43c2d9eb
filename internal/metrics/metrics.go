package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	ShareToggles       *prometheus.CounterVec
	Interactions       *prometheus.CounterVec
	SyncRuns           *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
}

func InitMetrics() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_request",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		ShareToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_toggles",
				Help: "Total number of purchase share/unshare toggles",
			},
			[]string{"state"},
		),
		Interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interactions",
				Help: "Total number of like/comment/save interactions",
			},
			[]string{"type"},
		),
		SyncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_runs",
				Help: "Total number of store sync runs",
			},
			[]string{"platform"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bad_requests",
				Help: "Total number of rejected (4xx) HTTP requests",
			},
			[]string{"path"},
		),
	}

	prometheus.MustRegister(
		m.SuccessfulRequests,
		m.ShareToggles,
		m.Interactions,
		m.SyncRuns,
		m.BadRequests,
	)
	return m
}
