package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	ClaimCommitTotal           = "claim_commit_total"
	SnapshotFailureTotal       = "snapshot_failure_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		ClaimCommitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ClaimCommitTotal,
			Help: "Count of claim outcomes per collection",
		}, []string{"status"}),
		SnapshotFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SnapshotFailureTotal,
			Help: "Count of ownership snapshots which could not be taken",
		}, []string{"collection_id"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)
