package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const tracerName = "monitor"

var (
	mProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_probes_total", Help: "Probes by resulting status.",
	}, []string{"status"})
	mProbeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_probe_latency_seconds",
		Help:    "Probe latency",
		Buckets: prometheus.DefBuckets,
	})
	mChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_status_changes_total", Help: "Status transitions observed",
	})
	mCycleDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_cycle_duration_seconds",
		Help:    "Poll cycle duration including notifications",
		Buckets: prometheus.DefBuckets,
	})
	mNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_notifications_total", Help: "Notifications by kind and result.",
	}, []string{"kind", "result"})
	mBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_download_batches_total", Help: "Download batches completed",
	})
	mTargets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_download_targets_total", Help: "Download targets by result.",
	}, []string{"result"})
	mTasksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "monitor_detached_tasks_in_flight", Help: "Detached tasks still running",
	})
)
