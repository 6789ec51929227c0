package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unusedvar_scan_seconds",
		Help:    "Time spent scanning, by scope (file or batch).",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedvar_files_scanned_total",
		Help: "Total number of source files run through the detector or served from cache.",
	})

	UnusedVariables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "unusedvar_unused_variables",
		Help: "Number of unused variables in the current result set.",
	})

	TrackedFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "unusedvar_tracked_files",
		Help: "Number of files in the current result set.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedvar_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedvar_cache_hits_total",
		Help: "Detector results served from the content-hash cache.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedvar_cache_misses_total",
		Help: "Detector runs caused by content not present in the cache.",
	})

	HistoryWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedvar_history_write_errors_total",
		Help: "Total number of failed history snapshot writes.",
	})
)
