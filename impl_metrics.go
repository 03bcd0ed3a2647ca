package disk_image_create

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	imageCreatePrometheusMetrics sync.Once

	imageCreateStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "disk_image",
			Subsystem: "creator",
			Name:      "images_started_total",
			Help:      "Number of image creations that were started.",
		})
	imageCreateSucceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "disk_image",
			Subsystem: "creator",
			Name:      "images_succeeded_total",
			Help:      "Number of image creations that reached completion.",
		})
	imageCreateFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "disk_image",
			Subsystem: "creator",
			Name:      "images_failed_total",
			Help:      "Number of image creations that errored or were canceled.",
		})
	imageCreateMiBWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "disk_image",
			Subsystem: "creator",
			Name:      "mib_written_total",
			Help:      "Number of MiB units zero-filled across all image creations.",
		})
)

type metricsProgressSink struct {
	base      ProgressSink
	lastUnits int64
}

// NewMetricsProgressSink creates a decorator for ProgressSink that exposes
// Prometheus metrics on how many image creations ran and how much data they
// wrote.
func NewMetricsProgressSink(base ProgressSink) ProgressSink {
	imageCreatePrometheusMetrics.Do(func() {
		prometheus.MustRegister(imageCreateStarted)
		prometheus.MustRegister(imageCreateSucceeded)
		prometheus.MustRegister(imageCreateFailed)
		prometheus.MustRegister(imageCreateMiBWritten)
	})

	return &metricsProgressSink{base: base}
}

func (s *metricsProgressSink) ReportTotal(totalUnits int64, cancel Canceler) {
	imageCreateStarted.Inc()
	s.lastUnits = 0
	s.base.ReportTotal(totalUnits, cancel)
}

func (s *metricsProgressSink) ReportProgress(currentUnits, totalUnits int64) {
	if currentUnits > s.lastUnits {
		imageCreateMiBWritten.Add(float64(currentUnits - s.lastUnits))
		s.lastUnits = currentUnits
	}
	s.base.ReportProgress(currentUnits, totalUnits)
}

func (s *metricsProgressSink) ShouldCancel() bool {
	return s.base.ShouldCancel()
}

func (s *metricsProgressSink) ReportOutcome(succeeded bool) {
	if succeeded {
		imageCreateSucceeded.Inc()
	} else {
		imageCreateFailed.Inc()
	}
	s.base.ReportOutcome(succeeded)
}
