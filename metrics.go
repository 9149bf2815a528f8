package sceneui

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stageDurationHist = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "sceneui_stage_duration_ms",
	Help:    "A histogram of pipeline stage durations",
	Buckets: prometheus.ExponentialBuckets(1, 2, 15),
}, []string{"stage", "backend"})

var processCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sceneui_process_total",
	Help: "Processed images by outcome, either ok or the failing stage",
}, []string{"result"})

var categoriesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sceneui_categories_total",
	Help: "Classified images by category, out of vocabulary categories are counted as other",
}, []string{"category"})
