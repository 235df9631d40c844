package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "website_revolution"

const (
	OutcomeSuccess       = "success"
	OutcomeSetupRequired = "setup_required"
	OutcomeError         = "error"
	OutcomeCached        = "cached"
)

//nolint:gochecknoglobals
var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Business review searches by outcome.",
	}, []string{"outcome"})

	BusinessesReviewedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "businesses_reviewed_total",
		Help:      "Reviewed businesses by priority.",
	}, []string{"priority"})

	WebsiteAnalysisSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "website_analysis_seconds",
		Help:      "Time spent fetching and inspecting one website.",
		Buckets:   prometheus.DefBuckets,
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "CSV exports by outcome.",
	}, []string{"outcome"})

	RedesignsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redesigns_generated_total",
		Help:      "Generated redesign proposals.",
	})
)
