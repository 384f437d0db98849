package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/italianshoes/catalog/app/variants"
)

// Generation records variant generation runs.
type Generation struct {
	runs     *prometheus.CounterVec
	variants *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewGeneration registers the generation collectors on reg.
func NewGeneration(reg prometheus.Registerer) *Generation {
	g := &Generation{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "variant_generation",
			Name:      "runs_total",
			Help:      "Variant generation runs by outcome.",
		}, []string{"outcome"}),
		variants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "variant_generation",
			Name:      "combinations_total",
			Help:      "Combinations persisted, split into created and already existing.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "variant_generation",
			Name:      "duration_seconds",
			Help:      "Wall time of variant generation runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(g.runs, g.variants, g.duration)
	return g
}

func (g *Generation) ObserveGeneration(res variants.Result, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	g.runs.WithLabelValues(outcome).Inc()
	g.variants.WithLabelValues("created").Add(float64(res.Created))
	g.variants.WithLabelValues("existing").Add(float64(res.Existing))
	g.duration.Observe(elapsed.Seconds())
}
