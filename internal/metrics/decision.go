package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "concsearch"

// Concurrent search decision Prometheus metrics.
var (
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Execution plans by resolved mode and chosen strategy",
		},
		[]string{"mode", "concurrent"},
	)

	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_seconds",
			Help:      "Time spent deciding the execution strategy",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"mode"},
	)

	DeciderOptOutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decider_opt_outs_total",
			Help:      "Deciders that opted out of a request",
		},
		[]string{"decider"},
	)

	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Individual decider outcomes",
		},
		[]string{"decider", "outcome"},
	)

	ShortCircuitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_short_circuits_total",
			Help:      "Query tree walks stopped early by a false decision",
		},
	)
)

var registerOnce sync.Once

// RegisterDecisionMetrics registers the decision metrics. Called from main.
func RegisterDecisionMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PlansTotal)
		prometheus.MustRegister(PlanDuration)
		prometheus.MustRegister(DeciderOptOutsTotal)
		prometheus.MustRegister(DecisionsTotal)
		prometheus.MustRegister(ShortCircuitsTotal)
	})
}

// Recorder reports decision events to Prometheus.
// Safe for concurrent use; one instance is shared by all requests.
type Recorder struct{}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// OptOut counts a decider opting out.
func (*Recorder) OptOut(decider string) {
	DeciderOptOutsTotal.WithLabelValues(decider).Inc()
}

// Decision counts a single decider outcome.
func (*Recorder) Decision(decider, outcome string) {
	DecisionsTotal.WithLabelValues(decider, outcome).Inc()
}

// ShortCircuit counts a walk stopped by a false decision.
func (*Recorder) ShortCircuit() {
	ShortCircuitsTotal.Inc()
}

// Plan records the final strategy and the time taken to reach it.
func (*Recorder) Plan(mode string, concurrent bool, took time.Duration) {
	PlansTotal.WithLabelValues(mode, strconv.FormatBool(concurrent)).Inc()
	PlanDuration.WithLabelValues(mode).Observe(took.Seconds())
}
