package concsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	plans      *prometheus.CounterVec
	decisions  *prometheus.CounterVec
	optOuts    *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concsearch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concsearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concsearch",
			Subsystem: "sdk",
			Name:      "plans_total",
			Help:      "Plans by resolved mode and chosen strategy.",
		}, []string{"mode", "concurrent"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concsearch",
			Subsystem: "sdk",
			Name:      "decisions_total",
			Help:      "Individual decider outcomes.",
		}, []string{"decider", "outcome"}),
		optOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concsearch",
			Subsystem: "sdk",
			Name:      "decider_opt_outs_total",
			Help:      "Deciders that opted out of a request.",
		}, []string{"decider"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.plans); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.decisions); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.optOuts); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("concsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("concsearch: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations and receives
// decision events from the planner. All methods are nil-safe.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				"op", op,
				"duration", dur,
			)
		}
	}
}

// OptOut counts a decider opting out.
func (o *observer) OptOut(decider string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.optOuts.WithLabelValues(decider).Inc()
}

// Decision counts a single decider outcome.
func (o *observer) Decision(decider, outcome string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.decisions.WithLabelValues(decider, outcome).Inc()
}

// ShortCircuit logs a walk stopped by a false decision.
func (o *observer) ShortCircuit() {
	if o == nil || o.logger == nil {
		return
	}
	o.logger.Debug("query walk stopped by false decision")
}

// Plan counts the chosen strategy.
func (o *observer) Plan(mode string, concurrent bool, _ time.Duration) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.plans.WithLabelValues(mode, strconv.FormatBool(concurrent)).Inc()
}
