package decider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/logger"
)

// Record is one collected decision with its origin.
type Record struct {
	Decider string
	// Clause is the visited clause kind, empty for context-only decisions.
	Clause   query.Kind
	Decision decision.Decision
}

// Coordinator produces the concurrent search verdict for a single shard request.
// It is created per request and must not be reused.
//
// Deciders are called without recover: a panicking decider fails the request.
type Coordinator struct {
	deciders []Decider
	sc       *request.Context
	cluster  settings.Cluster
	index    settings.Index
	observer Observer

	acc    accumulator
	done   bool
	result bool
}

// NewCoordinator creates a coordinator over a snapshot of the registered deciders.
func NewCoordinator(
	deciders []Decider, sc *request.Context, cluster settings.Cluster, index settings.Index,
) *Coordinator {
	return &Coordinator{
		deciders: deciders,
		sc:       sc,
		cluster:  cluster,
		index:    index,
		observer: nopObserver{},
	}
}

// WithObserver sets the event observer.
func (c *Coordinator) WithObserver(o Observer) *Coordinator {
	if o != nil {
		c.observer = o
	}
	return c
}

// DecideForRequest runs a one-shot coordinator and returns its verdict.
func DecideForRequest(
	ctx context.Context,
	deciders []Decider, sc *request.Context, cluster settings.Cluster, index settings.Index,
) bool {
	return NewCoordinator(deciders, sc, cluster, index).Decide(ctx)
}

// Decide returns true when the request should run with concurrent segment search.
//
// Opted-out deciders are dropped first. The baseline decider is asked once
// without a clause, the rest are asked at every clause of the query in
// pre-order. The walk stops as soon as any false decision has been collected.
// A repeated call returns the first verdict.
func (c *Coordinator) Decide(ctx context.Context) bool {
	if c.done {
		return c.result
	}
	log := logger.FromContext(ctx)

	baseline, walkers := c.partition(log)

	for _, d := range baseline {
		c.collect(log, d, nil)
	}

	if len(walkers) > 0 && c.sc.Query() != nil {
		c.walk(log, walkers)
	}

	c.result = decision.Combine(c.acc.decisions())
	c.done = true

	log.Debug("concurrent search decision",
		zap.String("index", c.index.Name()),
		zap.Bool("concurrent", c.result),
		zap.Int("decisions", len(c.acc.records)),
	)
	return c.result
}

// Records returns a copy of the collected decisions in collection order.
func (c *Coordinator) Records() []Record {
	out := make([]Record, len(c.acc.records))
	copy(out, c.acc.records)
	return out
}

// partition filters opted-out deciders and separates the baseline deciders
// from the ones consulted during the query walk.
func (c *Coordinator) partition(log *zap.Logger) (baseline, walkers []Decider) {
	for _, d := range c.deciders {
		if d == nil {
			continue
		}
		if d.OptOut(c.index) {
			name := deciderName(d)
			log.Debug("decider opted out of decision making",
				zap.String("decider", name),
				zap.String("index", c.index.Name()),
			)
			c.observer.OptOut(name)
			continue
		}
		if isBaseline(d) {
			baseline = append(baseline, d)
			continue
		}
		walkers = append(walkers, d)
	}
	return baseline, walkers
}

func (c *Coordinator) walk(log *zap.Logger, walkers []Decider) {
	completed := query.Walk(c.sc.Query(), func(clause query.Clause) bool {
		if c.acc.sawFalse {
			return false
		}
		for _, d := range walkers {
			c.collect(log, d, clause)
		}
		return true
	})
	if !completed {
		c.observer.ShortCircuit()
	}
}

func (c *Coordinator) collect(log *zap.Logger, d Decider, clause query.Clause) {
	dec := d.Decide(c.sc, c.index, c.cluster, clause)
	name := deciderName(d)

	rec := Record{Decider: name, Decision: dec}
	if clause != nil {
		rec.Clause = clause.Kind()
	}
	c.acc.add(rec)
	c.observer.Decision(name, dec.Outcome().String())

	if ce := log.Check(zap.DebugLevel, "decider returned decision"); ce != nil {
		ce.Write(
			zap.String("decider", name),
			zap.String("clause", string(rec.Clause)),
			zap.Stringer("decision", dec),
		)
	}
}

// accumulator is the append-only decision list of one coordinator.
type accumulator struct {
	records  []Record
	sawFalse bool
}

func (a *accumulator) add(r Record) {
	a.records = append(a.records, r)
	if r.Decision.Outcome() == decision.False {
		a.sawFalse = true
	}
}

func (a *accumulator) decisions() []decision.Decision {
	out := make([]decision.Decision, len(a.records))
	for i, r := range a.records {
		out[i] = r.Decision
	}
	return out
}

func deciderName(d Decider) string {
	if n, ok := d.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", d)
}
