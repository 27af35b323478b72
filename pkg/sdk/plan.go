package concsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
)

// Plan decides whether the request should run with concurrent segment search.
func (c *Client) Plan(ctx context.Context, index string, req PlanRequest) (p Plan, err error) {
	start := time.Now()
	defer func() { c.obs.observe("plan", start, err) }()

	sc, err := searchContext(index, req)
	if err != nil {
		return Plan{}, err
	}

	plan, err := c.planner.Plan(ctx, index, sc)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", index, err)
	}
	return planFromUseCase(plan), nil
}

// PlanMany plans several shard requests concurrently. Plans keep target order.
func (c *Client) PlanMany(ctx context.Context, targets []Target) (_ []Plan, err error) {
	start := time.Now()
	defer func() { c.obs.observe("plan_many", start, err) }()

	ts := make([]searchuc.Target, len(targets))
	for i, t := range targets {
		sc, err := searchContext(t.Index, t.PlanRequest)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		ts[i] = searchuc.Target{Index: t.Index, Context: sc}
	}

	plans, err := c.planner.PlanMany(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("plan many: %w", err)
	}
	out := make([]Plan, len(plans))
	for i, p := range plans {
		out[i] = planFromUseCase(p)
	}
	return out, nil
}

func searchContext(index string, req PlanRequest) (*request.Context, error) {
	q, err := query.Parse(req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	aggs, err := request.ParseAggregations(req.Aggs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	sc, err := request.New(index, q, aggs, req.TerminateAfter, req.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return sc, nil
}

func planFromUseCase(p searchuc.Plan) Plan {
	records := make([]DecisionRecord, len(p.Decisions))
	for i, r := range p.Decisions {
		records[i] = DecisionRecord{
			Decider: r.Decider,
			Clause:  r.Clause,
			Outcome: r.Decision.Outcome().String(),
			Reason:  r.Decision.Reason(),
		}
	}
	return Plan{
		ID:         p.ID,
		Index:      p.Index,
		Mode:       p.Mode,
		Concurrent: p.Concurrent,
		SliceCount: p.SliceCount,
		Reason:     p.Reason,
		Decisions:  records,
	}
}
