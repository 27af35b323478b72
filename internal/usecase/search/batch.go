package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/concsearch/internal/domain"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/logger"
)

const (
	// MaxTargets caps the shard requests of one PlanMany call.
	MaxTargets = 100

	planManyConcurrency = 8
)

// Target is one shard request of a multi-plan call.
type Target struct {
	Index   string
	Context *request.Context
}

var errDeciderPanic = errors.New("decider panicked")

// PlanMany plans every target concurrently. Plans keep target order.
// The first failure cancels the targets still pending.
// A decider panic is re-raised on the calling goroutine, as Plan would.
func (s *Service) PlanMany(ctx context.Context, targets []Target) ([]Plan, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target is required", domain.ErrInvalidRequest)
	}
	if len(targets) > MaxTargets {
		return nil, fmt.Errorf("%w: too many targets: %d (max %d)", domain.ErrInvalidRequest, len(targets), MaxTargets)
	}

	plans := make([]Plan, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(planManyConcurrency)

	var (
		panicOnce sync.Once
		panicVal  any
	)

	for i, t := range targets {
		i, t := i, t
		g.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					panicOnce.Do(func() { panicVal = v })
					err = errDeciderPanic
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := s.Plan(logger.WithTarget(ctx, i), t.Index, t.Context)
			if err != nil {
				return fmt.Errorf("target %d (%s): %w", i, t.Index, err)
			}
			plans[i] = p
			return nil
		})
	}

	err := g.Wait()
	if panicVal != nil {
		panic(panicVal)
	}
	if err != nil {
		return nil, err
	}
	return plans, nil
}
