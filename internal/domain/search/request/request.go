package request

import (
	"fmt"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
)

// Request limits.
const (
	// MaxAggregations is the maximum number of aggregations per level.
	MaxAggregations = 64
	// MaxAggregationDepth bounds sub-aggregation nesting.
	MaxAggregationDepth = 8
)

// Context is the shard-level view of one search request.
// It is immutable once built and lives for one request.
type Context struct {
	index          string
	query          query.Clause
	aggregations   []Aggregation
	terminateAfter int
	profile        bool
}

// New validates and creates a search context. q may be nil.
func New(index string, q query.Clause, aggs []Aggregation, terminateAfter int, profile bool) (*Context, error) {
	if index == "" {
		return nil, fmt.Errorf("index is required")
	}
	if terminateAfter < 0 {
		return nil, fmt.Errorf("terminate_after must not be negative, got %d", terminateAfter)
	}
	if err := validateAggregations(aggs, 1); err != nil {
		return nil, err
	}
	return &Context{
		index:          index,
		query:          q,
		aggregations:   aggs,
		terminateAfter: terminateAfter,
		profile:        profile,
	}, nil
}

// Index returns the target index name.
func (c *Context) Index() string { return c.index }

// Query returns the query root, or nil when the request has no query.
func (c *Context) Query() query.Clause { return c.query }

// Aggregations returns the top-level aggregations.
func (c *Context) Aggregations() []Aggregation { return c.aggregations }

// HasAggregations reports whether the request has an aggregation stage.
func (c *Context) HasAggregations() bool { return len(c.aggregations) > 0 }

// TerminateAfter returns the per-shard document limit (0 = unlimited).
func (c *Context) TerminateAfter() int { return c.terminateAfter }

// Profile reports whether profiling was requested.
func (c *Context) Profile() bool { return c.profile }

// CanEnableConcurrentSearch reports whether the request can structurally run
// with concurrent segment search. terminate_after needs a single collector
// and some aggregations cannot be reduced across slices.
func (c *Context) CanEnableConcurrentSearch() bool {
	if c.terminateAfter > 0 {
		return false
	}
	for _, a := range c.aggregations {
		if !a.SupportsConcurrentSearch() {
			return false
		}
	}
	return true
}

func validateAggregations(aggs []Aggregation, depth int) error {
	if len(aggs) > 0 && depth > MaxAggregationDepth {
		return fmt.Errorf("aggregations nested deeper than %d", MaxAggregationDepth)
	}
	if len(aggs) > MaxAggregations {
		return fmt.Errorf("too many aggregations (max %d)", MaxAggregations)
	}
	seen := make(map[string]struct{}, len(aggs))
	for _, a := range aggs {
		if _, dup := seen[a.name]; dup {
			return fmt.Errorf("duplicate aggregation name %q", a.name)
		}
		seen[a.name] = struct{}{}
		if err := validateAggregations(a.subs, depth+1); err != nil {
			return err
		}
	}
	return nil
}
