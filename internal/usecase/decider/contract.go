package decider

import (
	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// Decider gives an opinion on running a shard request with concurrent segment search.
//
// One instance is shared by all requests, so both methods may run concurrently
// and must not mutate shared state.
type Decider interface {
	// Decide returns an opinion for one query clause, or for the request as a
	// whole when clause is nil.
	Decide(sc *request.Context, idx settings.Index, cluster settings.Cluster, clause query.Clause) decision.Decision
	// OptOut removes the decider from every decision on the given index.
	OptOut(idx settings.Index) bool
}

// Named is implemented by deciders that provide a stable name for logs and metrics.
type Named interface {
	Name() string
}

// Observer receives decision events. Implementations must be safe for concurrent use.
type Observer interface {
	OptOut(decider string)
	Decision(decider, outcome string)
	ShortCircuit()
}

type nopObserver struct{}

func (nopObserver) OptOut(string)           {}
func (nopObserver) Decision(string, string) {}
func (nopObserver) ShortCircuit()           {}
