package decider

import (
	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// Reasons reported by the default decider.
const (
	ReasonDefaultNoop            = "default noop"
	ReasonSupportedAggregation   = "supported aggregation operation for concurrent search"
	ReasonUnsupportedAggregation = "unsupported aggregation operation for concurrent search"
)

// Default is the baseline decider. It looks only at the request context,
// is evaluated once per request outside the query walk and never opts out.
type Default struct{}

var _ Decider = Default{}

// NewDefault creates the baseline decider.
func NewDefault() Default { return Default{} }

// Name implements Named.
func (Default) Name() string { return "default" }

// Decide abstains without aggregations and otherwise follows the
// request's concurrent search capability. The clause is ignored.
func (Default) Decide(sc *request.Context, _ settings.Index, _ settings.Cluster, _ query.Clause) decision.Decision {
	if !sc.HasAggregations() {
		return decision.Abstain(ReasonDefaultNoop)
	}
	if sc.CanEnableConcurrentSearch() {
		return decision.Yes(ReasonSupportedAggregation)
	}
	return decision.No(ReasonUnsupportedAggregation)
}

// OptOut implements Decider.
func (Default) OptOut(settings.Index) bool { return false }

func (Default) baseline() {}

// isBaseline reports whether d is, or embeds, the default decider.
func isBaseline(d Decider) bool {
	_, ok := d.(interface{ baseline() })
	return ok
}
