package decider

import (
	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// ReasonKNNClause is reported for knn clauses.
const ReasonKNNClause = "knn query benefits from concurrent segment search"

// KNN asks for concurrent search on vector queries. Graph traversal is done
// per segment, so slicing segments across threads pays off.
type KNN struct{}

var _ Decider = KNN{}

// NewKNN creates the knn decider.
func NewKNN() KNN { return KNN{} }

// Name implements Named.
func (KNN) Name() string { return "knn" }

// Decide implements Decider.
func (KNN) Decide(_ *request.Context, _ settings.Index, _ settings.Cluster, clause query.Clause) decision.Decision {
	if clause != nil && clause.Kind() == query.KindKNN {
		return decision.Yes(ReasonKNNClause)
	}
	return decision.Abstain("")
}

// OptOut skips indexes without vector fields.
func (KNN) OptOut(idx settings.Index) bool { return !idx.KNNEnabled() }
