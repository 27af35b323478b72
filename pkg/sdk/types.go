package concsearch

import (
	"encoding/json"

	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/usecase/decider"
)

// Types shared with custom deciders.
type (
	Decider       = decider.Decider
	SearchContext = request.Context
	Clause        = query.Clause
	ClauseKind    = query.Kind
	Index         = settings.Index
	Cluster       = settings.Cluster
	Decision      = decision.Decision
	Mode          = settings.Mode
)

// Concurrent search modes.
const (
	ModeAuto = settings.ModeAuto
	ModeAll  = settings.ModeAll
	ModeNone = settings.ModeNone
)

// Clause kinds.
const (
	ClauseBool        = query.KindBool
	ClauseTerm        = query.KindTerm
	ClauseMatch       = query.KindMatch
	ClauseRange       = query.KindRange
	ClauseKNN         = query.KindKNN
	ClauseMatchAll    = query.KindMatchAll
	ClauseGeoDistance = query.KindGeoDistance
)

// Yes is a decision in favor of concurrent search.
func Yes(reason string) Decision { return decision.Yes(reason) }

// No is a decision that vetoes concurrent search.
func No(reason string) Decision { return decision.No(reason) }

// Abstain is a decision without an opinion.
func Abstain(reason string) Decision { return decision.Abstain(reason) }

// PlanRequest describes the shard request to plan. Query and Aggs use the
// same JSON DSL as the HTTP API; both may be empty.
type PlanRequest struct {
	Query          json.RawMessage
	Aggs           json.RawMessage
	TerminateAfter int
	Profile        bool
}

// Target is one shard request of PlanMany.
type Target struct {
	Index string
	PlanRequest
}

// Plan is the chosen execution strategy.
type Plan struct {
	ID         string
	Index      string
	Mode       Mode
	Concurrent bool
	SliceCount int
	Reason     string
	Decisions  []DecisionRecord
}

// DecisionRecord is one collected decider opinion.
type DecisionRecord struct {
	Decider string
	Clause  ClauseKind // empty for request-level decisions
	Outcome string     // "true", "false", "no_opinion"
	Reason  string
}

// IndexSettings are the per-index planner settings.
type IndexSettings struct {
	Name            string
	Mode            Mode // empty follows the cluster mode
	KNN             bool
	DisabledClauses []ClauseKind
}
