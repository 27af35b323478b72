package decider

import (
	"fmt"

	"github.com/kailas-cloud/concsearch/internal/domain/decision"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// ClauseKind vetoes concurrent search for clause kinds an index has disabled.
type ClauseKind struct{}

var _ Decider = ClauseKind{}

// NewClauseKind creates the clause kind decider.
func NewClauseKind() ClauseKind { return ClauseKind{} }

// Name implements Named.
func (ClauseKind) Name() string { return "clause_kind" }

// Decide implements Decider.
func (ClauseKind) Decide(_ *request.Context, idx settings.Index, _ settings.Cluster, clause query.Clause) decision.Decision {
	if clause == nil || !idx.ClauseDisabled(clause.Kind()) {
		return decision.Abstain("")
	}
	return decision.No(fmt.Sprintf(
		"%s clause disables concurrent search on index %s", clause.Kind(), idx.Name(),
	))
}

// OptOut skips indexes without disabled clause kinds.
func (ClauseKind) OptOut(idx settings.Index) bool { return !idx.HasDisabledClauses() }
