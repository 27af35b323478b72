package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
	domset "github.com/kailas-cloud/concsearch/internal/domain/settings"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
)

// PlanRequest is the body of POST /indexes/{index}/_plan.
type PlanRequest struct {
	Query          json.RawMessage `json:"query,omitempty"`
	Aggs           json.RawMessage `json:"aggs,omitempty"`
	TerminateAfter int             `json:"terminate_after,omitempty"`
	Profile        bool            `json:"profile,omitempty"`
}

// DecisionResponse is one collected decider opinion.
type DecisionResponse struct {
	Decider string `json:"decider"`
	Clause  string `json:"clause,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
}

// MultiPlanItem is one shard request of POST /_mplan.
type MultiPlanItem struct {
	Index string `json:"index"`
	PlanRequest
}

// MultiPlanRequest is the body of POST /_mplan.
type MultiPlanRequest struct {
	Requests []MultiPlanItem `json:"requests"`
}

// PlanResponse is the chosen execution strategy.
type PlanResponse struct {
	PlanID     string             `json:"plan_id"`
	Index      string             `json:"index"`
	Concurrent bool               `json:"concurrent"`
	Mode       string             `json:"mode"`
	SliceCount int                `json:"slice_count"`
	Reason     string             `json:"reason"`
	Decisions  []DecisionResponse `json:"decisions"`
}

// MultiPlanResponse holds plans in request order.
type MultiPlanResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// SettingsRequest is the body of PUT /indexes/{index}/_settings.
type SettingsRequest struct {
	ConcurrentMode  string   `json:"concurrent_mode,omitempty"`
	KNN             bool     `json:"knn"`
	DisabledClauses []string `json:"disabled_clauses,omitempty"`
}

// SettingsResponse describes the effective settings of an index.
type SettingsResponse struct {
	Index           string   `json:"index"`
	ConcurrentMode  string   `json:"concurrent_mode,omitempty"`
	EffectiveMode   string   `json:"effective_mode"`
	KNN             bool     `json:"knn"`
	DisabledClauses []string `json:"disabled_clauses"`
}

// SettingsListResponse lists settings of all known indexes.
type SettingsListResponse struct {
	Items []SettingsResponse `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func planToResponse(p searchuc.Plan) PlanResponse {
	decisions := make([]DecisionResponse, len(p.Decisions))
	for i, r := range p.Decisions {
		decisions[i] = DecisionResponse{
			Decider: r.Decider,
			Clause:  string(r.Clause),
			Outcome: r.Decision.Outcome().String(),
			Reason:  r.Decision.Reason(),
		}
	}
	return PlanResponse{
		PlanID:     p.ID,
		Index:      p.Index,
		Concurrent: p.Concurrent,
		Mode:       string(p.Mode),
		SliceCount: p.SliceCount,
		Reason:     p.Reason,
		Decisions:  decisions,
	}
}

func settingsFromRequest(name string, req SettingsRequest) (domset.Index, error) {
	kinds := make([]query.Kind, len(req.DisabledClauses))
	for i, k := range req.DisabledClauses {
		kinds[i] = query.Kind(k)
	}
	return domset.NewIndex(name, domset.Mode(req.ConcurrentMode), req.KNN, kinds)
}

func settingsToResponse(idx domset.Index, cluster domset.Cluster) SettingsResponse {
	kinds := make([]string, len(idx.DisabledClauses()))
	for i, k := range idx.DisabledClauses() {
		kinds[i] = string(k)
	}
	return SettingsResponse{
		Index:           idx.Name(),
		ConcurrentMode:  string(idx.Mode()),
		EffectiveMode:   string(domset.ResolveMode(cluster, idx)),
		KNN:             idx.KNNEnabled(),
		DisabledClauses: kinds,
	}
}
