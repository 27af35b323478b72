package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/concsearch/internal/domain"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/logger"
	"github.com/kailas-cloud/concsearch/internal/usecase/decider"
)

// Reasons attached to plans that bypass the deciders.
const (
	ReasonModeNone        = "concurrent search disabled by mode none"
	ReasonModeAll         = "concurrent search forced by mode all"
	ReasonModeAllRejected = "mode all overridden: request cannot run concurrently"
	ReasonModeAuto        = "decided by registered deciders"
)

// Plan is the execution strategy chosen for one shard request.
type Plan struct {
	// ID correlates the plan with its log lines.
	ID         string
	Index      string
	Mode       settings.Mode
	Concurrent bool
	// SliceCount is the number of segment slices searched in parallel, 1 when sequential.
	SliceCount int
	Reason     string
	// Decisions holds the collected decider opinions in auto mode.
	Decisions []decider.Record
}

// Service chooses between sequential and concurrent segment search.
type Service struct {
	settings SettingsReader
	registry *decider.Registry
	cluster  settings.Cluster
	recorder Recorder
}

// New creates a search planning service. rec can be nil.
func New(repo SettingsReader, registry *decider.Registry, cluster settings.Cluster, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{settings: repo, registry: registry, cluster: cluster, recorder: rec}
}

// Cluster returns the cluster settings the service plans with.
func (s *Service) Cluster() settings.Cluster { return s.cluster }

// Plan resolves the concurrent search mode for the index and picks the
// execution strategy for sc.
func (s *Service) Plan(ctx context.Context, indexName string, sc *request.Context) (Plan, error) {
	if sc == nil {
		return Plan{}, fmt.Errorf("%w: missing search context", domain.ErrInvalidRequest)
	}
	if sc.Index() != indexName {
		return Plan{}, fmt.Errorf("%w: search context targets index %q, not %q",
			domain.ErrInvalidRequest, sc.Index(), indexName)
	}
	start := time.Now()
	planID := uuid.NewString()
	ctx = logger.WithPlan(ctx, planID)

	idx, err := s.settings.Get(ctx, indexName)
	if err != nil {
		return Plan{}, fmt.Errorf("get settings: %w", err)
	}

	mode := settings.ResolveMode(s.cluster, idx)
	p := Plan{ID: planID, Index: indexName, Mode: mode}

	switch mode {
	case settings.ModeNone:
		p.Reason = ReasonModeNone
	case settings.ModeAll:
		p.Concurrent = sc.CanEnableConcurrentSearch()
		p.Reason = ReasonModeAll
		if !p.Concurrent {
			p.Reason = ReasonModeAllRejected
		}
	case settings.ModeAuto:
		coord := decider.NewCoordinator(s.registry.Snapshot(), sc, s.cluster, idx).
			WithObserver(s.recorder)
		p.Concurrent = coord.Decide(ctx)
		p.Decisions = coord.Records()
		p.Reason = ReasonModeAuto
	default:
		return Plan{}, fmt.Errorf("unsupported concurrent search mode: %s", mode)
	}

	p.SliceCount = 1
	if p.Concurrent {
		p.SliceCount = s.cluster.MaxSliceCount
	}

	took := time.Since(start)
	s.recorder.Plan(string(mode), p.Concurrent, took)

	logger.FromContext(ctx).Debug("execution plan",
		zap.String("index", indexName),
		zap.String("mode", string(mode)),
		zap.Bool("concurrent", p.Concurrent),
		zap.Int("slice_count", p.SliceCount),
		zap.Duration("took", took),
	)
	return p, nil
}

type nopRecorder struct{}

func (nopRecorder) OptOut(string)                    {}
func (nopRecorder) Decision(string, string)          {}
func (nopRecorder) ShortCircuit()                    {}
func (nopRecorder) Plan(string, bool, time.Duration) {}
