package concsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/concsearch/internal/db"
	"github.com/kailas-cloud/concsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/concsearch/internal/db/redis"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	settingsrepo "github.com/kailas-cloud/concsearch/internal/repository/settings"
	"github.com/kailas-cloud/concsearch/internal/usecase/decider"
	healthuc "github.com/kailas-cloud/concsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type planUseCase interface {
	Plan(ctx context.Context, index string, sc *request.Context) (searchuc.Plan, error)
	PlanMany(ctx context.Context, targets []searchuc.Target) ([]searchuc.Plan, error)
}

type settingsUseCase interface {
	Get(ctx context.Context, name string) (settings.Index, error)
	Put(ctx context.Context, idx settings.Index) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]settings.Index, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the concsearch SDK entry point. Safe for concurrent use.
type Client struct {
	store     db.Store
	planner   planUseCase
	settings  settingsUseCase
	healthSvc healthUseCase
	cluster   Cluster
	deciders  []string
	obs       *observer
}

// New creates a Client. Without WithValkey or WithRedis, settings live in memory.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	cluster, err := settings.NewCluster(cfg.mode, cfg.maxSliceCount)
	if err != nil {
		return nil, fmt.Errorf("concsearch: %w", err)
	}
	static, err := staticIndexes(cfg.indexes)
	if err != nil {
		return nil, fmt.Errorf("concsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("concsearch: database not ready: %w", err)
	}

	return wireClient(store, cfg, cluster, static, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("concsearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("concsearch: unknown driver %q", cfg.driver)
	}
}

func staticIndexes(list []IndexSettings) (map[string]settings.Index, error) {
	out := make(map[string]settings.Index, len(list))
	for _, s := range list {
		idx, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		out[idx.Name()] = idx
	}
	return out, nil
}

func wireClient(
	store db.Store, cfg *clientConfig, cluster settings.Cluster,
	static map[string]settings.Index, obs *observer,
) *Client {
	var extra []decider.Decider
	if cfg.builtins {
		extra = append(extra, decider.NewKNN(), decider.NewClauseKind())
	}
	extra = append(extra, cfg.deciders...)
	registry := decider.NewRegistry(extra...)

	repo := settingsrepo.New(store, cfg.keyPrefix, static)

	return &Client{
		store:     store,
		planner:   searchuc.New(repo, registry, cluster, obs),
		settings:  repo,
		healthSvc: healthuc.New(store),
		cluster:   cluster,
		deciders:  registry.Names(),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks settings store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Deciders returns the registered decider names in evaluation order.
func (c *Client) Deciders() []string {
	out := make([]string, len(c.deciders))
	copy(out, c.deciders)
	return out
}

// Cluster returns the cluster settings the client plans with.
func (c *Client) Cluster() Cluster { return c.cluster }

// Settings returns the index settings service.
func (c *Client) Settings() *SettingsService {
	return &SettingsService{svc: c.settings, cluster: c.cluster, obs: c.obs}
}
