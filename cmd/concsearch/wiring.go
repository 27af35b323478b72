package main

import (
	"fmt"

	"github.com/kailas-cloud/concsearch/internal/config"
	"github.com/kailas-cloud/concsearch/internal/db"
	"github.com/kailas-cloud/concsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/concsearch/internal/db/redis"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/usecase/decider"
)

// newStore creates the settings store for the configured driver.
// valkey and redis share the rueidis client.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func clusterSettings(cfg config.SearchConfig) (settings.Cluster, error) {
	return settings.NewCluster(settings.Mode(cfg.ConcurrentMode), cfg.MaxSliceCount)
}

// staticIndexes converts configured per-index settings to domain settings.
func staticIndexes(cfgs map[string]config.IndexConfig) (map[string]settings.Index, error) {
	out := make(map[string]settings.Index, len(cfgs))
	for name, c := range cfgs {
		kinds := make([]query.Kind, len(c.DisabledClauses))
		for i, k := range c.DisabledClauses {
			kinds[i] = query.Kind(k)
		}
		idx, err := settings.NewIndex(name, settings.Mode(c.ConcurrentMode), c.KNN, kinds)
		if err != nil {
			return nil, err
		}
		out[name] = idx
	}
	return out, nil
}

// newRegistry registers the optional deciders after the default one.
func newRegistry(cfg config.DecidersConfig) *decider.Registry {
	var extra []decider.Decider
	if cfg.KNN {
		extra = append(extra, decider.NewKNN())
	}
	if cfg.ClauseKind {
		extra = append(extra, decider.NewClauseKind())
	}
	return decider.NewRegistry(extra...)
}
