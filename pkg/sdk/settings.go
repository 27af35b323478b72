package concsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// SettingsService manages per-index planner settings.
type SettingsService struct {
	svc     settingsUseCase
	cluster Cluster
	obs     *observer
}

// Get returns stored, static or default settings for an index.
func (s *SettingsService) Get(ctx context.Context, name string) (_ IndexSettings, err error) {
	start := time.Now()
	defer func() { s.obs.observe("settings.get", start, err) }()

	idx, err := s.svc.Get(ctx, name)
	if err != nil {
		return IndexSettings{}, fmt.Errorf("get settings %s: %w", name, err)
	}
	return indexSettingsFromDomain(idx), nil
}

// Put stores settings for an index.
func (s *SettingsService) Put(ctx context.Context, is IndexSettings) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("settings.put", start, err) }()

	idx, err := is.toDomain()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := s.svc.Put(ctx, idx); err != nil {
		return fmt.Errorf("put settings %s: %w", is.Name, err)
	}
	return nil
}

// Delete removes stored settings. Returns ErrIndexNotFound when none were stored.
func (s *SettingsService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("settings.delete", start, err) }()

	if err := s.svc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete settings %s: %w", name, err)
	}
	return nil
}

// List returns settings for every stored or static index, sorted by name.
func (s *SettingsService) List(ctx context.Context) (_ []IndexSettings, err error) {
	start := time.Now()
	defer func() { s.obs.observe("settings.list", start, err) }()

	list, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make([]IndexSettings, len(list))
	for i, idx := range list {
		out[i] = indexSettingsFromDomain(idx)
	}
	return out, nil
}

// EffectiveMode returns the mode a plan for the index would use.
func (s *SettingsService) EffectiveMode(is IndexSettings) Mode {
	if is.Mode != "" {
		return is.Mode
	}
	return settings.ResolveMode(s.cluster, settings.DefaultIndex(is.Name))
}

func (is IndexSettings) toDomain() (settings.Index, error) {
	return settings.NewIndex(is.Name, is.Mode, is.KNN, is.DisabledClauses)
}

func indexSettingsFromDomain(idx settings.Index) IndexSettings {
	return IndexSettings{
		Name:            idx.Name(),
		Mode:            idx.Mode(),
		KNN:             idx.KNNEnabled(),
		DisabledClauses: idx.DisabledClauses(),
	}
}
