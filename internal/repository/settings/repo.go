package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/concsearch/internal/domain"
	domset "github.com/kailas-cloud/concsearch/internal/domain/settings"
)

// DefaultKeyPrefix namespaces settings keys when no prefix is configured.
const DefaultKeyPrefix = "concsearch:"

// store is the consumer interface for index settings (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores per-index settings in hashes, falling back to static
// settings loaded from configuration.
type Repo struct {
	store  store
	prefix string
	static map[string]domset.Index
}

// New creates a settings repository. static may be nil.
func New(s store, prefix string, static map[string]domset.Index) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if static == nil {
		static = map[string]domset.Index{}
	}
	return &Repo{store: s, prefix: prefix, static: static}
}

// Get returns settings for an index. Stored settings win over static
// ones; an index with neither gets default settings.
func (r *Repo) Get(ctx context.Context, name string) (domset.Index, error) {
	m, err := r.store.HGetAll(ctx, r.key(name))
	if err != nil {
		return domset.Index{}, fmt.Errorf("hgetall settings %s: %w", name, err)
	}
	if len(m) > 0 {
		idx, err := indexFromHash(name, m)
		if err != nil {
			return domset.Index{}, errors.Join(domain.ErrCorruptSettings, fmt.Errorf("index %s: %w", name, err))
		}
		return idx, nil
	}
	if idx, ok := r.static[name]; ok {
		return idx, nil
	}
	return domset.DefaultIndex(name), nil
}

// Put stores settings for an index, replacing earlier stored values.
func (r *Repo) Put(ctx context.Context, idx domset.Index) error {
	if err := r.store.HSet(ctx, r.key(idx.Name()), indexToHash(idx)); err != nil {
		return fmt.Errorf("hset settings %s: %w", idx.Name(), err)
	}
	return nil
}

// Delete removes stored settings. Static settings stay in effect.
// Returns domain.ErrIndexNotFound when nothing was stored.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := r.key(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrIndexNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del settings %s: %w", name, err)
	}
	return nil
}

// List returns stored and static settings sorted by index name.
// Stored settings shadow static settings of the same index.
func (r *Repo) List(ctx context.Context) ([]domset.Index, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}

	byName := make(map[string]domset.Index, len(keys)+len(r.static))
	for name, idx := range r.static {
		byName[name] = idx
	}

	if len(keys) > 0 {
		results, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("hgetall multi settings: %w", err)
		}
		for i, m := range results {
			if len(m) == 0 {
				continue
			}
			name := strings.TrimPrefix(keys[i], r.key(""))
			idx, err := indexFromHash(name, m)
			if err != nil {
				return nil, errors.Join(domain.ErrCorruptSettings, fmt.Errorf("index %s: %w", name, err))
			}
			byName[name] = idx
		}
	}

	out := make([]domset.Index, 0, len(byName))
	for _, idx := range byName {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *Repo) key(name string) string {
	return r.prefix + "index:" + name
}
