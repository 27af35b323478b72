// Package settings holds cluster- and index-level search settings.
package settings

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
)

// Mode selects how concurrent segment search is enabled.
type Mode string

// Concurrent search modes.
const (
	// ModeAuto lets the registered deciders choose per request.
	ModeAuto Mode = "auto"
	ModeAll  Mode = "all"
	ModeNone Mode = "none"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == ModeAuto || m == ModeAll || m == ModeNone
}

// DefaultMaxSliceCount is used when the cluster does not set a slice count.
const DefaultMaxSliceCount = 4

// Cluster holds cluster-wide settings. Read-only during a request.
type Cluster struct {
	Mode          Mode
	MaxSliceCount int
}

// NewCluster validates and creates cluster settings. Empty mode means auto.
func NewCluster(m Mode, maxSliceCount int) (Cluster, error) {
	if m == "" {
		m = ModeAuto
	}
	if !m.IsValid() {
		return Cluster{}, fmt.Errorf("invalid concurrent search mode: %q", m)
	}
	if maxSliceCount < 0 {
		return Cluster{}, fmt.Errorf("max slice count must not be negative, got %d", maxSliceCount)
	}
	if maxSliceCount == 0 {
		maxSliceCount = DefaultMaxSliceCount
	}
	return Cluster{Mode: m, MaxSliceCount: maxSliceCount}, nil
}

// Index holds per-index settings. Read-only during a request.
type Index struct {
	name            string
	mode            Mode
	knnEnabled      bool
	disabledClauses []query.Kind
}

// NewIndex validates and creates index settings.
// An empty mode means the index follows the cluster mode.
func NewIndex(name string, m Mode, knnEnabled bool, disabledClauses []query.Kind) (Index, error) {
	if name == "" {
		return Index{}, fmt.Errorf("index name is required")
	}
	if m != "" && !m.IsValid() {
		return Index{}, fmt.Errorf("invalid concurrent search mode for index %q: %q", name, m)
	}
	for _, k := range disabledClauses {
		if !k.IsValid() {
			return Index{}, fmt.Errorf("unknown clause kind %q in disabled clauses of index %q", k, name)
		}
	}
	return Index{name: name, mode: m, knnEnabled: knnEnabled, disabledClauses: slices.Clone(disabledClauses)}, nil
}

// DefaultIndex returns settings for an index with nothing configured.
func DefaultIndex(name string) Index {
	return Index{name: name}
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// Mode returns the index-level mode override (empty when unset).
func (i Index) Mode() Mode { return i.mode }

// KNNEnabled reports whether the index holds vector fields.
func (i Index) KNNEnabled() bool { return i.knnEnabled }

// DisabledClauses returns a copy of the clause kinds that disable concurrency on this index.
func (i Index) DisabledClauses() []query.Kind { return slices.Clone(i.disabledClauses) }

// HasDisabledClauses reports whether any clause kind is disabled.
func (i Index) HasDisabledClauses() bool { return len(i.disabledClauses) > 0 }

// ClauseDisabled reports whether k is in the disabled list.
func (i Index) ClauseDisabled(k query.Kind) bool {
	return slices.Contains(i.disabledClauses, k)
}

// ResolveMode returns the effective mode: the index override wins when set.
func ResolveMode(c Cluster, i Index) Mode {
	if i.mode != "" {
		return i.mode
	}
	if c.Mode == "" {
		return ModeAuto
	}
	return c.Mode
}
