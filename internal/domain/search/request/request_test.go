package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
)

func mustAgg(t *testing.T, name string, typ AggType, subs ...Aggregation) Aggregation {
	t.Helper()
	a, err := NewAggregation(name, typ, "f", subs)
	if err != nil {
		t.Fatalf("NewAggregation: %v", err)
	}
	return a
}

func TestNew_Defaults(t *testing.T) {
	c, err := New("products", nil, nil, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Index() != "products" {
		t.Errorf("Index() = %q", c.Index())
	}
	if c.Query() != nil {
		t.Error("Query() should be nil")
	}
	if c.HasAggregations() {
		t.Error("HasAggregations() = true")
	}
	if !c.CanEnableConcurrentSearch() {
		t.Error("plain request should support concurrent search")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", nil, nil, 0, false); err == nil {
		t.Error("expected error for empty index")
	}
	if _, err := New("i", nil, nil, -1, false); err == nil {
		t.Error("expected error for negative terminate_after")
	}

	dup := []Aggregation{mustAgg(t, "a", AggTerms), mustAgg(t, "a", AggAvg)}
	_, err := New("i", nil, dup, 0, false)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate error, got %v", err)
	}

	deep := mustAgg(t, "leaf", AggAvg)
	for i := 0; i < MaxAggregationDepth; i++ {
		deep = mustAgg(t, "lvl", AggTerms, deep)
	}
	if _, err := New("i", nil, []Aggregation{deep}, 0, false); err == nil {
		t.Error("expected depth error")
	}
}

func TestNewAggregation_Validation(t *testing.T) {
	if _, err := NewAggregation("", AggTerms, "f", nil); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewAggregation("x", "top_hits_v2", "f", nil); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestCanEnableConcurrentSearch(t *testing.T) {
	tests := []struct {
		name           string
		aggs           []Aggregation
		terminateAfter int
		want           bool
	}{
		{"supported aggs", []Aggregation{mustAgg(t, "t", AggTerms), mustAgg(t, "avg", AggAvg)}, 0, true},
		{"sampler", []Aggregation{mustAgg(t, "s", AggSampler)}, 0, false},
		{"nested unsupported", []Aggregation{mustAgg(t, "t", AggTerms, mustAgg(t, "p", AggParent))}, 0, false},
		{"terminate after", []Aggregation{mustAgg(t, "t", AggTerms)}, 100, false},
		{"no aggs terminate after", nil, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("i", query.MatchAll{}, tt.aggs, tt.terminateAfter, false)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := c.CanEnableConcurrentSearch(); got != tt.want {
				t.Errorf("CanEnableConcurrentSearch() = %v, want %v", got, tt.want)
			}
		})
	}
}
