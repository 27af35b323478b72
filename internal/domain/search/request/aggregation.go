package request

import "fmt"

// AggType is the aggregation type.
type AggType string

// Aggregation types.
const (
	AggTerms              AggType = "terms"
	AggHistogram          AggType = "histogram"
	AggDateHistogram      AggType = "date_histogram"
	AggRange              AggType = "range"
	AggAvg                AggType = "avg"
	AggSum                AggType = "sum"
	AggMin                AggType = "min"
	AggMax                AggType = "max"
	AggCardinality        AggType = "cardinality"
	AggComposite          AggType = "composite"
	AggSampler            AggType = "sampler"
	AggDiversifiedSampler AggType = "diversified_sampler"
	AggSignificantText    AggType = "significant_text"
	AggChildren           AggType = "children"
	AggParent             AggType = "parent"
)

var knownAggTypes = map[AggType]bool{
	AggTerms: true, AggHistogram: true, AggDateHistogram: true, AggRange: true,
	AggAvg: true, AggSum: true, AggMin: true, AggMax: true, AggCardinality: true,
	AggComposite: true, AggSampler: true, AggDiversifiedSampler: true,
	AggSignificantText: true, AggChildren: true, AggParent: true,
}

// Aggregation types whose shard-level collection cannot be split across segment slices.
var nonConcurrentAggTypes = map[AggType]bool{
	AggSampler:            true,
	AggDiversifiedSampler: true,
	AggSignificantText:    true,
	AggChildren:           true,
	AggParent:             true,
}

// IsValid checks if the aggregation type is known.
func (t AggType) IsValid() bool { return knownAggTypes[t] }

// Aggregation is a named aggregation with optional sub-aggregations.
type Aggregation struct {
	name    string
	aggType AggType
	field   string
	subs    []Aggregation
}

// NewAggregation validates and creates an aggregation.
func NewAggregation(name string, t AggType, field string, subs []Aggregation) (Aggregation, error) {
	if name == "" {
		return Aggregation{}, fmt.Errorf("aggregation name is required")
	}
	if !t.IsValid() {
		return Aggregation{}, fmt.Errorf("unknown aggregation type %q for %q", t, name)
	}
	return Aggregation{name: name, aggType: t, field: field, subs: subs}, nil
}

// Name returns the aggregation name.
func (a Aggregation) Name() string { return a.name }

// Type returns the aggregation type.
func (a Aggregation) Type() AggType { return a.aggType }

// Field returns the source field (may be empty).
func (a Aggregation) Field() string { return a.field }

// SubAggregations returns nested aggregations.
func (a Aggregation) SubAggregations() []Aggregation { return a.subs }

// SupportsConcurrentSearch reports whether this aggregation and all of its
// sub-aggregations can be collected per slice and reduced afterwards.
func (a Aggregation) SupportsConcurrentSearch() bool {
	if nonConcurrentAggTypes[a.aggType] {
		return false
	}
	for _, s := range a.subs {
		if !s.SupportsConcurrentSearch() {
			return false
		}
	}
	return true
}
