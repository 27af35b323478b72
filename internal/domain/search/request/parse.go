package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ParseAggregations decodes an aggregations object of the form
//
//	{"<name>": {"<type>": {"field": "..."}, "aggs": {...}}}
//
// Names are returned sorted. An empty or null document yields no aggregations.
func ParseAggregations(data []byte) ([]Aggregation, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	return parseAggregations(data, 1)
}

func parseAggregations(data []byte, depth int) ([]Aggregation, error) {
	if depth > MaxAggregationDepth {
		return nil, fmt.Errorf("aggregations nested deeper than %d", MaxAggregationDepth)
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("aggregations must be an object: %w", err)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Aggregation, 0, len(names))
	for _, name := range names {
		a, err := parseAggregation(name, byName[name], depth)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseAggregation(name string, data []byte, depth int) (Aggregation, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return Aggregation{}, fmt.Errorf("aggregation %q must be an object: %w", name, err)
	}

	var subs []Aggregation
	for _, key := range []string{"aggs", "aggregations"} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		delete(body, key)
		if subs != nil {
			return Aggregation{}, fmt.Errorf("aggregation %q has both aggs and aggregations", name)
		}
		var err error
		if subs, err = parseAggregations(raw, depth+1); err != nil {
			return Aggregation{}, err
		}
	}

	if len(body) != 1 {
		return Aggregation{}, fmt.Errorf("aggregation %q must have exactly one type, got %d", name, len(body))
	}

	for typ, raw := range body {
		var params struct {
			Field string `json:"field"`
		}
		if err := json.Unmarshal(raw, &params); err != nil {
			return Aggregation{}, fmt.Errorf("aggregation %q: invalid %s body: %w", name, typ, err)
		}
		return NewAggregation(name, AggType(typ), params.Field, subs)
	}
	return Aggregation{}, nil
}
