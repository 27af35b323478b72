package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MaxDepth is the maximum nesting depth of bool clauses.
const MaxDepth = 32

// Parse decodes a query DSL document into a clause tree.
// An empty or null document yields a nil clause.
func Parse(data []byte) (Clause, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	return parseClause(data, 1)
}

func parseClause(data []byte, depth int) (Clause, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: query nested deeper than %d", ErrInvalidQuery, MaxDepth)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: clause must be an object: %w", ErrInvalidQuery, err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: clause must have exactly one type, got %d", ErrInvalidQuery, len(obj))
	}

	for name, body := range obj {
		switch Kind(name) {
		case KindBool:
			return parseBool(body, depth)
		case KindTerm:
			field, value, err := singleField(name, body)
			if err != nil {
				return nil, err
			}
			return clause(NewTerm(field, scalarString(value)))
		case KindMatch:
			field, value, err := singleField(name, body)
			if err != nil {
				return nil, err
			}
			return clause(NewMatch(field, scalarString(value)))
		case KindRange:
			return parseRange(body)
		case KindKNN:
			return parseKNN(body)
		case KindMatchAll:
			return MatchAll{}, nil
		case KindGeoDistance:
			return parseGeoDistance(body)
		default:
			return nil, fmt.Errorf("%w: unknown clause type %q", ErrInvalidQuery, name)
		}
	}
	return nil, nil // unreachable
}

func parseBool(body json.RawMessage, depth int) (Clause, error) {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: bool groups must be arrays: %w", ErrInvalidQuery, err)
	}

	groups := make(map[Occur][]Clause, len(raw))
	for name, items := range raw {
		occur := Occur(name)
		switch occur {
		case Must, Should, MustNot, Filter:
		default:
			return nil, fmt.Errorf("%w: unknown bool occurrence %q", ErrInvalidQuery, name)
		}
		clauses := make([]Clause, 0, len(items))
		for _, item := range items {
			c, err := parseClause(item, depth+1)
			if err != nil {
				return nil, err
			}
			if c == nil {
				return nil, fmt.Errorf("%w: null clause in bool.%s", ErrInvalidQuery, name)
			}
			clauses = append(clauses, c)
		}
		groups[occur] = clauses
	}

	return clause(NewBool(groups[Must], groups[Should], groups[MustNot], groups[Filter]))
}

type rangeBody struct {
	GT  *float64 `json:"gt"`
	GTE *float64 `json:"gte"`
	LT  *float64 `json:"lt"`
	LTE *float64 `json:"lte"`
}

func parseRange(body json.RawMessage) (Clause, error) {
	field, value, err := singleField(string(KindRange), body)
	if err != nil {
		return nil, err
	}
	var rb rangeBody
	if err := json.Unmarshal(value, &rb); err != nil {
		return nil, fmt.Errorf("%w: range %q: %w", ErrInvalidQuery, field, err)
	}
	r, err := NewRange(rb.GT, rb.GTE, rb.LT, rb.LTE)
	if err != nil {
		return nil, err
	}
	return clause(NewRangeClause(field, r))
}

type knnBody struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

func parseKNN(body json.RawMessage) (Clause, error) {
	field, value, err := singleField(string(KindKNN), body)
	if err != nil {
		return nil, err
	}
	var kb knnBody
	if err := json.Unmarshal(value, &kb); err != nil {
		return nil, fmt.Errorf("%w: knn %q: %w", ErrInvalidQuery, field, err)
	}
	return clause(NewKNN(field, kb.Vector, kb.K))
}

type geoPoint struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func parseGeoDistance(body json.RawMessage) (Clause, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: geo_distance must be an object: %w", ErrInvalidQuery, err)
	}

	var distance float64
	rawDistance, ok := obj["distance_m"]
	if !ok {
		return nil, fmt.Errorf("%w: geo_distance.distance_m is required", ErrInvalidQuery)
	}
	if err := json.Unmarshal(rawDistance, &distance); err != nil {
		return nil, fmt.Errorf("%w: geo_distance.distance_m: %w", ErrInvalidQuery, err)
	}
	delete(obj, "distance_m")

	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: geo_distance needs exactly one field, got %d", ErrInvalidQuery, len(obj))
	}
	for field, raw := range obj {
		var p geoPoint
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: geo_distance %q: %w", ErrInvalidQuery, field, err)
		}
		if p.Lat == nil || p.Lon == nil {
			return nil, fmt.Errorf("%w: geo_distance %q needs lat and lon", ErrInvalidQuery, field)
		}
		return clause(NewGeoDistance(field, *p.Lat, *p.Lon, distance))
	}
	return nil, nil // unreachable
}

// singleField unpacks {"<field>": <value>} bodies.
func singleField(kind string, body json.RawMessage) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", nil, fmt.Errorf("%w: %s must be an object: %w", ErrInvalidQuery, kind, err)
	}
	if len(obj) != 1 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, fmt.Errorf("%w: %s needs exactly one field, got %v", ErrInvalidQuery, kind, keys)
	}
	for field, value := range obj {
		return field, value, nil
	}
	return "", nil, nil // unreachable
}

// scalarString returns strings unquoted and other JSON scalars as written.
func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// clause drops typed-nil pointers so a failed constructor never yields a non-nil Clause.
func clause[T Clause](c T, err error) (Clause, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
