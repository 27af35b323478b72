package query

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidQuery is returned for malformed or out-of-limit queries.
var ErrInvalidQuery = errors.New("invalid query")

// MaxClausesPerGroup is the maximum number of sub-clauses per occurrence group.
const MaxClausesPerGroup = 32

// Bool is a composite clause with must/should/must_not/filter groups.
type Bool struct {
	must    []Clause
	should  []Clause
	mustNot []Clause
	filter  []Clause
}

// NewBool validates and creates a Bool clause.
func NewBool(must, should, mustNot, filter []Clause) (*Bool, error) {
	groups := []struct {
		occur   Occur
		clauses []Clause
	}{
		{Must, must}, {Should, should}, {MustNot, mustNot}, {Filter, filter},
	}
	for _, g := range groups {
		if len(g.clauses) > MaxClausesPerGroup {
			return nil, fmt.Errorf("%w: too many %s clauses (max %d)", ErrInvalidQuery, g.occur, MaxClausesPerGroup)
		}
		for _, c := range g.clauses {
			if c == nil {
				return nil, fmt.Errorf("%w: nil %s clause", ErrInvalidQuery, g.occur)
			}
		}
	}
	return &Bool{must: must, should: should, mustNot: mustNot, filter: filter}, nil
}

// Kind implements Clause.
func (b *Bool) Kind() Kind { return KindBool }

// Children returns must, then should, then must_not, then filter clauses.
func (b *Bool) Children() []Child {
	out := make([]Child, 0, len(b.must)+len(b.should)+len(b.mustNot)+len(b.filter))
	for _, c := range b.must {
		out = append(out, Child{Occur: Must, Clause: c})
	}
	for _, c := range b.should {
		out = append(out, Child{Occur: Should, Clause: c})
	}
	for _, c := range b.mustNot {
		out = append(out, Child{Occur: MustNot, Clause: c})
	}
	for _, c := range b.filter {
		out = append(out, Child{Occur: Filter, Clause: c})
	}
	return out
}

// Must returns the must clauses.
func (b *Bool) Must() []Clause { return b.must }

// Should returns the should clauses.
func (b *Bool) Should() []Clause { return b.should }

// MustNot returns the must-not clauses.
func (b *Bool) MustNot() []Clause { return b.mustNot }

// Filter returns the filter clauses.
func (b *Bool) Filter() []Clause { return b.filter }

// Term is an exact value match on a field.
type Term struct {
	field string
	value string
}

// NewTerm creates a term clause.
func NewTerm(field, value string) (*Term, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: term field is required", ErrInvalidQuery)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: term value is required for field %q", ErrInvalidQuery, field)
	}
	return &Term{field: field, value: value}, nil
}

// Kind implements Clause.
func (t *Term) Kind() Kind { return KindTerm }

// Children implements Clause.
func (t *Term) Children() []Child { return nil }

// Field returns the field name.
func (t *Term) Field() string { return t.field }

// Value returns the matched value.
func (t *Term) Value() string { return t.value }

// Match is a full-text match on a field.
type Match struct {
	field string
	text  string
}

// NewMatch creates a match clause.
func NewMatch(field, text string) (*Match, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: match field is required", ErrInvalidQuery)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: match text is required for field %q", ErrInvalidQuery, field)
	}
	return &Match{field: field, text: text}, nil
}

// Kind implements Clause.
func (m *Match) Kind() Kind { return KindMatch }

// Children implements Clause.
func (m *Match) Children() []Child { return nil }

// Field returns the field name.
func (m *Match) Field() string { return m.field }

// Text returns the query text.
func (m *Match) Text() string { return m.text }

// RangeClause is a numeric range on a field.
type RangeClause struct {
	field  string
	bounds Range
}

// NewRangeClause creates a range clause.
func NewRangeClause(field string, r Range) (*RangeClause, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: range field is required", ErrInvalidQuery)
	}
	return &RangeClause{field: field, bounds: r}, nil
}

// Kind implements Clause.
func (r *RangeClause) Kind() Kind { return KindRange }

// Children implements Clause.
func (r *RangeClause) Children() []Child { return nil }

// Field returns the field name.
func (r *RangeClause) Field() string { return r.field }

// Bounds returns the range boundaries.
func (r *RangeClause) Bounds() Range { return r.bounds }

// MaxK is the largest accepted k for knn clauses.
const MaxK = 10000

// KNN is an approximate nearest-neighbour vector clause.
type KNN struct {
	field  string
	vector []float32
	k      int
}

// NewKNN creates a knn clause.
func NewKNN(field string, vector []float32, k int) (*KNN, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: knn field is required", ErrInvalidQuery)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: knn vector is required", ErrInvalidQuery)
	}
	if k <= 0 || k > MaxK {
		return nil, fmt.Errorf("%w: knn k must be between 1 and %d, got %d", ErrInvalidQuery, MaxK, k)
	}
	return &KNN{field: field, vector: vector, k: k}, nil
}

// Kind implements Clause.
func (q *KNN) Kind() Kind { return KindKNN }

// Children implements Clause.
func (q *KNN) Children() []Child { return nil }

// Field returns the vector field name.
func (q *KNN) Field() string { return q.field }

// Vector returns the query vector.
func (q *KNN) Vector() []float32 { return q.vector }

// K returns the number of neighbours.
func (q *KNN) K() int { return q.k }

// MatchAll matches every document.
type MatchAll struct{}

// Kind implements Clause.
func (MatchAll) Kind() Kind { return KindMatchAll }

// Children implements Clause.
func (MatchAll) Children() []Child { return nil }

// GeoDistance matches documents within a radius of a point.
type GeoDistance struct {
	field     string
	lat       float64
	lon       float64
	distanceM float64
}

// NewGeoDistance validates coordinates and creates a geo_distance clause.
func NewGeoDistance(field string, lat, lon, distanceM float64) (*GeoDistance, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: geo_distance field is required", ErrInvalidQuery)
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidQuery)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidQuery)
	}
	if distanceM <= 0 {
		return nil, fmt.Errorf("%w: distance must be positive", ErrInvalidQuery)
	}
	return &GeoDistance{field: field, lat: lat, lon: lon, distanceM: distanceM}, nil
}

// Kind implements Clause.
func (g *GeoDistance) Kind() Kind { return KindGeoDistance }

// Children implements Clause.
func (g *GeoDistance) Children() []Child { return nil }

// Field returns the geo field name.
func (g *GeoDistance) Field() string { return g.field }

// Lat returns the latitude of the origin.
func (g *GeoDistance) Lat() float64 { return g.lat }

// Lon returns the longitude of the origin.
func (g *GeoDistance) Lon() float64 { return g.lon }

// DistanceM returns the radius in meters.
func (g *GeoDistance) DistanceM() float64 { return g.distanceM }
