package query

import "fmt"

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRange validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRange(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("%w: at least one range boundary is required", ErrInvalidQuery)
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("%w: cannot specify both gt and gte", ErrInvalidQuery)
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("%w: cannot specify both lt and lte", ErrInvalidQuery)
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
