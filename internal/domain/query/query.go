// Package query models the search query as a tree of typed clauses.
package query

// Kind identifies the clause type.
type Kind string

// Clause kinds.
const (
	KindBool        Kind = "bool"
	KindTerm        Kind = "term"
	KindMatch       Kind = "match"
	KindRange       Kind = "range"
	KindKNN         Kind = "knn"
	KindMatchAll    Kind = "match_all"
	KindGeoDistance Kind = "geo_distance"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case KindBool, KindTerm, KindMatch, KindRange, KindKNN, KindMatchAll, KindGeoDistance:
		return true
	}
	return false
}

// Occur is the boolean occurrence tag of a sub-clause.
type Occur string

// Occurrence tags.
const (
	Must    Occur = "must"
	Should  Occur = "should"
	MustNot Occur = "must_not"
	Filter  Occur = "filter"
)

// Clause is a node of the query tree.
type Clause interface {
	Kind() Kind
	// Children returns the sub-clauses in evaluation order. Leaves return nil.
	Children() []Child
}

// Child is a sub-clause with its occurrence tag.
type Child struct {
	Occur  Occur
	Clause Clause
}

// Walk visits root and every sub-clause in pre-order, exactly once each.
// All occurrence tags are descended into the same way.
// fn returning false stops the walk; Walk then returns false.
func Walk(root Clause, fn func(Clause) bool) bool {
	if root == nil {
		return true
	}
	if !fn(root) {
		return false
	}
	for _, c := range root.Children() {
		if !Walk(c.Clause, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of clauses in the tree.
func Count(root Clause) int {
	n := 0
	Walk(root, func(Clause) bool {
		n++
		return true
	})
	return n
}
