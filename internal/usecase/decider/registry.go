package decider

// Registry is the ordered set of deciders fixed at startup.
// The baseline decider is always first.
type Registry struct {
	deciders []Decider
}

// NewRegistry creates a registry with the baseline decider followed by extra.
// nil entries and additional baseline deciders are dropped.
func NewRegistry(extra ...Decider) *Registry {
	ds := make([]Decider, 0, len(extra)+1)
	ds = append(ds, NewDefault())
	for _, d := range extra {
		if d == nil || isBaseline(d) {
			continue
		}
		ds = append(ds, d)
	}
	return &Registry{deciders: ds}
}

// Snapshot returns a copy of the deciders for one request.
func (r *Registry) Snapshot() []Decider {
	out := make([]Decider, len(r.deciders))
	copy(out, r.deciders)
	return out
}

// Names returns decider names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.deciders))
	for i, d := range r.deciders {
		out[i] = deciderName(d)
	}
	return out
}
