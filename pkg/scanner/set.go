package scanner

import "sort"

// NameSet is a set of dependency names.
type NameSet map[string]struct{}

// NewNameSet builds a set holding names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Clone returns an independent copy of s.
func (s NameSet) Clone() NameSet {
	c := make(NameSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Difference removes every name in names from s.
func (s NameSet) Difference(names []string) {
	for _, n := range names {
		delete(s, n)
	}
}

// Intersect removes from s every name that is not in other.
func (s NameSet) Intersect(other NameSet) {
	for n := range s {
		if !other.Has(n) {
			delete(s, n)
		}
	}
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Candidates holds the declared names not yet seen referenced, split by
// dependency kind.
type Candidates struct {
	Dependencies    NameSet
	DevDependencies NameSet
}

// NewCandidates builds candidate sets from declared names.
func NewCandidates(deps, devDeps []string) Candidates {
	return Candidates{
		Dependencies:    NewNameSet(deps...),
		DevDependencies: NewNameSet(devDeps...),
	}
}

// Empty reports whether no candidate is left in either set.
func (c Candidates) Empty() bool {
	return len(c.Dependencies) == 0 && len(c.DevDependencies) == 0
}

// Clone returns a deep copy so a child traversal can shrink it independently.
func (c Candidates) Clone() Candidates {
	return Candidates{
		Dependencies:    c.Dependencies.Clone(),
		DevDependencies: c.DevDependencies.Clone(),
	}
}

func (c Candidates) remove(names []string) {
	c.Dependencies.Difference(names)
	c.DevDependencies.Difference(names)
}

func (c Candidates) intersect(other Candidates) {
	c.Dependencies.Intersect(other.Dependencies)
	c.DevDependencies.Intersect(other.DevDependencies)
}
