package core

// Set is the canonical representation of a "set" field: unordered, unique
// members. Members must be comparable; the coercion engine only produces
// scalar members (strings, numbers).
type Set map[any]struct{}

// NewSet builds a Set from the given values, dropping duplicates.
func NewSet(values ...any) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts a value into the set.
func (s Set) Add(v any) {
	s[v] = struct{}{}
}

// Contains reports membership.
func (s Set) Contains(v any) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Values returns the members in unspecified order.
func (s Set) Values() []any {
	out := make([]any, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}
