package schema

import (
	"fmt"

	"github.com/remomueller/dynamoid/pkg/core"
)

// Accessor is the dispatch entry generated for one declared field: four
// behaviors bound to the field's snapshot entry, each operating against an
// instance attribute store. This is the schema-driven replacement for
// per-field generated methods.
type Accessor struct {
	// Get returns the current casted value, or no-value if never written.
	Get func(core.AttributeStore) (any, bool)

	// Set routes a raw value through the write pipeline.
	Set func(core.AttributeStore, any) error

	// Present reports presence-of-truthy-or-non-null: false for absent,
	// nil, or boolean false; the boolean itself for booleans; true for any
	// other stored value.
	Present func(core.AttributeStore) bool

	// Raw returns the last pre-cast input, or no-value if never written.
	// It tolerates names that cannot be normalized.
	Raw func(core.AttributeStore) (any, bool)
}

// Accessor returns the dispatch entry for name from the current snapshot.
// After RemoveField the entry is gone and the lookup fails with
// core.ErrUnknownAttribute, the no-method analogue of a removed accessor.
func (r *Registry) Accessor(name string) (Accessor, error) {
	key, ok := core.NormalizeName(name)
	if !ok {
		return Accessor{}, fmt.Errorf("%w: %q", core.ErrUnknownAttribute, name)
	}
	a, ok := r.current.accessors[key]
	if !ok {
		return Accessor{}, fmt.Errorf("%w: %q", core.ErrUnknownAttribute, key)
	}
	return a, nil
}

// reservedNames are document-level method names the accessor namespace must
// not shadow silently. Declaring a field with one of these still proceeds;
// the collision is logged.
var reservedNames = map[string]struct{}{
	"attributes":                  {},
	"attributes_before_type_cast": {},
	"read_attribute":              {},
	"write_attribute":             {},
	"save":                        {},
}

// accessorNames returns the four names a field occupies in the accessor
// namespace: getter, setter, predicate, pre-cast getter.
func accessorNames(field string) [4]string {
	return [4]string{
		field,
		field + "=",
		field + "?",
		field + "_before_type_cast",
	}
}

// bindAccessors generates the dispatch entry for desc into next, warning on
// any name already claimed by a reserved method or another field's
// accessors. Generation proceeds and overwrites regardless.
func (r *Registry) bindAccessors(next *Snapshot, desc core.FieldDescriptor) {
	field := desc.Name

	for _, n := range accessorNames(field) {
		if _, reserved := reservedNames[n]; reserved {
			r.logger.Warn("field accessor shadows an existing method",
				"model", r.model, "field", field, "method", n)
			continue
		}
		if owner, bound := next.owners()[n]; bound && owner != field {
			r.logger.Warn("field accessor collides with another field's accessor",
				"model", r.model, "field", field, "method", n, "owner", owner)
		}
	}

	next.accessors[field] = Accessor{
		Get: func(store core.AttributeStore) (any, bool) {
			return store.ReadAttribute(field)
		},
		Set: func(store core.AttributeStore, value any) error {
			return store.WriteAttribute(field, value)
		},
		Present: func(store core.AttributeStore) bool {
			value, ok := store.ReadAttribute(field)
			if !ok || value == nil {
				return false
			}
			if b, isBool := value.(bool); isBool {
				return b
			}
			return true
		},
		Raw: func(store core.AttributeStore) (any, bool) {
			return store.ReadAttributeBeforeTypeCast(field)
		},
	}
}

// owners maps every bound accessor name to the field that claimed it.
func (s *Snapshot) owners() map[string]string {
	out := make(map[string]string, len(s.accessors)*4)
	for field := range s.accessors {
		for _, n := range accessorNames(field) {
			out[n] = field
		}
	}
	return out
}
