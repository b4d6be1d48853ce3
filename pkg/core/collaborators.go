package core

// DirtyTracker is the contract the attribute pipeline requires from the
// change-tracking collaborator. The pipeline only drives it; recording and
// diffing changes is the collaborator's business.
type DirtyTracker interface {
	// AttributeWillChange is invoked before every casted write, while the
	// attribute still holds its old value.
	AttributeWillChange(name string)

	// AttributeChanged reports whether the attribute has already been marked
	// changed in the current operation. Consulted by the updated-at hook so
	// an explicitly set timestamp is not clobbered.
	AttributeChanged(name string) bool

	// RegenerateTrackedFields replaces the tracked field set after a schema
	// mutation. It receives the full remaining field list, not a delta.
	RegenerateTrackedFields(names []string)
}

// NopDirtyTracker satisfies DirtyTracker without recording anything.
// Used when a document is built standalone, outside a persistence session.
type NopDirtyTracker struct{}

func (NopDirtyTracker) AttributeWillChange(string)       {}
func (NopDirtyTracker) AttributeChanged(string) bool     { return false }
func (NopDirtyTracker) RegenerateTrackedFields([]string) {}

// Association is a materialized association object cached against a field.
// The attribute store resets it before writing to the backing field, so a
// cached association never outlives the value it was loaded from.
type Association interface {
	Reset()
}

// AttributeStore is the instance-side surface the generated accessors bind
// to. *document.Document is the canonical implementation.
type AttributeStore interface {
	WriteAttribute(name string, value any) error
	ReadAttribute(name string) (any, bool)
	ReadAttributeBeforeTypeCast(name string) (any, bool)
}
