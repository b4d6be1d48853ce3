// Package document implements the instance side of the attribute pipeline:
// a per-instance store of casted values, the parallel pre-cast store, and
// the lifecycle hooks that auto-populate managed fields.
package document

import (
	"fmt"
	"time"

	"github.com/remomueller/dynamoid/pkg/casting"
	"github.com/remomueller/dynamoid/pkg/core"
	"github.com/remomueller/dynamoid/pkg/schema"
)

// Document is one instance of a model. It owns two parallel maps keyed by
// normalized field name: the casted attributes and the last raw input per
// attribute. A document is exclusively owned; nothing here locks.
type Document struct {
	registry *schema.Registry
	caster   casting.Caster
	tracker  core.DirtyTracker

	// class is the concrete model name, used by the inheritance hook. For a
	// subclass instance it differs from the registry's model name.
	class string

	associations map[string]core.Association
	attributes   map[string]any
	raw          map[string]any

	skipTouch bool
	clock     func() time.Time
}

// Option configures a document at construction.
type Option func(*Document)

// WithClass overrides the concrete class name recorded by the inheritance
// hook. Defaults to the registry's model name.
func WithClass(name string) Option {
	return func(d *Document) { d.class = name }
}

// WithDirtyTracker attaches the instance's change-tracking collaborator.
// Defaults to the registry's tracker.
func WithDirtyTracker(t core.DirtyTracker) Option {
	return func(d *Document) { d.tracker = t }
}

// WithAssociation registers a materialized association under a field name.
func WithAssociation(name string, a core.Association) Option {
	return func(d *Document) { d.associations[name] = a }
}

// WithClock overrides the time source used by the auto-population hooks.
func WithClock(clock func() time.Time) Option {
	return func(d *Document) { d.clock = clock }
}

// New constructs an empty document bound to a schema registry.
func New(reg *schema.Registry, opts ...Option) *Document {
	d := &Document{
		registry:     reg,
		caster:       casting.Caster{Zone: reg.Settings().TimeZone},
		tracker:      reg.Tracker(),
		class:        reg.Model(),
		associations: map[string]core.Association{},
		attributes:   map[string]any{},
		raw:          map[string]any{},
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracker == nil {
		d.tracker = core.NopDirtyTracker{}
	}
	return d
}

// Registry returns the schema registry the document is bound to.
func (d *Document) Registry() *schema.Registry { return d.registry }

// Class returns the concrete model name of this instance.
func (d *Document) Class() string { return d.class }

// SkipTouch suppresses the updated-at hook for this instance while active.
func (d *Document) SkipTouch(skip bool) { d.skipTouch = skip }

// WriteAttribute records value for name, in this order: reset any
// materialized association backed by name, snapshot the old value with the
// dirty tracker, store the raw input verbatim, cast, store the casted
// result. It fails only for names that cannot be normalized or for a
// descriptor carrying an unknown type tag.
func (d *Document) WriteAttribute(name string, value any) error {
	key, ok := core.NormalizeName(name)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrInvalidName, name)
	}

	if assoc, live := d.associations[key]; live && assoc != nil {
		assoc.Reset()
	}

	d.tracker.AttributeWillChange(key)
	d.raw[key] = value

	casted := value
	if desc, declared := d.registry.Descriptor(key); declared {
		var err error
		casted, err = d.caster.Cast(value, desc)
		if err != nil {
			return err
		}
	}
	// Names without a descriptor (e.g. just-removed fields) are stored
	// as-is; low-level access by name is not prevented.
	d.attributes[key] = casted
	return nil
}

// Set is the indexed-write alias for WriteAttribute.
func (d *Document) Set(name string, value any) error {
	return d.WriteAttribute(name, value)
}

// ReadAttribute returns the casted value for name, or no-value for a field
// never written. It has no side effects and never fails.
func (d *Document) ReadAttribute(name string) (any, bool) {
	key, ok := core.NormalizeName(name)
	if !ok {
		return nil, false
	}
	value, written := d.attributes[key]
	return value, written
}

// Get is the indexed-read alias for ReadAttribute.
func (d *Document) Get(name string) (any, bool) {
	return d.ReadAttribute(name)
}

// ReadAttributeBeforeTypeCast returns the last raw input for name. A name
// that cannot be normalized yields no-value rather than an error.
func (d *Document) ReadAttributeBeforeTypeCast(name string) (any, bool) {
	key, ok := core.NormalizeName(name)
	if !ok {
		return nil, false
	}
	value, written := d.raw[key]
	return value, written
}

// Attributes returns a copy of the casted attribute map.
func (d *Document) Attributes() map[string]any {
	out := make(map[string]any, len(d.attributes))
	for k, v := range d.attributes {
		out[k] = v
	}
	return out
}

// AttributesBeforeTypeCast returns a copy of the pre-cast attribute map.
func (d *Document) AttributesBeforeTypeCast() map[string]any {
	out := make(map[string]any, len(d.raw))
	for k, v := range d.raw {
		out[k] = v
	}
	return out
}

// Association returns the materialized association for a field, if any.
func (d *Document) Association(name string) (core.Association, bool) {
	a, ok := d.associations[name]
	return a, ok && a != nil
}
