// Package schema implements the class-scoped field registry: the authority
// for which attribute names are legal on a model, their type descriptors,
// and the generated accessors bound to them.
//
// The registry is mutated at model-definition time only. Every declare or
// remove produces a fresh immutable snapshot; dispatch always consults the
// current snapshot, so removing a field "undefines" its accessors simply by
// publishing a snapshot that no longer carries them.
package schema

import (
	"fmt"
	"log/slog"

	"github.com/remomueller/dynamoid/pkg/core"
)

// TableOptions carries the per-model table configuration fed into
// ConfigureTable at definition time.
type TableOptions struct {
	// Key renames the primary-key field. Empty keeps the default identifier.
	Key string

	// Timestamps explicitly enables or disables created_at/updated_at for
	// this model. Nil defers to the settings default.
	Timestamps *bool
}

// Registry owns one model's schema. It is not safe for concurrent mutation;
// the expected pattern is a schema finalized before any document exists.
type Registry struct {
	model    string
	settings core.Settings
	logger   *slog.Logger
	tracker  core.DirtyTracker

	current         *Snapshot
	tableTimestamps *bool
	hashKey         string
	rangeKey        string
}

// Snapshot is one immutable version of a schema: descriptors, insertion
// order, and the generated accessor table.
type Snapshot struct {
	fields    map[string]core.FieldDescriptor
	order     []string
	accessors map[string]Accessor
}

// New builds a registry for the named model. The implicit identifier field
// is declared immediately; the timestamp pair follows when the settings
// default enables it.
func New(model string, settings core.Settings, tracker core.DirtyTracker) *Registry {
	if tracker == nil {
		tracker = core.NopDirtyTracker{}
	}
	primary, ok := core.NormalizeName(settings.PrimaryKey)
	if !ok {
		primary = core.DefaultSettings().PrimaryKey
	}
	r := &Registry{
		model:    model,
		settings: settings,
		logger:   settings.Log(),
		tracker:  tracker,
		current:  &Snapshot{fields: map[string]core.FieldDescriptor{}, accessors: map[string]Accessor{}},
		hashKey:  primary,
	}
	r.DeclareField(primary, core.BuiltinType(core.KindString), nil)
	if settings.TimestampsEnabled {
		r.declareTimestamps()
	}
	return r
}

// Model returns the model name the registry was built for.
func (r *Registry) Model() string { return r.model }

// Settings returns the configuration the registry was built with.
func (r *Registry) Settings() core.Settings { return r.settings }

// Tracker returns the dirty-tracking collaborator.
func (r *Registry) Tracker() core.DirtyTracker { return r.tracker }

// DeclareField merges a descriptor for name into the schema, fully replacing
// any prior descriptor, and regenerates the four accessors bound to it.
// The deprecated "float" kind normalizes to "number" with a warning. It
// never fails for a well-formed name and type; a name that cannot be
// normalized is rejected with core.ErrInvalidName, since a descriptor
// stored under it would be unreachable through every read and write path.
func (r *Registry) DeclareField(name string, fieldType core.FieldType, options map[string]any) error {
	key, ok := core.NormalizeName(name)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrInvalidName, name)
	}

	if fieldType.Kind == core.KindFloat {
		r.logger.Warn("field declared with deprecated type alias",
			"model", r.model, "field", key, "alias", "float", "type", "number")
		fieldType.Kind = core.KindNumber
	}

	desc := core.FieldDescriptor{Name: key, Type: fieldType, Options: options}

	next := r.current.clone()
	if _, exists := next.fields[key]; !exists {
		next.order = append(next.order, key)
	}
	next.fields[key] = desc
	r.bindAccessors(next, desc)
	r.current = next

	r.tracker.RegenerateTrackedFields(r.FieldNames())
	return nil
}

// DeclareRangeKey declares a field and designates it as the schema's
// secondary (range) key.
func (r *Registry) DeclareRangeKey(name string, fieldType core.FieldType, options map[string]any) error {
	if err := r.DeclareField(name, fieldType, options); err != nil {
		return err
	}
	key, _ := core.NormalizeName(name)
	r.rangeKey = key
	return nil
}

// RemoveField deletes a descriptor and its accessors. It fails with
// core.ErrUnknownField when no descriptor exists under name, which also
// makes a second removal of the same name fail.
func (r *Registry) RemoveField(name string) error {
	key, ok := core.NormalizeName(name)
	if !ok {
		// Declarations reject such names, so nothing can exist under one.
		return fmt.Errorf("%w: %q", core.ErrUnknownField, name)
	}
	if _, exists := r.current.fields[key]; !exists {
		return fmt.Errorf("%w: %q", core.ErrUnknownField, key)
	}

	next := r.current.clone()
	delete(next.fields, key)
	for i, n := range next.order {
		if n == key {
			next.order = append(next.order[:i], next.order[i+1:]...)
			break
		}
	}
	for _, accessor := range accessorNames(key) {
		delete(next.accessors, accessor)
	}
	r.current = next

	r.tracker.RegenerateTrackedFields(r.FieldNames())
	return nil
}

// ConfigureTable reconciles the schema with the model's table options:
// the primary-key field is ensured under the configured name, and the
// timestamp pair is declared or removed according to the explicit table
// flag versus the settings default.
func (r *Registry) ConfigureTable(opts TableOptions) error {
	if opts.Key != "" {
		// HashKey() must always name a live descriptor, so the configured
		// key goes through the same normalization as its declaration.
		key, ok := core.NormalizeName(opts.Key)
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrInvalidName, opts.Key)
		}
		if key != r.hashKey {
			if err := r.RemoveField(r.hashKey); err != nil {
				return fmt.Errorf("reconfigure primary key: %w", err)
			}
			if err := r.DeclareField(key, core.BuiltinType(core.KindString), nil); err != nil {
				return err
			}
			r.hashKey = key
		}
	}

	if opts.Timestamps != nil {
		r.tableTimestamps = opts.Timestamps
		switch {
		case *opts.Timestamps && !r.settings.TimestampsEnabled:
			r.declareTimestamps()
		case !*opts.Timestamps && r.settings.TimestampsEnabled:
			if err := r.RemoveField(createdAtField); err != nil {
				return err
			}
			if err := r.RemoveField(updatedAtField); err != nil {
				return err
			}
		}
		// The remaining two combinations already hold from definition time.
	}
	return nil
}

// TimestampsEnabled derives from the explicit table option when set, else
// the settings default.
func (r *Registry) TimestampsEnabled() bool {
	if r.tableTimestamps != nil {
		return *r.tableTimestamps
	}
	return r.settings.TimestampsEnabled
}

// HashKey returns the designated primary-key field name.
func (r *Registry) HashKey() string { return r.hashKey }

// RangeKey returns the designated secondary-key field name, or "" when the
// schema has none.
func (r *Registry) RangeKey() string { return r.rangeKey }

// Descriptor looks up the current descriptor for name.
func (r *Registry) Descriptor(name string) (core.FieldDescriptor, bool) {
	key, ok := core.NormalizeName(name)
	if !ok {
		return core.FieldDescriptor{}, false
	}
	d, ok := r.current.fields[key]
	return d, ok
}

// Fields returns the current descriptors in insertion order.
func (r *Registry) Fields() []core.FieldDescriptor {
	out := make([]core.FieldDescriptor, 0, len(r.current.order))
	for _, name := range r.current.order {
		out = append(out, r.current.fields[name])
	}
	return out
}

// FieldNames returns the current field names in insertion order.
func (r *Registry) FieldNames() []string {
	out := make([]string, len(r.current.order))
	copy(out, r.current.order)
	return out
}

const (
	createdAtField = "created_at"
	updatedAtField = "updated_at"
)

func (r *Registry) declareTimestamps() {
	r.DeclareField(createdAtField, core.BuiltinType(core.KindDatetime), nil)
	r.DeclareField(updatedAtField, core.BuiltinType(core.KindDatetime), nil)
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		fields:    make(map[string]core.FieldDescriptor, len(s.fields)+1),
		order:     make([]string, len(s.order)),
		accessors: make(map[string]Accessor, len(s.accessors)+4),
	}
	for k, v := range s.fields {
		next.fields[k] = v
	}
	copy(next.order, s.order)
	for k, v := range s.accessors {
		next.accessors[k] = v
	}
	return next
}
