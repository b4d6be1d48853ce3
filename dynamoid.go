package dynamoid

import (
	"io"
	"log/slog"
	"time"

	"github.com/remomueller/dynamoid/internal/platform"
	"github.com/remomueller/dynamoid/pkg/core"
	"github.com/remomueller/dynamoid/pkg/document"
	"github.com/remomueller/dynamoid/pkg/schema"
)

// --- Types ---

// Document is a public alias for the instance attribute store.
type Document = document.Document

// Registry is a public alias for the schema registry.
type Registry = schema.Registry

// FieldDescriptor is a public alias for a field's metadata.
type FieldDescriptor = core.FieldDescriptor

// FieldType is a public alias for the type tag of a field.
type FieldType = core.FieldType

// Kind is a public alias for the built-in type kinds.
type Kind = core.Kind

// Set is a public alias for the canonical set value.
type Set = core.Set

// TableOptions is a public alias for per-model table configuration.
type TableOptions = schema.TableOptions

// Built-in kinds.
const (
	KindString     = core.KindString
	KindInteger    = core.KindInteger
	KindNumber     = core.KindNumber
	KindBoolean    = core.KindBoolean
	KindDatetime   = core.KindDatetime
	KindDate       = core.KindDate
	KindSet        = core.KindSet
	KindArray      = core.KindArray
	KindSerialized = core.KindSerialized
	KindFloat      = core.KindFloat
)

// BuiltinType wraps a built-in kind as a FieldType.
func BuiltinType(k Kind) FieldType {
	return core.BuiltinType(k)
}

// StrategyType wraps a custom coercion strategy as a FieldType.
func StrategyType(c core.CustomType) FieldType {
	return core.StrategyType(c)
}

// --- Configuration ---

// Option defines a functional option for configuring a model.
type Option = platform.Option

// WithTimestamps sets the timestamps default for the model.
func WithTimestamps(enabled bool) Option {
	return platform.WithTimestamps(enabled)
}

// WithTimeZone sets the zone timestamps are generated in.
func WithTimeZone(zone *time.Location) Option {
	return platform.WithTimeZone(zone)
}

// WithPrimaryKey renames the implicit identifier field.
func WithPrimaryKey(name string) Option {
	return platform.WithPrimaryKey(name)
}

// WithInheritanceField sets the discriminator field name.
func WithInheritanceField(name string) Option {
	return platform.WithInheritanceField(name)
}

// WithExpires configures the expiration hook: target field and lifetime in
// seconds.
func WithExpires(field string, afterSeconds int64) Option {
	return platform.WithExpires(field, afterSeconds)
}

// WithLogger sets the logger receiving schema warnings.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDirtyTracker attaches the change-tracking collaborator.
func WithDirtyTracker(t core.DirtyTracker) Option {
	return platform.WithDirtyTracker(t)
}

// --- Factory ---

// Model binds a name to its schema registry. One Model serves many
// documents; its schema is meant to be finalized before instances exist.
type Model struct {
	registry *schema.Registry
}

// NewModel builds a model and its registry from functional options.
func NewModel(name string, opts ...Option) *Model {
	settings, tracker := platform.Build(opts...)
	return &Model{registry: schema.New(name, settings, tracker)}
}

// LoadModel reads a YAML model definition and builds the model from it.
func LoadModel(r io.Reader, opts ...Option) (*Model, error) {
	settings, tracker := platform.Build(opts...)
	reg, err := schema.LoadDefinition(r, settings, tracker)
	if err != nil {
		return nil, err
	}
	return &Model{registry: reg}, nil
}

// Registry exposes the model's schema registry.
func (m *Model) Registry() *schema.Registry {
	return m.registry
}

// New constructs an empty document bound to the model's schema.
func (m *Model) New(opts ...document.Option) *Document {
	return document.New(m.registry, opts...)
}
