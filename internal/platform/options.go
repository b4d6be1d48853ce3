// Package platform assembles per-model settings from functional options and
// wires collaborators into registry construction. It keeps configuration
// explicit: nothing downstream reads process-wide state.
package platform

import (
	"log/slog"
	"time"

	"github.com/remomueller/dynamoid/pkg/core"
)

// options holds the internal configuration for a model definition.
type options struct {
	timestamps       *bool
	zone             *time.Location
	primaryKey       string
	inheritanceField string
	expires          *core.ExpiresOptions
	logger           *slog.Logger
	tracker          core.DirtyTracker
}

// Option defines a functional option for configuring a model.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithTimestamps sets the timestamps default for the model.
func WithTimestamps(enabled bool) Option {
	return func(o *options) {
		o.timestamps = &enabled
	}
}

// WithTimeZone sets the zone timestamps are generated in.
func WithTimeZone(zone *time.Location) Option {
	return func(o *options) {
		o.zone = zone
	}
}

// WithPrimaryKey renames the implicit identifier field.
func WithPrimaryKey(name string) Option {
	return func(o *options) {
		o.primaryKey = name
	}
}

// WithInheritanceField sets the discriminator field name.
func WithInheritanceField(name string) Option {
	return func(o *options) {
		o.inheritanceField = name
	}
}

// WithExpires configures the expiration hook: target field and lifetime in
// seconds.
func WithExpires(field string, afterSeconds int64) Option {
	return func(o *options) {
		o.expires = &core.ExpiresOptions{Field: field, After: afterSeconds}
	}
}

// WithLogger sets the logger receiving schema warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDirtyTracker attaches the change-tracking collaborator used at both
// schema mutation and instance writes.
func WithDirtyTracker(t core.DirtyTracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// Build resolves the options into settings plus the tracking collaborator.
func Build(opts ...Option) (core.Settings, core.DirtyTracker) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := core.DefaultSettings()
	if o.timestamps != nil {
		s.TimestampsEnabled = *o.timestamps
	}
	if o.zone != nil {
		s.TimeZone = o.zone
	}
	if o.primaryKey != "" {
		s.PrimaryKey = o.primaryKey
	}
	if o.inheritanceField != "" {
		s.InheritanceField = o.inheritanceField
	}
	s.Expires = o.expires
	s.Logger = o.logger

	tracker := o.tracker
	if tracker == nil {
		tracker = core.NopDirtyTracker{}
	}
	return s, tracker
}
