package core

import (
	"log/slog"
	"time"
)

// ExpiresOptions configures the expiration hook for a model: which field
// receives the deadline and how far from now it lands, in seconds.
type ExpiresOptions struct {
	Field string
	After int64
}

// Settings is the per-model configuration resolved once at registry
// construction. Nothing in the pipeline reads process-wide state; whatever
// a component needs arrives through this value.
type Settings struct {
	// TimestampsEnabled is the default for created_at/updated_at handling.
	// A table-level option can override it per model.
	TimestampsEnabled bool

	// TimeZone is the zone timestamps are generated and normalized in.
	TimeZone *time.Location

	// PrimaryKey is the name of the identifier field declared implicitly on
	// every schema.
	PrimaryKey string

	// InheritanceField is the discriminator column consulted by the
	// single-table-inheritance hook.
	InheritanceField string

	// Expires, when set, enables the expiration hook.
	Expires *ExpiresOptions

	// Logger receives warning-level events (deprecated aliases, accessor
	// collisions). Nil falls back to slog.Default().
	Logger *slog.Logger
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		TimestampsEnabled: true,
		TimeZone:          time.UTC,
		PrimaryKey:        "id",
		InheritanceField:  "type",
	}
}

// Log returns the configured logger or the process default.
func (s Settings) Log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
