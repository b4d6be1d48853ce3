package core

import "errors"

// Common errors.
var (
	// ErrUnknownField signals a schema mutation against a name that has no
	// descriptor (e.g. removing a field that was never declared).
	ErrUnknownField = errors.New("no such field in schema")

	// ErrUnknownAttribute signals an accessor lookup for a name whose
	// accessors were never generated or have been removed.
	ErrUnknownAttribute = errors.New("attribute accessor is not defined")

	// ErrUnknownKind signals a cast against a type tag the engine does not
	// support. This is a configuration defect, not a runtime condition.
	ErrUnknownKind = errors.New("unknown attribute type")

	// ErrInvalidName signals a write with a name that cannot be normalized
	// into the registry's key form.
	ErrInvalidName = errors.New("invalid attribute name")
)
