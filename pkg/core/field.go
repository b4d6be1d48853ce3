// FieldDescriptor is the central entity of the domain.
package core

import "strings"

// Kind enumerates the built-in attribute types a field can declare.
type Kind string

const (
	KindString     Kind = "string"
	KindInteger    Kind = "integer"
	KindNumber     Kind = "number"
	KindBoolean    Kind = "boolean"
	KindDatetime   Kind = "datetime"
	KindDate       Kind = "date"
	KindSet        Kind = "set"
	KindArray      Kind = "array"
	KindSerialized Kind = "serialized"

	// KindFloat is a deprecated alias for KindNumber. Declaring a field with
	// it logs a warning and the descriptor is stored as KindNumber.
	KindFloat Kind = "float"
)

// CustomType is a user-supplied coercion strategy. When a field's type is a
// CustomType, casting delegates to Dump instead of the built-in rules.
type CustomType interface {
	// Dump converts a raw input into the type's canonical representation.
	Dump(value any) (any, error)
}

// FieldType is a tagged union: either a built-in Kind or a custom strategy.
// Exactly one side is set.
type FieldType struct {
	Kind   Kind
	Custom CustomType
}

// BuiltinType wraps a built-in kind as a FieldType.
func BuiltinType(k Kind) FieldType {
	return FieldType{Kind: k}
}

// StrategyType wraps a custom coercion strategy as a FieldType.
func StrategyType(c CustomType) FieldType {
	return FieldType{Custom: c}
}

// IsCustom reports whether the type delegates to a custom strategy.
func (t FieldType) IsCustom() bool {
	return t.Custom != nil
}

// FieldDescriptor is the type + options metadata for one declared field.
// It is the unit the schema registry stores and the coercion engine reads.
type FieldDescriptor struct {
	Name string
	Type FieldType

	// Options carries arbitrary extra settings. The registry treats them as
	// opaque; coercion and persistence layers interpret them.
	Options map[string]any
}

// NormalizeName canonicalizes a field name into the registry's key form.
// It reports false for names that cannot serve as attribute keys (empty, or
// containing characters outside the identifier set). Callers on the read
// path treat a false result as "no value" rather than an error.
func NormalizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return "", false
			}
		default:
			return "", false
		}
	}
	return strings.ToLower(name), true
}
