// Package casting implements the type coercion engine: the pure function
// turning a raw attribute input into the field's canonical representation.
//
// Casting is deterministic and total over the declared kinds. A nil input
// casts to nil for every type (absence is never coerced). Inputs that cannot
// be coerced into the declared kind also cast to nil rather than failing:
// writes never fail because of a value, only because of a misdeclared type.
package casting

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/remomueller/dynamoid/pkg/core"
)

// Caster casts raw values against field descriptors. The zone parameterizes
// datetime and date coercion; everything else is zone-independent.
type Caster struct {
	Zone *time.Location
}

// Default is a UTC caster, sufficient whenever zone handling is irrelevant.
var Default = Caster{Zone: time.UTC}

// Cast converts value into the canonical representation declared by d.
// Custom strategy descriptors delegate to the strategy. An unrecognized
// built-in kind is a configuration error.
func (c Caster) Cast(value any, d core.FieldDescriptor) (any, error) {
	if value == nil {
		return nil, nil
	}
	if d.Type.IsCustom() {
		return d.Type.Custom.Dump(value)
	}

	switch d.Type.Kind {
	case core.KindString:
		return toString(value), nil
	case core.KindInteger:
		return toInteger(value), nil
	case core.KindNumber, core.KindFloat:
		return toNumber(value), nil
	case core.KindBoolean:
		return toBoolean(value), nil
	case core.KindDatetime:
		return c.toDatetime(value), nil
	case core.KindDate:
		return c.toDate(value), nil
	case core.KindSet:
		return toSet(value), nil
	case core.KindArray:
		return toArray(value), nil
	case core.KindSerialized:
		// Kept verbatim in memory; serialization happens at dump time.
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %q (field %q)", core.ErrUnknownKind, d.Type.Kind, d.Name)
	}
}

// Cast applies the default UTC caster.
func Cast(value any, d core.FieldDescriptor) (any, error) {
	return Default.Cast(value, d)
}

func (c Caster) zone() *time.Location {
	if c.Zone != nil {
		return c.Zone
	}
	return time.UTC
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toInteger(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return nil
	default:
		return nil
	}
}

func toNumber(v any) any {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
		return nil
	default:
		return nil
	}
}

func toBoolean(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "t", "true", "1":
			return true
		case "f", "false", "0":
			return false
		}
		return nil
	default:
		return nil
	}
}

func (c Caster) toDatetime(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.In(c.zone())
	case int:
		return time.Unix(int64(t), 0).In(c.zone())
	case int64:
		return time.Unix(t, 0).In(c.zone())
	case float64:
		sec := int64(t)
		nsec := int64((t - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).In(c.zone())
	case string:
		return c.parseTime(t)
	default:
		return nil
	}
}

func (c Caster) toDate(v any) any {
	dt := c.toDatetime(v)
	t, ok := dt.(time.Time)
	if !ok {
		return nil
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.zone())
}

// parseTime accepts RFC 3339 (with or without fractional seconds), the
// common space-separated form, and bare dates.
func (c Caster) parseTime(s string) any {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, c.zone()); err == nil {
			return t.In(c.zone())
		}
	}
	return nil
}

func toSet(v any) any {
	switch t := v.(type) {
	case core.Set:
		out := make(core.Set, len(t))
		for member := range t {
			out[member] = struct{}{}
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make(core.Set, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Add(rv.Index(i).Interface())
		}
		return out
	}

	// A lone scalar becomes a singleton set.
	return core.NewSet(v)
}

func toArray(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	case core.Set:
		return t.Values()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}

	return []any{v}
}
