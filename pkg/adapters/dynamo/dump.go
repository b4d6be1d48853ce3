// Package dynamo is the persistence-facing adapter: it converts a document's
// casted attributes into DynamoDB attribute values, driven entirely by the
// schema registry's descriptors. It consumes the registry and the instance
// attribute store and nothing else.
package dynamo

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"

	"github.com/remomueller/dynamoid/pkg/core"
	"github.com/remomueller/dynamoid/pkg/document"
)

// ErrMissingKey signals that a designated key field has no descriptor or no
// value when a persisted record is being built.
var ErrMissingKey = errors.New("key attribute missing")

// Dump converts the document's written attributes into a DynamoDB item.
// Fields never written are skipped; descriptor kinds drive the member type.
func Dump(doc *document.Document) (map[string]ddbtypes.AttributeValue, error) {
	reg := doc.Registry()
	item := make(map[string]ddbtypes.AttributeValue)

	for _, desc := range reg.Fields() {
		value, written := doc.ReadAttribute(desc.Name)
		if !written || value == nil {
			continue
		}
		av, err := dumpField(value, desc)
		if err != nil {
			return nil, fmt.Errorf("dump field %q: %w", desc.Name, err)
		}
		item[desc.Name] = av
	}
	return item, nil
}

// ExtractKey returns the hash (and, when designated, range) key attribute
// values for the document. Both designated names must resolve to a live
// descriptor and a written value.
func ExtractKey(doc *document.Document) (map[string]ddbtypes.AttributeValue, error) {
	reg := doc.Registry()
	key := make(map[string]ddbtypes.AttributeValue, 2)

	names := []string{reg.HashKey()}
	if rk := reg.RangeKey(); rk != "" {
		names = append(names, rk)
	}
	for _, name := range names {
		desc, declared := reg.Descriptor(name)
		if !declared {
			return nil, fmt.Errorf("%w: %q has no descriptor", ErrMissingKey, name)
		}
		value, written := doc.ReadAttribute(name)
		if !written || value == nil {
			return nil, fmt.Errorf("%w: %q has no value", ErrMissingKey, name)
		}
		av, err := dumpField(value, desc)
		if err != nil {
			return nil, fmt.Errorf("extract key %q: %w", name, err)
		}
		key[name] = av
	}
	return key, nil
}

func dumpField(value any, desc core.FieldDescriptor) (ddbtypes.AttributeValue, error) {
	if desc.Type.IsCustom() {
		// The strategy already produced its canonical form at write time.
		return dumpScalar(value)
	}

	switch desc.Type.Kind {
	case core.KindString:
		return &ddbtypes.AttributeValueMemberS{Value: fmt.Sprint(value)}, nil
	case core.KindInteger:
		n, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("expected int64, got %T", value)
		}
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}, nil
	case core.KindNumber:
		f, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("expected float64, got %T", value)
		}
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'f', -1, 64)}, nil
	case core.KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		return &ddbtypes.AttributeValueMemberBOOL{Value: b}, nil
	case core.KindDatetime:
		t, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", value)
		}
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(t.Unix(), 10)}, nil
	case core.KindDate:
		t, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", value)
		}
		return &ddbtypes.AttributeValueMemberS{Value: t.Format("2006-01-02")}, nil
	case core.KindSet:
		s, ok := value.(core.Set)
		if !ok {
			return nil, fmt.Errorf("expected core.Set, got %T", value)
		}
		return dumpSet(s)
	case core.KindArray:
		list, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected []any, got %T", value)
		}
		return dumpList(list)
	case core.KindSerialized:
		data, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("serialize: %w", err)
		}
		return &ddbtypes.AttributeValueMemberS{Value: string(data)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownKind, desc.Type.Kind)
	}
}

// dumpSet emits a string set or a number set. Empty sets and mixed member
// types have no DynamoDB representation and are rejected.
func dumpSet(s core.Set) (ddbtypes.AttributeValue, error) {
	if s.Len() == 0 {
		return nil, errors.New("empty set has no DynamoDB representation")
	}
	var strs []string
	var nums []string
	for _, member := range s.Values() {
		switch m := member.(type) {
		case string:
			strs = append(strs, m)
		case int:
			nums = append(nums, strconv.Itoa(m))
		case int64:
			nums = append(nums, strconv.FormatInt(m, 10))
		case float64:
			nums = append(nums, strconv.FormatFloat(m, 'f', -1, 64))
		default:
			return nil, fmt.Errorf("unsupported set member type %T", member)
		}
	}
	if len(strs) > 0 && len(nums) > 0 {
		return nil, errors.New("mixed string/number set members")
	}
	if len(nums) > 0 {
		return &ddbtypes.AttributeValueMemberNS{Value: nums}, nil
	}
	return &ddbtypes.AttributeValueMemberSS{Value: strs}, nil
}

func dumpList(list []any) (ddbtypes.AttributeValue, error) {
	members := make([]ddbtypes.AttributeValue, 0, len(list))
	for _, item := range list {
		av, err := dumpScalar(item)
		if err != nil {
			return nil, err
		}
		members = append(members, av)
	}
	return &ddbtypes.AttributeValueMemberL{Value: members}, nil
}

// dumpScalar infers the member type from the Go value. Non-scalar values
// fall back to their YAML rendering.
func dumpScalar(value any) (ddbtypes.AttributeValue, error) {
	switch v := value.(type) {
	case string:
		return &ddbtypes.AttributeValueMemberS{Value: v}, nil
	case bool:
		return &ddbtypes.AttributeValueMemberBOOL{Value: v}, nil
	case int:
		return &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(v)}, nil
	case int64:
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}, nil
	case float64:
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}, nil
	case time.Time:
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(v.Unix(), 10)}, nil
	default:
		data, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("render %T: %w", value, err)
		}
		return &ddbtypes.AttributeValueMemberS{Value: string(data)}, nil
	}
}
