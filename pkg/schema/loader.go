package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/remomueller/dynamoid/pkg/core"
)

// definitionFile mirrors the YAML shape of an external model definition.
type definitionFile struct {
	Model    string         `yaml:"model"`
	Table    *tableSection  `yaml:"table"`
	Fields   []fieldSection `yaml:"fields"`
	RangeKey *fieldSection  `yaml:"range_key"`
}

type tableSection struct {
	Key        string `yaml:"key"`
	Timestamps *bool  `yaml:"timestamps"`
}

type fieldSection struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options"`
}

// LoadDefinition reads a YAML model definition and replays it through the
// registry API: field declarations in order, the optional range key, then
// the table options. Field types default to "string" when omitted, and the
// deprecated "float" alias goes through the same normalization (and
// warning) as a programmatic declaration.
func LoadDefinition(r io.Reader, settings core.Settings, tracker core.DirtyTracker) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var def definitionFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid model definition: %w", err)
	}
	if def.Model == "" {
		return nil, fmt.Errorf("invalid model definition: missing model name")
	}

	reg := New(def.Model, settings, tracker)

	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("invalid model definition: field without a name")
		}
		fieldType, err := fieldTypeFor(f.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid model definition: field %q: %w", f.Name, err)
		}
		if err := reg.DeclareField(f.Name, fieldType, f.Options); err != nil {
			return nil, fmt.Errorf("invalid model definition: %w", err)
		}
	}

	if def.RangeKey != nil {
		if def.RangeKey.Name == "" {
			return nil, fmt.Errorf("invalid model definition: range_key without a name")
		}
		fieldType, err := fieldTypeFor(def.RangeKey.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid model definition: range_key: %w", err)
		}
		if err := reg.DeclareRangeKey(def.RangeKey.Name, fieldType, def.RangeKey.Options); err != nil {
			return nil, fmt.Errorf("invalid model definition: %w", err)
		}
	}

	if def.Table != nil {
		opts := TableOptions{Key: def.Table.Key, Timestamps: def.Table.Timestamps}
		if err := reg.ConfigureTable(opts); err != nil {
			return nil, fmt.Errorf("invalid model definition: %w", err)
		}
	}

	return reg, nil
}

// knownKinds are the type tags a definition file may use. The deprecated
// "float" alias is accepted here and normalized by the declaration.
var knownKinds = map[core.Kind]struct{}{
	core.KindString:     {},
	core.KindInteger:    {},
	core.KindNumber:     {},
	core.KindBoolean:    {},
	core.KindDatetime:   {},
	core.KindDate:       {},
	core.KindSet:        {},
	core.KindArray:      {},
	core.KindSerialized: {},
	core.KindFloat:      {},
}

// fieldTypeFor resolves a definition-file type tag. Unknown tags fail here,
// at load time, rather than surfacing as a cast error on the first write.
func fieldTypeFor(tag string) (core.FieldType, error) {
	if tag == "" {
		return core.BuiltinType(core.KindString), nil
	}
	kind := core.Kind(tag)
	if _, known := knownKinds[kind]; !known {
		return core.FieldType{}, fmt.Errorf("%w: %q", core.ErrUnknownKind, tag)
	}
	return core.BuiltinType(kind), nil
}
