package schema

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remomueller/dynamoid/pkg/core"
)

// mapStore is a minimal attribute store for exercising accessors without
// pulling in the document pipeline.
type mapStore struct {
	values map[string]any
	raw    map[string]any
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string]any{}, raw: map[string]any{}}
}

func (m *mapStore) WriteAttribute(name string, value any) error {
	m.raw[name] = value
	m.values[name] = value
	return nil
}

func (m *mapStore) ReadAttribute(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *mapStore) ReadAttributeBeforeTypeCast(name string) (any, bool) {
	v, ok := m.raw[name]
	return v, ok
}

func TestAccessorRoundTrip(t *testing.T) {
	reg := New("User", testSettings(nil), nil)
	reg.DeclareField("name", core.BuiltinType(core.KindString), nil)

	acc, err := reg.Accessor("name")
	require.NoError(t, err)

	store := newMapStore()

	_, ok := acc.Get(store)
	assert.False(t, ok, "unwritten field reads as no-value")
	assert.False(t, acc.Present(store))

	require.NoError(t, acc.Set(store, "Alice"))

	got, ok := acc.Get(store)
	require.True(t, ok)
	assert.Equal(t, "Alice", got)
	assert.True(t, acc.Present(store))

	raw, ok := acc.Raw(store)
	require.True(t, ok)
	assert.Equal(t, "Alice", raw)
}

func TestAccessorPresentSemantics(t *testing.T) {
	reg := New("User", testSettings(nil), nil)
	reg.DeclareField("flag", core.BuiltinType(core.KindBoolean), nil)

	acc, err := reg.Accessor("flag")
	require.NoError(t, err)
	store := newMapStore()

	assert.False(t, acc.Present(store), "absent is false")

	store.values["flag"] = nil
	assert.False(t, acc.Present(store), "nil is false")

	store.values["flag"] = false
	assert.False(t, acc.Present(store), "false is false")

	store.values["flag"] = true
	assert.True(t, acc.Present(store), "true is true")

	store.values["flag"] = "anything"
	assert.True(t, acc.Present(store), "non-boolean presence is true")
}

func TestAccessorUnknownName(t *testing.T) {
	reg := New("User", testSettings(nil), nil)

	_, err := reg.Accessor("missing")
	assert.ErrorIs(t, err, core.ErrUnknownAttribute)

	_, err = reg.Accessor("not a name!")
	assert.ErrorIs(t, err, core.ErrUnknownAttribute)
}

func TestAccessorCollisionWarnings(t *testing.T) {
	var buf bytes.Buffer
	reg := New("User", testSettings(&buf), nil)

	reg.DeclareField("attributes", core.BuiltinType(core.KindString), nil)
	assert.Contains(t, buf.String(), "shadows an existing method")

	// Generation proceeds despite the warning.
	_, err := reg.Accessor("attributes")
	assert.NoError(t, err)

	buf.Reset()
	reg.DeclareField("age", core.BuiltinType(core.KindInteger), nil)
	reg.DeclareField("age_before_type_cast", core.BuiltinType(core.KindString), nil)
	assert.Contains(t, buf.String(), "collides")
}

func TestRedeclareDoesNotWarnAboutItself(t *testing.T) {
	var buf bytes.Buffer
	reg := New("User", testSettings(&buf), nil)

	reg.DeclareField("age", core.BuiltinType(core.KindString), nil)
	buf.Reset()
	reg.DeclareField("age", core.BuiltinType(core.KindInteger), nil)

	assert.NotContains(t, buf.String(), "collides")
}
