package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remomueller/dynamoid/pkg/core"
	"github.com/remomueller/dynamoid/pkg/schema"
)

// sequenceTracker records the order of collaborator calls during a write.
type sequenceTracker struct {
	calls   *[]string
	changed map[string]bool
}

func (s *sequenceTracker) AttributeWillChange(name string) {
	*s.calls = append(*s.calls, "dirty:"+name)
}

func (s *sequenceTracker) AttributeChanged(name string) bool {
	return s.changed[name]
}

func (s *sequenceTracker) RegenerateTrackedFields([]string) {}

type sequenceAssociation struct {
	calls *[]string
	name  string
}

func (s *sequenceAssociation) Reset() {
	*s.calls = append(*s.calls, "reset:"+s.name)
}

func newUserRegistry() *schema.Registry {
	reg := schema.New("User", core.DefaultSettings(), nil)
	reg.DeclareField("age", core.BuiltinType(core.KindInteger), nil)
	reg.DeclareField("name", core.BuiltinType(core.KindString), nil)
	return reg
}

func TestUnwrittenFieldReadsNoValue(t *testing.T) {
	doc := New(newUserRegistry())

	_, ok := doc.ReadAttribute("age")
	assert.False(t, ok)

	acc, err := doc.Registry().Accessor("age")
	require.NoError(t, err)
	assert.False(t, acc.Present(doc))
}

func TestWritePreservesRawAndCasts(t *testing.T) {
	doc := New(newUserRegistry())

	require.NoError(t, doc.WriteAttribute("age", "42"))

	raw, ok := doc.ReadAttributeBeforeTypeCast("age")
	require.True(t, ok)
	assert.Equal(t, "42", raw, "pre-cast value is verbatim")

	casted, ok := doc.ReadAttribute("age")
	require.True(t, ok)
	assert.Equal(t, int64(42), casted)
}

func TestWriteSideEffectOrder(t *testing.T) {
	var calls []string
	tracker := &sequenceTracker{calls: &calls}
	assoc := &sequenceAssociation{calls: &calls, name: "owner"}

	reg := newUserRegistry()
	reg.DeclareField("owner", core.BuiltinType(core.KindString), nil)
	doc := New(reg,
		WithDirtyTracker(tracker),
		WithAssociation("owner", assoc),
	)

	require.NoError(t, doc.WriteAttribute("owner", "alice"))

	require.Equal(t, []string{"reset:owner", "dirty:owner"}, calls,
		"association reset precedes the dirty snapshot")
}

func TestWriteWithoutAssociationSkipsReset(t *testing.T) {
	var calls []string
	tracker := &sequenceTracker{calls: &calls}
	doc := New(newUserRegistry(), WithDirtyTracker(tracker))

	require.NoError(t, doc.WriteAttribute("name", "bob"))
	assert.Equal(t, []string{"dirty:name"}, calls)
}

func TestSetGetAliases(t *testing.T) {
	doc := New(newUserRegistry())

	require.NoError(t, doc.Set("age", 30))
	got, ok := doc.Get("age")
	require.True(t, ok)
	assert.Equal(t, int64(30), got)
}

func TestRedeclareDoesNotRecastStoredValue(t *testing.T) {
	reg := newUserRegistry()
	doc := New(reg)

	require.NoError(t, doc.WriteAttribute("age", "42"))

	reg.DeclareField("age", core.BuiltinType(core.KindString), nil)

	// Cast happens only at write time; the stored value survives the
	// redefinition untouched.
	got, ok := doc.ReadAttribute("age")
	require.True(t, ok)
	assert.Equal(t, int64(42), got)

	require.NoError(t, doc.WriteAttribute("age", 42))
	got, _ = doc.ReadAttribute("age")
	assert.Equal(t, "42", got, "next write uses the new descriptor")
}

func TestRemovedFieldStillReadableByName(t *testing.T) {
	reg := newUserRegistry()
	doc := New(reg)

	require.NoError(t, doc.WriteAttribute("name", "carol"))
	require.NoError(t, reg.RemoveField("name"))

	_, err := reg.Accessor("name")
	assert.ErrorIs(t, err, core.ErrUnknownAttribute)

	// Low-level access by name is not purged.
	got, ok := doc.ReadAttribute("name")
	require.True(t, ok)
	assert.Equal(t, "carol", got)
}

func TestWriteUndeclaredNameStoresVerbatim(t *testing.T) {
	doc := New(newUserRegistry())

	require.NoError(t, doc.WriteAttribute("legacy", 7))
	got, ok := doc.ReadAttribute("legacy")
	require.True(t, ok)
	assert.Equal(t, 7, got)
}

func TestInvalidNames(t *testing.T) {
	doc := New(newUserRegistry())

	err := doc.WriteAttribute("not a name!", 1)
	assert.ErrorIs(t, err, core.ErrInvalidName)

	_, ok := doc.ReadAttribute("not a name!")
	assert.False(t, ok)

	_, ok = doc.ReadAttributeBeforeTypeCast("")
	assert.False(t, ok, "non-normalizable raw read is a defensive no-op")
}

func TestAttributesCopies(t *testing.T) {
	doc := New(newUserRegistry())
	require.NoError(t, doc.WriteAttribute("age", 1))

	attrs := doc.Attributes()
	attrs["age"] = int64(99)

	got, _ := doc.ReadAttribute("age")
	assert.Equal(t, int64(1), got, "Attributes returns a copy")

	raw := doc.AttributesBeforeTypeCast()
	assert.Equal(t, 1, raw["age"])
}
