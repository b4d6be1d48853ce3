package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remomueller/dynamoid/pkg/core"
	"github.com/remomueller/dynamoid/pkg/schema"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSetCreatedAtIdempotent(t *testing.T) {
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := New(newUserRegistry(), WithClock(fixedClock(first)))

	require.NoError(t, doc.SetCreatedAt())
	got, ok := doc.ReadAttribute("created_at")
	require.True(t, ok)
	assert.Equal(t, first, got)

	// A later call must not overwrite the existing value.
	doc.clock = fixedClock(first.Add(time.Hour))
	require.NoError(t, doc.SetCreatedAt())
	got, _ = doc.ReadAttribute("created_at")
	assert.Equal(t, first, got)
}

func TestSetCreatedAtDisabledTimestamps(t *testing.T) {
	s := core.DefaultSettings()
	s.TimestampsEnabled = false
	reg := schema.New("User", s, nil)
	doc := New(reg)

	require.NoError(t, doc.SetCreatedAt())
	_, ok := doc.ReadAttribute("created_at")
	assert.False(t, ok)
}

func TestSetUpdatedAt(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Stamps When Unchanged", func(t *testing.T) {
		doc := New(newUserRegistry(), WithClock(fixedClock(now)))

		require.NoError(t, doc.SetUpdatedAt())
		got, ok := doc.ReadAttribute("updated_at")
		require.True(t, ok)
		assert.Equal(t, now, got)
	})

	t.Run("Noop When Already Marked Changed", func(t *testing.T) {
		var calls []string
		tracker := &sequenceTracker{
			calls:   &calls,
			changed: map[string]bool{"updated_at": true},
		}
		doc := New(newUserRegistry(),
			WithClock(fixedClock(now)),
			WithDirtyTracker(tracker),
		)

		require.NoError(t, doc.SetUpdatedAt())
		_, ok := doc.ReadAttribute("updated_at")
		assert.False(t, ok, "an explicitly set value must not be clobbered")
	})

	t.Run("Noop When Touch Skipped", func(t *testing.T) {
		doc := New(newUserRegistry(), WithClock(fixedClock(now)))
		doc.SkipTouch(true)

		require.NoError(t, doc.SetUpdatedAt())
		_, ok := doc.ReadAttribute("updated_at")
		assert.False(t, ok)
	})
}

func TestSetExpiresField(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s := core.DefaultSettings()
	s.Expires = &core.ExpiresOptions{Field: "expire_at", After: 3600}
	reg := schema.New("Session", s, nil)
	reg.DeclareField("expire_at", core.BuiltinType(core.KindInteger), nil)

	doc := New(reg, WithClock(fixedClock(now)))

	require.NoError(t, doc.SetExpiresField())
	got, ok := doc.ReadAttribute("expire_at")
	require.True(t, ok)
	assert.Equal(t, now.Unix()+3600, got)

	// Pre-existing deadlines are kept.
	doc.clock = fixedClock(now.Add(time.Hour))
	require.NoError(t, doc.SetExpiresField())
	got, _ = doc.ReadAttribute("expire_at")
	assert.Equal(t, now.Unix()+3600, got)
}

func TestSetExpiresFieldUnconfigured(t *testing.T) {
	doc := New(newUserRegistry())

	require.NoError(t, doc.SetExpiresField())
	assert.Empty(t, doc.Attributes())
}

func TestSetInheritanceField(t *testing.T) {
	reg := schema.New("Animal", core.DefaultSettings(), nil)
	reg.DeclareField("type", core.BuiltinType(core.KindString), nil)

	doc := New(reg, WithClass("Dog"))

	require.NoError(t, doc.SetInheritanceField())
	got, ok := doc.ReadAttribute("type")
	require.True(t, ok)
	assert.Equal(t, "Dog", got)
}

func TestSetInheritanceFieldUndeclared(t *testing.T) {
	doc := New(newUserRegistry(), WithClass("Dog"))

	require.NoError(t, doc.SetInheritanceField())
	_, ok := doc.ReadAttribute("type")
	assert.False(t, ok, "hook requires the discriminator to be declared")
}

func TestSetInheritanceFieldKeepsExplicitValue(t *testing.T) {
	reg := schema.New("Animal", core.DefaultSettings(), nil)
	reg.DeclareField("type", core.BuiltinType(core.KindString), nil)
	doc := New(reg, WithClass("Dog"))

	require.NoError(t, doc.WriteAttribute("type", "Cat"))
	require.NoError(t, doc.SetInheritanceField())

	got, _ := doc.ReadAttribute("type")
	assert.Equal(t, "Cat", got)
}

func TestSetDefaultID(t *testing.T) {
	doc := New(newUserRegistry())

	require.NoError(t, doc.SetDefaultID())
	got, ok := doc.ReadAttribute("id")
	require.True(t, ok)

	_, err := uuid.Parse(got.(string))
	require.NoError(t, err)

	// Assigned identifiers survive further calls.
	first := got
	require.NoError(t, doc.SetDefaultID())
	got, _ = doc.ReadAttribute("id")
	assert.Equal(t, first, got)
}
