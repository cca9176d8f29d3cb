package vivint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityUpdateMergePreservesOtherKeys(t *testing.T) {
	e := newEntity(map[string]any{"a": float64(1), "b": "x"})

	changed := e.Update(map[string]any{"a": float64(2)}, false)
	require.True(t, changed)

	val, ok := e.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(2), val)
	assert.Equal(t, "x", e.Str("b"))
}

func TestEntityUpdateOverrideDropsMissingKeys(t *testing.T) {
	e := newEntity(map[string]any{"a": float64(1), "b": "x"})

	changed := e.Update(map[string]any{"a": float64(1)}, true)
	require.True(t, changed)

	_, ok := e.Get("b")
	assert.False(t, ok)
}

func TestEntityUpdateIdempotent(t *testing.T) {
	e := newEntity(map[string]any{"a": float64(1)})

	var emits int
	e.SetEmitter(func(event string, data map[string]any) { emits++ })

	assert.False(t, e.Update(map[string]any{"a": float64(1)}, false))
	assert.Equal(t, 0, emits)

	assert.True(t, e.Update(map[string]any{"a": float64(2)}, false))
	assert.Equal(t, 1, emits)

	// Same payload again is a no-op.
	assert.False(t, e.Update(map[string]any{"a": float64(2)}, false))
	assert.Equal(t, 1, emits)
}

func TestEntityEmitCarriesOnlyChangedKeys(t *testing.T) {
	e := newEntity(map[string]any{"a": float64(1), "b": "x"})

	var got map[string]any
	e.SetEmitter(func(event string, data map[string]any) {
		assert.Equal(t, EventUpdate, event)
		got = data
	})

	e.Update(map[string]any{"a": float64(1), "b": "y"}, false)
	require.NotNil(t, got)
	assert.Equal(t, map[string]any{"b": "y"}, got)
}

func TestEntityAttributesReturnsCopy(t *testing.T) {
	e := newEntity(map[string]any{"a": float64(1)})

	attrs := e.Attributes()
	attrs["a"] = float64(99)

	val, _ := e.Get("a")
	assert.Equal(t, float64(1), val)
}

func TestEntityCoercions(t *testing.T) {
	e := newEntity(map[string]any{
		"n":    float64(42),
		"s":    "hello",
		"b1":   true,
		"b2":   float64(1),
		"null": nil,
	})

	n, ok := e.Int("n")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	assert.Equal(t, "hello", e.Str("s"))
	assert.True(t, e.Bool("b1"))
	assert.True(t, e.Bool("b2"))
	assert.False(t, e.Bool("missing"))
	assert.False(t, e.Has("null"))
	assert.True(t, e.Has("s"))
}
