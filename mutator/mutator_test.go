package mutator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/datakit/mutator"
)

func TestSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     any
		path     string
		value    any
		expected any
	}{
		{
			name:     "existing key",
			data:     map[string]any{"a": 1},
			path:     "a",
			value:    2,
			expected: map[string]any{"a": 2},
		},
		{
			name:     "creates intermediate maps",
			data:     map[string]any{},
			path:     "user.profile.name",
			value:    "Jane",
			expected: map[string]any{"user": map[string]any{"profile": map[string]any{"name": "Jane"}}},
		},
		{
			name:     "integer segment creates slice",
			data:     map[string]any{},
			path:     "tags.0",
			value:    "go",
			expected: map[string]any{"tags": []any{"go"}},
		},
		{
			name:     "minus one appends",
			data:     map[string]any{"tags": []any{"go"}},
			path:     "tags.-1",
			value:    "db",
			expected: map[string]any{"tags": []any{"go", "db"}},
		},
		{
			name:     "one past end appends",
			data:     map[string]any{"tags": []any{"go"}},
			path:     "tags.1",
			value:    "db",
			expected: map[string]any{"tags": []any{"go", "db"}},
		},
		{
			name:     "replaces slice element",
			data:     map[string]any{"tags": []any{"go", "db"}},
			path:     "tags.1",
			value:    "sql",
			expected: map[string]any{"tags": []any{"go", "sql"}},
		},
		{
			name:     "nested write inside slice element",
			data:     map[string]any{"orders": []any{map[string]any{"id": 1}}},
			path:     "orders.0.status",
			value:    "paid",
			expected: map[string]any{"orders": []any{map[string]any{"id": 1, "status": "paid"}}},
		},
		{
			name:     "nil root grows a map",
			data:     nil,
			path:     "a.b",
			value:    1,
			expected: map[string]any{"a": map[string]any{"b": 1}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mutator.Set(tt.data, tt.path, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSetDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"user": map[string]any{"name": "Jane"},
		"tags": []any{"go"},
	}

	_, err := mutator.Set(src, "user.email", "jane@example.com")
	require.NoError(t, err)
	_, err = mutator.Set(src, "tags.0", "db")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"user": map[string]any{"name": "Jane"},
		"tags": []any{"go"},
	}, src)
}

func TestSetErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		_, err := mutator.Set(map[string]any{}, "", 1)
		assert.ErrorIs(t, err, mutator.ErrInvalidPath)
	})

	t.Run("gap beyond slice end", func(t *testing.T) {
		t.Parallel()
		_, err := mutator.Set(map[string]any{"tags": []any{"go"}}, "tags.5", "x")
		assert.ErrorIs(t, err, mutator.ErrIndexOutOfRange)
	})

	t.Run("non-integer segment on slice", func(t *testing.T) {
		t.Parallel()
		_, err := mutator.Set(map[string]any{"tags": []any{"go"}}, "tags.first", "x")
		assert.ErrorIs(t, err, mutator.ErrInvalidPath)
	})

	t.Run("write through scalar", func(t *testing.T) {
		t.Parallel()
		_, err := mutator.Set(map[string]any{"a": 1}, "a.b", 2)
		assert.ErrorIs(t, err, mutator.ErrNotContainer)
	})
}

func TestSetAll(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"orders": []any{
			map[string]any{"id": 1, "status": "pending"},
			map[string]any{"id": 2, "status": "pending"},
		},
	}

	got, err := mutator.SetAll(data, "orders.*.status", "archived")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"orders": []any{
			map[string]any{"id": 1, "status": "archived"},
			map[string]any{"id": 2, "status": "archived"},
		},
	}, got)

	// Input untouched.
	assert.Equal(t, "pending", data["orders"].([]any)[0].(map[string]any)["status"])
}

func TestSetAllCreatesMissingLeaves(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"orders": []any{map[string]any{"id": 1}},
	}

	got, err := mutator.SetAll(data, "orders.*.seen", true)
	require.NoError(t, err)
	assert.Equal(t, true, got.(map[string]any)["orders"].([]any)[0].(map[string]any)["seen"])
}

func TestSetAllWithoutWildcard(t *testing.T) {
	t.Parallel()

	got, err := mutator.SetAll(map[string]any{"a": 1}, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 2}, got)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     any
		path     string
		expected any
	}{
		{
			name:     "map key",
			data:     map[string]any{"a": 1, "b": 2},
			path:     "a",
			expected: map[string]any{"b": 2},
		},
		{
			name:     "nested key",
			data:     map[string]any{"u": map[string]any{"a": 1, "b": 2}},
			path:     "u.a",
			expected: map[string]any{"u": map[string]any{"b": 2}},
		},
		{
			name:     "slice element compacts",
			data:     map[string]any{"tags": []any{"a", "b", "c"}},
			path:     "tags.1",
			expected: map[string]any{"tags": []any{"a", "c"}},
		},
		{
			name:     "negative index",
			data:     map[string]any{"tags": []any{"a", "b"}},
			path:     "tags.-1",
			expected: map[string]any{"tags": []any{"a"}},
		},
		{
			name:     "missing path is a no-op",
			data:     map[string]any{"a": 1},
			path:     "b.c",
			expected: map[string]any{"a": 1},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mutator.Delete(tt.data, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDeleteDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	src := map[string]any{"tags": []any{"a", "b"}}

	_, err := mutator.Delete(src, "tags.0")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"tags": []any{"a", "b"}}, src)
}
