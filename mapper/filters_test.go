package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/datakit/mapper"
)

// evalFilter runs a single-expression template against a one-key source so
// each filter can be exercised in isolation.
func evalFilter(t *testing.T, value any, pipeline string) any {
	t.Helper()
	m := mapper.New()
	v, err := m.Eval(map[string]any{"v": value}, "{{ v "+pipeline+" }}")
	require.NoError(t, err)
	return v
}

func TestStringFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		pipeline string
		expected any
	}{
		{"trim", "  hello  ", "| trim", "hello"},
		{"lower", "HELLO", "| lower", "hello"},
		{"upper", "hello", "| upper", "HELLO"},
		{"title", "jane doe", "| title", "Jane Doe"},
		{"snake from camel", "firstName", "| snake", "first_name"},
		{"snake from spaces", "First Name", "| snake", "first_name"},
		{"kebab", "First Name", "| kebab", "first-name"},
		{"camel", "first_name", "| camel", "firstName"},
		{"chained", "  FIRST name  ", "| trim | lower | snake", "first_name"},
		{"replace", "a-b-c", "| replace:-,_", "a_b_c"},
		{"prefix", "name", "| prefix:user_", "user_name"},
		{"suffix", "user", "| suffix:_id", "user_id"},
		{"substr", "hello world", "| substr:0,5", "hello"},
		{"substr negative offset", "hello world", "| substr:-5", "world"},
		{"number formats decimals", 3.14159, "| number:2", "3.14"},
		{"null_to_empty keeps value", "x", "| null_to_empty", "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, evalFilter(t, tt.value, tt.pipeline))
		})
	}
}

func TestDefaultFilter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fallback", evalFilter(t, "", `| default:fallback`))
	assert.Equal(t, "kept", evalFilter(t, "kept", `| default:fallback`))
}

func TestEmptyToNull(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(map[string]any{"v": "   "}, map[string]string{
		"result": "{{ v | empty_to_null }}",
	})
	require.NoError(t, err)
	assert.Nil(t, out["result"])
}

func TestCastFilters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(42), evalFilter(t, "42", "| int"))
	assert.Equal(t, 1.5, evalFilter(t, "1.5", "| float"))
	assert.Equal(t, true, evalFilter(t, "true", "| bool"))
	assert.Equal(t, "42", evalFilter(t, 42, "| string"))
}

func TestDateFilter(t *testing.T) {
	t.Parallel()

	got := evalFilter(t, "2024-03-01T10:30:00Z", `| date:"2006-01-02"`)
	assert.Equal(t, "2024-03-01", got)
}

func TestCollectionFilters(t *testing.T) {
	t.Parallel()

	list := []any{3, 1, 2, 1}

	tests := []struct {
		name     string
		value    any
		pipeline string
		expected any
	}{
		{"sum", list, "| sum", 7.0},
		{"avg", list, "| avg", 1.75},
		{"min", list, "| min", 1},
		{"max", list, "| max", 3},
		{"count", list, "| count", 4},
		{"first", list, "| first", 3},
		{"last", list, "| last", 1},
		{"reverse", list, "| reverse", []any{1, 2, 1, 3}},
		{"sort", list, "| sort", []any{1, 1, 2, 3}},
		{"sort desc", list, "| sort:desc", []any{3, 2, 1, 1}},
		{"unique", list, "| unique", []any{3, 1, 2}},
		{"join", []any{"a", "b"}, "| join:-", "a-b"},
		{"split", "a, b, c", "| split", []any{"a", "b", "c"}},
		{"compact", []any{"a", nil, "", "b"}, "| compact", []any{"a", "b"}},
		{"flatten", []any{[]any{1, 2}, []any{3}}, "| flatten", []any{1, 2, 3}},
		{"chained aggregation", list, "| unique | sort | sum", 6.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, evalFilter(t, tt.value, tt.pipeline))
		})
	}
}

func TestKeysValuesFilters(t *testing.T) {
	t.Parallel()

	m := map[string]any{"b": 2, "a": 1}
	assert.Equal(t, []any{"a", "b"}, evalFilter(t, m, "| keys"))
	assert.Equal(t, []any{1, 2}, evalFilter(t, m, "| values"))
}

func TestPluckFilter(t *testing.T) {
	t.Parallel()

	list := []any{
		map[string]any{"user": map[string]any{"name": "a"}},
		map[string]any{"user": map[string]any{"name": "b"}},
		map[string]any{"other": true},
	}
	assert.Equal(t, []any{"a", "b"}, evalFilter(t, list, "| pluck:user.name"))
}

func TestFilterErrors(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	tests := []struct {
		name     string
		src      map[string]any
		template string
	}{
		{
			name:     "sum over non-numeric",
			src:      map[string]any{"v": []any{"a"}},
			template: "{{ v | sum }}",
		},
		{
			name:     "collection filter on scalar",
			src:      map[string]any{"v": 5},
			template: "{{ v | first }}",
		},
		{
			name:     "replace with wrong arity",
			src:      map[string]any{"v": "x"},
			template: "{{ v | replace:a }}",
		},
		{
			name:     "int cast failure",
			src:      map[string]any{"v": "not a number"},
			template: "{{ v | int }}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := m.Map(tt.src, map[string]string{"result": tt.template})
			assert.ErrorIs(t, err, mapper.ErrFilter)
		})
	}
}
