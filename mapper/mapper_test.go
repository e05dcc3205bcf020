package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/datakit/mapper"
)

func orderData() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"profile": map[string]any{
				"name":  "  jane doe  ",
				"email": "jane@example.com",
			},
		},
		"orders": []any{
			map[string]any{"id": 1, "total": 12.5, "status": "paid", "item": "pen"},
			map[string]any{"id": 2, "total": 7.25, "status": "pending", "item": "ink"},
			map[string]any{"id": 3, "total": 99.0, "status": "paid", "item": "desk"},
			map[string]any{"id": 4, "total": 45.0, "status": "cancelled", "item": "chair"},
		},
	}
}

func TestMapScalarRules(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"customer.name":  "{{ user.profile.name | trim | title }}",
		"customer.email": "{{ user.profile.email }}",
		"static":         "fixed value",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"customer": map[string]any{
			"name":  "Jane Doe",
			"email": "jane@example.com",
		},
		"static": "fixed value",
	}, out)
}

func TestMapConcatenation(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"label": "{{ user.profile.name | trim }} <{{ user.profile.email }}>",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane doe <jane@example.com>", out["label"])
}

func TestMapPreservesValueTypes(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"first_total": "{{ orders.0.total }}",
		"first_id":    "{{ orders.0.id }}",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, out["first_total"])
	assert.Equal(t, 1, out["first_id"])
}

func TestMapUnresolvedPathSkippedByDefault(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"present": "{{ user.profile.name }}",
		"absent":  "{{ user.profile.phone }}",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "present")
	assert.NotContains(t, out, "absent")
}

func TestMapStrictModeFailsOnUnresolvedPath(t *testing.T) {
	t.Parallel()

	m := mapper.New(mapper.WithStrict(true))

	_, err := m.Map(orderData(), map[string]string{
		"absent": "{{ user.profile.phone }}",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, mapper.ErrPathNotFound)
}

func TestMapDefaultFilterOnMissingPath(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"phone": `{{ user.profile.phone | default:"n/a" }}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "n/a", out["phone"])
}

func TestMapWildcardAggregation(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	tests := []struct {
		name     string
		template string
		expected any
	}{
		{
			name:     "sum",
			template: "{{ orders.*.total | sum }}",
			expected: 163.75,
		},
		{
			name:     "count",
			template: "{{ orders.* | count }}",
			expected: 4,
		},
		{
			name:     "sum with where",
			template: `{{ orders.*.total WHERE status = "paid" | sum }}`,
			expected: 111.5,
		},
		{
			name:     "join of plucked names",
			template: `{{ orders.*.item WHERE total > 40 | join:", " }}`,
			expected: "desk, chair",
		},
		{
			name:     "max",
			template: "{{ orders.*.total | max }}",
			expected: 99.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := m.Map(orderData(), map[string]string{"result": tt.template})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out["result"])
		})
	}
}

func TestMapWhereOperators(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	tests := []struct {
		name     string
		template string
		expected []any
	}{
		{
			name:     "equals",
			template: `{{ orders.*.id WHERE status = "paid" }}`,
			expected: []any{1, 3},
		},
		{
			name:     "not equals",
			template: `{{ orders.*.id WHERE status != "paid" }}`,
			expected: []any{2, 4},
		},
		{
			name:     "numeric comparison",
			template: `{{ orders.*.id WHERE total >= 45 }}`,
			expected: []any{3, 4},
		},
		{
			name:     "and chains conditions",
			template: `{{ orders.*.id WHERE status = "paid" AND total < 50 }}`,
			expected: []any{1},
		},
		{
			name:     "like",
			template: `{{ orders.*.id WHERE item LIKE "%e%" }}`,
			expected: []any{1, 3},
		},
		{
			name:     "in list",
			template: `{{ orders.*.id WHERE status IN ("pending", "cancelled") }}`,
			expected: []any{2, 4},
		},
		{
			name:     "contains on string",
			template: `{{ orders.*.id WHERE item CONTAINS "es" }}`,
			expected: []any{3},
		},
		{
			name:     "numeric literal matches loosely",
			template: `{{ orders.*.id WHERE total = 99 }}`,
			expected: []any{3},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := m.Map(orderData(), map[string]string{"result": tt.template})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out["result"])
		})
	}
}

func TestMapWhereStringsKeepTheirType(t *testing.T) {
	t.Parallel()

	m := mapper.New()
	src := map[string]any{
		"orders": []any{
			map[string]any{"id": 1, "total": "45"},
			map[string]any{"id": 2, "total": 45.0},
		},
	}

	out, err := m.Map(src, map[string]string{
		"numeric": "{{ orders.*.id WHERE total = 45 }}",
		"textual": `{{ orders.*.id WHERE total = "45" }}`,
	})
	require.NoError(t, err)

	assert.Equal(t, []any{2}, out["numeric"])
	assert.Equal(t, []any{1}, out["textual"])
}

func TestMapOrderByLimitOffset(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	tests := []struct {
		name     string
		template string
		expected []any
	}{
		{
			name:     "order by asc",
			template: "{{ orders.*.id ORDER BY total }}",
			expected: []any{2, 1, 4, 3},
		},
		{
			name:     "order by desc",
			template: "{{ orders.*.id ORDER BY total DESC }}",
			expected: []any{3, 4, 1, 2},
		},
		{
			name:     "limit",
			template: "{{ orders.*.id ORDER BY total DESC LIMIT 2 }}",
			expected: []any{3, 4},
		},
		{
			name:     "offset",
			template: "{{ orders.*.id ORDER BY total DESC OFFSET 1 }}",
			expected: []any{4, 1, 2},
		},
		{
			name:     "limit with offset",
			template: "{{ orders.*.id ORDER BY total DESC LIMIT 2 OFFSET 1 }}",
			expected: []any{4, 1},
		},
		{
			name:     "offset past end",
			template: "{{ orders.*.id OFFSET 10 }}",
			expected: nil,
		},
		{
			name:     "order by string key",
			template: "{{ orders.*.id ORDER BY item }}",
			expected: []any{4, 3, 2, 1},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := m.Map(orderData(), map[string]string{"result": tt.template})
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Empty(t, out["result"])
				return
			}
			assert.Equal(t, tt.expected, out["result"])
		})
	}
}

func TestMapWildcardPairing(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), map[string]string{
		"items.*.name":  `{{ orders.*.item WHERE status = "paid" ORDER BY total DESC }}`,
		"items.*.total": `{{ orders.*.total WHERE status = "paid" ORDER BY total DESC }}`,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"items": []any{
			map[string]any{"name": "desk", "total": 99.0},
			map[string]any{"name": "pen", "total": 12.5},
		},
	}, out)
}

func TestMapWildcardPairingErrors(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	t.Run("source without wildcard", func(t *testing.T) {
		t.Parallel()
		_, err := m.Map(orderData(), map[string]string{
			"items.*.name": "{{ user.profile.name }}",
		})
		assert.ErrorIs(t, err, mapper.ErrWildcardPairing)
	})

	t.Run("concatenated template", func(t *testing.T) {
		t.Parallel()
		_, err := m.Map(orderData(), map[string]string{
			"items.*.name": "x{{ orders.*.item }}",
		})
		assert.ErrorIs(t, err, mapper.ErrWildcardPairing)
	})

	t.Run("multiple target wildcards", func(t *testing.T) {
		t.Parallel()
		_, err := m.Map(orderData(), map[string]string{
			"a.*.b.*": "{{ orders.*.item }}",
		})
		assert.ErrorIs(t, err, mapper.ErrWildcardPairing)
	})
}

func TestMapQueryWithoutWildcardFails(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	_, err := m.Map(orderData(), map[string]string{
		"result": `{{ orders.0.id WHERE status = "paid" }}`,
	})
	assert.ErrorIs(t, err, mapper.ErrQueryWithoutWildcard)
}

func TestMapUnknownFilterFails(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	_, err := m.Map(orderData(), map[string]string{
		"result": "{{ user.profile.name | sparkle }}",
	})
	assert.ErrorIs(t, err, mapper.ErrUnknownFilter)
}

func TestMapSyntaxErrors(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	templates := []string{
		"{{ user.profile.name",
		"{{ }}",
		`{{ orders.*.id WHERE status = }}`,
		`{{ orders.*.id LIMIT many }}`,
		`{{ orders.*.id WHERE status ! "paid" }}`,
	}

	for _, tmpl := range templates {
		tmpl := tmpl
		t.Run(tmpl, func(t *testing.T) {
			t.Parallel()
			_, err := m.Map(orderData(), map[string]string{"result": tmpl})
			assert.ErrorIs(t, err, mapper.ErrSyntax)
		})
	}
}

func TestMapCustomFilter(t *testing.T) {
	t.Parallel()

	m := mapper.New(mapper.WithFilter("shout", func(v any, _ ...string) (any, error) {
		return v.(string) + "!!!", nil
	}))

	out, err := m.Map(orderData(), map[string]string{
		"greeting": "{{ user.profile.email | shout }}",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com!!!", out["greeting"])
}

func TestRegisterFilterGlobal(t *testing.T) {
	t.Parallel()

	mapper.RegisterFilter("double_test_only", func(v any, _ ...string) (any, error) {
		f, _ := v.(float64)
		return f * 2, nil
	})

	m := mapper.New()
	out, err := m.Map(orderData(), map[string]string{
		"result": "{{ orders.0.total | double_test_only }}",
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, out["result"])
}

func TestMapMaxDepth(t *testing.T) {
	t.Parallel()

	m := mapper.New(mapper.WithMaxDepth(2))

	_, err := m.Map(orderData(), map[string]string{
		"a.b.c": "{{ user.profile.email }}",
	})
	assert.ErrorIs(t, err, mapper.ErrMaxDepth)
}

func TestEval(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	v, err := m.Eval(orderData(), `{{ orders.*.total WHERE status = "paid" | sum }}`)
	require.NoError(t, err)
	assert.Equal(t, 111.5, v)

	v, err = m.Eval(orderData(), "{{ user.profile.missing }}")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = m.Eval(orderData(), "plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", v)
}

func TestMapIntoStruct(t *testing.T) {
	t.Parallel()

	type Customer struct {
		Name  string  `dto:"name"`
		Email string  `dto:"email"`
		Total float64 `dto:"total"`
	}

	m := mapper.New()
	var c Customer
	err := m.MapInto(orderData(), map[string]string{
		"name":  "{{ user.profile.name | trim | title }}",
		"email": "{{ user.profile.email }}",
		"total": "{{ orders.*.total | sum }}",
	}, &c)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, 163.75, c.Total)
}

func TestMapEmptyRules(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	out, err := m.Map(orderData(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
