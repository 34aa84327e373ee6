package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"mid":   3,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"alpha":2,"mid":3,"zebra":1}`, string(got))
}

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		out  string
	}{
		{"nil", nil, "null"},
		{"string", "hello", `"hello"`},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 0.1, "0.1"},
		{"whole float", float64(5), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(got))
		})
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("a<b & c>d")
	require.NoError(t, err)

	assert.Equal(t, `"a<b & c>d"`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// e + combining acute accent normalizes to the precomposed form.
	got, err := MarshalCanonical("café")
	require.NoError(t, err)

	assert.Equal(t, "\"café\"", string(got))
}

func TestMarshalCanonical_NestedAndDeterministic(t *testing.T) {
	in := map[string]any{
		"records": []any{
			map[string]any{"seq": int64(1), "name": "nightly"},
			map[string]any{"seq": int64(2), "name": "gate"},
		},
		"total": 2,
	}

	first, err := MarshalCanonical(in)
	require.NoError(t, err)
	second, err := MarshalCanonical(in)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t,
		`{"records":[{"name":"nightly","seq":1},{"name":"gate","seq":2}],"total":2}`,
		string(first))
}

func TestMarshalCanonical_RejectsUnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}
