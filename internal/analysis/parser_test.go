package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `{"match_percentage": 72, "strengths": ["a", "b"], "areas_for_improvement": ["c"], "missing_keywords": ["Kubernetes"], "recommendations": ["d"], "summary": "Solid fit."}`

func TestParseResponse_RoundTripWrappers(t *testing.T) {
	want, err := ParseResponse(wellFormed)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose before", raw: "Here is my analysis:\n" + wellFormed},
		{name: "prose after", raw: wellFormed + "\n\nLet me know if you need anything else!"},
		{name: "prose both sides", raw: "Sure. " + wellFormed + " Hope this helps."},
		{name: "json code fence", raw: "```json\n" + wellFormed + "\n```"},
		{name: "bare code fence", raw: "```\n" + wellFormed + "\n```"},
		{name: "code fence inside prose", raw: "Analysis below.\n```json\n" + wellFormed + "\n```\nThanks!"},
		{name: "leading whitespace", raw: "\n\n   " + wellFormed + "   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseResponse_NestedBracesInStrings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "braces inside string value",
			raw:  `Result: {"strengths": ["Writes {templated} configs", "Uses map[string]{}"]} trailing }`,
			want: map[string]any{"strengths": []any{"Writes {templated} configs", "Uses map[string]{}"}},
		},
		{
			name: "escaped quote before brace",
			raw:  `{"summary": "He said \"{hi}\" twice"} and a stray } here`,
			want: map[string]any{"summary": `He said "{hi}" twice`},
		},
		{
			name: "prose braces before the object",
			raw:  `Use {braces} wisely. {"match_percentage": 10}`,
			want: map[string]any{"match_percentage": float64(10)},
		},
		{
			name: "two objects takes the first",
			raw:  `{"match_percentage": 1} {"match_percentage": 2}`,
			want: map[string]any{"match_percentage": float64(1)},
		},
		{
			name: "empty object in prose is skipped",
			raw:  `Return {} if unsure. Answer: {"match_percentage": 50}`,
			want: map[string]any{"match_percentage": float64(50)},
		},
		{
			name: "only an empty object",
			raw:  `Nothing to report: {} done`,
			want: map[string]any{},
		},
		{
			name: "nested object",
			raw:  `Output:\n{"outer": {"inner": "value"}}`,
			want: map[string]any{"outer": map[string]any{"inner": "value"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponse_Failures(t *testing.T) {
	t.Run("no json", func(t *testing.T) {
		raw := "Sorry, I cannot help."
		_, err := ParseResponse(raw)

		var target *NoJSONFoundError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, raw, target.Raw)
	})

	t.Run("empty completion", func(t *testing.T) {
		_, err := ParseResponse("")

		var target *NoJSONFoundError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("malformed", func(t *testing.T) {
		raw := "Here: {invalid json"
		_, err := ParseResponse(raw)

		var target *MalformedJSONError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, raw, target.Raw)
		assert.Equal(t, "{invalid json", target.Candidate)
		assert.Error(t, target.Unwrap())
		assert.Contains(t, err.Error(), raw)
	})

	t.Run("malformed balanced", func(t *testing.T) {
		_, err := ParseResponse(`Answer: {"strengths": [1, 2,]}`)

		var target *MalformedJSONError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("array", func(t *testing.T) {
		_, err := ParseResponse("[1,2,3]")

		var target *UnexpectedShapeError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "array", target.Kind)
	})

	t.Run("scalar", func(t *testing.T) {
		_, err := ParseResponse("42")

		var target *UnexpectedShapeError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "number", target.Kind)
	})

	t.Run("fenced array", func(t *testing.T) {
		_, err := ParseResponse("```json\n[\"a\"]\n```")

		var target *UnexpectedShapeError
		assert.True(t, errors.As(err, &target))
	})
}

func TestRawOutput(t *testing.T) {
	_, err := ParseResponse("Here: {invalid json")
	raw, ok := RawOutput(err)
	assert.True(t, ok)
	assert.Equal(t, "Here: {invalid json", raw)

	_, ok = RawOutput(errors.New("boom"))
	assert.False(t, ok)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json fence", input: "```json\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "generic fence", input: "```\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "plain", input: `{"key": "value"}`, expected: `{"key": "value"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
