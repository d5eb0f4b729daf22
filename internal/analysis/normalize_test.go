package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-analyzer/internal/models"
)

func TestNormalize_DefaultsAndClamp(t *testing.T) {
	parsed, err := ParseResponse(`{"match_percentage": 150}`)
	require.NoError(t, err)

	result := Normalize(parsed, models.ModeFullAnalysis)
	require.NotNil(t, result.Analysis)
	assert.Nil(t, result.Keywords)

	a := result.Analysis
	assert.Equal(t, 100, a.MatchPercentage)
	assert.Equal(t, []string{}, a.Strengths)
	assert.Equal(t, []string{}, a.AreasForImprovement)
	assert.Equal(t, []string{}, a.MissingKeywords)
	assert.Equal(t, []string{}, a.Recommendations)
	assert.Equal(t, "", a.Summary)

	assert.True(t, result.Degraded())
	issues := strings.Join(result.Issues, "\n")
	assert.Contains(t, issues, "match_percentage")
	assert.Contains(t, issues, "summary")
}

func TestNormalize_Percentage(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "negative clamps to zero", value: float64(-5), want: 0},
		{name: "in range", value: float64(72), want: 72},
		{name: "fraction rounds", value: 72.6, want: 73},
		{name: "above range", value: float64(1000), want: 100},
		{name: "numeric string", value: "85", want: 85},
		{name: "percent string", value: " 64% ", want: 64},
		{name: "overflowing string", value: "1e999", want: 100},
		{name: "negative overflowing string", value: "-1e999%", want: 0},
		{name: "underflowing string", value: "1e-999", want: 0},
		{name: "garbage string", value: "high", want: 0},
		{name: "absent", value: nil, want: 0},
		{name: "wrong type", value: []any{float64(50)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := map[string]any{}
			if tt.value != nil {
				parsed[FieldMatchPercentage] = tt.value
			}
			result := Normalize(parsed, models.ModeFullAnalysis)
			assert.Equal(t, tt.want, result.Analysis.MatchPercentage)
		})
	}
}

func TestNormalize_ListCoercion(t *testing.T) {
	parsed := map[string]any{
		FieldStrengths:       []any{"Go", float64(5), true, nil, map[string]any{"k": "v"}},
		FieldMissingKeywords: "Kubernetes",
		FieldRecommendations: "   ",
		FieldSummary:         float64(3),
	}

	a := Normalize(parsed, models.ModeFullAnalysis).Analysis
	assert.Equal(t, []string{"Go", "5", "true", `{"k":"v"}`}, a.Strengths)
	assert.Equal(t, []string{"Kubernetes"}, a.MissingKeywords)
	assert.Equal(t, []string{}, a.Recommendations)
	assert.Equal(t, "3", a.Summary)
}

func TestNormalize_WellFormedIsLossless(t *testing.T) {
	parsed, err := ParseResponse(wellFormed)
	require.NoError(t, err)

	result := Normalize(parsed, models.ModeFullAnalysis)
	assert.Empty(t, result.Issues)
	assert.Equal(t, &models.AnalysisResult{
		MatchPercentage:     72,
		Strengths:           []string{"a", "b"},
		AreasForImprovement: []string{"c"},
		MissingKeywords:     []string{"Kubernetes"},
		Recommendations:     []string{"d"},
		Summary:             "Solid fit.",
	}, result.Analysis)
}

func TestNormalize_Keywords(t *testing.T) {
	parsed := map[string]any{
		FieldTechnicalSkills: []any{"Python", "AWS"},
		FieldSoftSkills:      []any{"Leadership"},
	}

	result := Normalize(parsed, models.ModeKeywordExtraction)
	require.NotNil(t, result.Keywords)
	assert.Nil(t, result.Analysis)
	assert.Equal(t, models.ModeKeywordExtraction, result.Mode)

	k := result.Keywords
	assert.Equal(t, []string{"Python", "AWS"}, k.TechnicalSkills)
	assert.Equal(t, []string{"Leadership"}, k.SoftSkills)
	assert.Equal(t, []string{}, k.Qualifications)
	assert.Equal(t, []string{}, k.Experience)
	assert.Equal(t, []string{}, k.OtherKeywords)
	assert.NotEmpty(t, result.Issues)
}

func TestNormalize_NilInput(t *testing.T) {
	result := Normalize(nil, models.ModeFullAnalysis)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 0, result.Analysis.MatchPercentage)
	assert.NotNil(t, result.Analysis.Strengths)
}
