package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-analyzer/internal/analysis"
	"alfredoptarigan/ats-analyzer/internal/models"
)

const cannedCompletion = `Sure! Here is my analysis:
{"match_percentage": 72, "strengths": ["Python", "AWS", "Team leadership"], "areas_for_improvement": ["Seniority signals"],
 "missing_keywords": ["System design"], "recommendations": ["Quantify the team's impact"], "summary": "Solid backend fit."}
Let me know if you need more.`

func fullRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		ResumeText:     "5 years Python, AWS, led team of 4",
		JobDescription: "Senior backend engineer, Python, AWS, leadership",
		Mode:           models.ModeFullAnalysis,
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	gen := &stubGenerator{response: cannedCompletion}
	runs := newRecordingRunRepo()
	a := NewAnalyzerService(runs, gen, time.Second)

	result, err := a.Analyze(context.Background(), uuid.New(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, models.ModeFullAnalysis, result.Mode)
	assert.Nil(t, result.Keywords)
	assert.Equal(t, &models.AnalysisResult{
		MatchPercentage:     72,
		Strengths:           []string{"Python", "AWS", "Team leadership"},
		AreasForImprovement: []string{"Seniority signals"},
		MissingKeywords:     []string{"System design"},
		Recommendations:     []string{"Quantify the team's impact"},
		Summary:             "Solid backend fit.",
	}, result.Analysis)
	assert.False(t, result.Degraded())

	calls := gen.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 2000, calls[0].MaxTokens)
	assert.InDelta(t, 0.2, calls[0].Temperature, 0.0001)
	assert.Contains(t, calls[0].Prompt, "5 years Python, AWS, led team of 4")
	assert.Contains(t, calls[0].Prompt, "Senior backend engineer, Python, AWS, leadership")

	require.Len(t, runs.created, 1)
	run := runs.created[0]
	assert.Equal(t, models.RunStatusProcessing, run.Status)
	assert.Equal(t, "stub", run.Provider)
	require.Contains(t, runs.completed, run.ID)
	assert.Equal(t, len(cannedCompletion), runs.completed[run.ID].ResponseChars)
}

func TestAnalyze_KeywordMode(t *testing.T) {
	gen := &stubGenerator{response: `{"technical_skills": ["Go"], "soft_skills": "communication"}`}
	a := NewAnalyzerService(newRecordingRunRepo(), gen, time.Second)

	result, err := a.Analyze(context.Background(), uuid.New(), models.AnalysisRequest{
		JobDescription: "Go developer",
		Mode:           models.ModeKeywordExtraction,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Keywords)
	assert.Nil(t, result.Analysis)
	assert.Equal(t, []string{"Go"}, result.Keywords.TechnicalSkills)
	assert.Equal(t, []string{"communication"}, result.Keywords.SoftSkills)
	assert.Equal(t, []string{}, result.Keywords.Qualifications)
	assert.True(t, result.Degraded())

	assert.Equal(t, 1000, gen.calls()[0].MaxTokens)
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  models.AnalysisRequest
	}{
		{name: "blank job description", req: models.AnalysisRequest{ResumeText: "r", JobDescription: "  ", Mode: models.ModeFullAnalysis}},
		{name: "missing resume for full analysis", req: models.AnalysisRequest{JobDescription: "jd", Mode: models.ModeFullAnalysis}},
		{name: "unknown mode", req: models.AnalysisRequest{ResumeText: "r", JobDescription: "jd", Mode: "summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{response: cannedCompletion}
			runs := newRecordingRunRepo()

			_, err := NewAnalyzerService(runs, gen, time.Second).Analyze(context.Background(), uuid.New(), tt.req)

			assert.ErrorIs(t, err, models.ErrInvalidRequest)
			assert.Equal(t, "validation", ErrorKind(err))
			assert.Empty(t, gen.calls())
			assert.Empty(t, runs.created)
		})
	}
}

func TestAnalyze_ParseFailureKeepsRawOutput(t *testing.T) {
	gen := &stubGenerator{response: "Sorry, I cannot help."}
	runs := newRecordingRunRepo()

	_, err := NewAnalyzerService(runs, gen, time.Second).Analyze(context.Background(), uuid.New(), fullRequest())

	var noJSON *analysis.NoJSONFoundError
	require.True(t, errors.As(err, &noJSON))
	assert.Equal(t, "no_json_found", ErrorKind(err))

	require.Len(t, runs.created, 1)
	failure := runs.failed[runs.created[0].ID]
	require.NotNil(t, failure)
	assert.Equal(t, "no_json_found", failure.ErrorKind)
	require.NotNil(t, failure.RawOutput)
	assert.Equal(t, "Sorry, I cannot help.", *failure.RawOutput)
}

func TestAnalyze_GenerationErrorPassesThrough(t *testing.T) {
	cause := &GenerationError{Kind: GenerationRateLimit, Provider: "stub", Cause: errors.New("quota")}
	gen := &stubGenerator{err: cause}
	runs := newRecordingRunRepo()

	_, err := NewAnalyzerService(runs, gen, time.Second).Analyze(context.Background(), uuid.New(), fullRequest())

	assert.Same(t, cause, err)
	failure := runs.failed[runs.created[0].ID]
	require.NotNil(t, failure)
	assert.Equal(t, "rate_limit", failure.ErrorKind)
	assert.Nil(t, failure.RawOutput)
}

func TestAnalyze_Timeout(t *testing.T) {
	gen := &stubGenerator{block: make(chan struct{})}
	t.Cleanup(func() { close(gen.block) })

	start := time.Now()
	_, err := NewAnalyzerService(newRecordingRunRepo(), gen, 50*time.Millisecond).
		Analyze(context.Background(), uuid.New(), fullRequest())

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, GenerationTimeout, genErr.Kind)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "extraction", err: &ExtractionError{Reason: "empty"}, want: "extraction"},
		{name: "auth", err: &GenerationError{Kind: GenerationAuth}, want: "auth"},
		{name: "malformed", err: &analysis.MalformedJSONError{Raw: "{", Cause: errors.New("eof")}, want: "malformed_json"},
		{name: "shape", err: &analysis.UnexpectedShapeError{Raw: "[]", Kind: "array"}, want: "unexpected_shape"},
		{name: "other", err: errors.New("boom"), want: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
