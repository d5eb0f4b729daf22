package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest wraps every AnalysisRequest validation failure.
var ErrInvalidRequest = errors.New("invalid analysis request")

// Mode selects which analysis a request performs.
type Mode string

const (
	ModeFullAnalysis      Mode = "full_analysis"
	ModeKeywordExtraction Mode = "keyword_extraction"
)

func (m Mode) Valid() bool {
	return m == ModeFullAnalysis || m == ModeKeywordExtraction
}

// ParseMode accepts the canonical names plus the short aliases used by the CLI.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeFullAnalysis), "full", "analysis":
		return ModeFullAnalysis, nil
	case string(ModeKeywordExtraction), "keywords", "keyword":
		return ModeKeywordExtraction, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// AnalysisRequest is built fresh for every user action and never mutated.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
	Mode           Mode
}

func (r AnalysisRequest) Validate() error {
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, r.Mode)
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return fmt.Errorf("%w: job description is required", ErrInvalidRequest)
	}
	if r.Mode == ModeFullAnalysis && strings.TrimSpace(r.ResumeText) == "" {
		return fmt.Errorf("%w: resume text is required for %s", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// AnalysisResult is the normalized full-analysis payload. Slices are never nil
// and MatchPercentage is always within [0,100].
type AnalysisResult struct {
	MatchPercentage     int      `json:"match_percentage"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	MissingKeywords     []string `json:"missing_keywords"`
	Recommendations     []string `json:"recommendations"`
	Summary             string   `json:"summary"`
}

// KeywordResult is the normalized keyword-extraction payload.
type KeywordResult struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	Qualifications  []string `json:"qualifications"`
	Experience      []string `json:"experience"`
	OtherKeywords   []string `json:"other_keywords"`
}

// Result carries exactly one of Analysis or Keywords, selected by Mode.
// Issues lists every default substitution or coercion made while normalizing.
type Result struct {
	Mode     Mode            `json:"mode"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Keywords *KeywordResult  `json:"keywords,omitempty"`
	Issues   []string        `json:"issues,omitempty"`
}

// Degraded reports whether the model output needed any repair.
func (r *Result) Degraded() bool {
	return r != nil && len(r.Issues) > 0
}
