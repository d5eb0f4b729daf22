package analysis

import (
	"fmt"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// BuildPrompt creates the instruction sent to the generation model. Both
// inputs are embedded verbatim and the output is a pure function of the
// arguments.
func BuildPrompt(resumeText, jobDescription string, mode models.Mode) (string, error) {
	schema, err := SchemaFor(mode)
	if err != nil {
		return "", err
	}

	switch mode {
	case models.ModeKeywordExtraction:
		return buildKeywordPrompt(resumeText, jobDescription, schema), nil
	default:
		return buildAnalysisPrompt(resumeText, jobDescription, schema), nil
	}
}

func buildAnalysisPrompt(resumeText, jobDescription string, schema Schema) string {
	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) analyzer. Analyze the following resume against the job description.

Resume:
%s

Job Description:
%s

Provide a detailed analysis including:
1. Overall match percentage
2. Strengths of the candidate
3. Areas for improvement
4. Missing key skills or keywords
5. Recommendations for improvement

Format your response as JSON with the following structure:
%s

Respond with a single JSON object and nothing else.`,
		resumeText, jobDescription, schema.Skeleton())
}

func buildKeywordPrompt(resumeText, jobDescription string, schema Schema) string {
	return fmt.Sprintf(`You are an expert in job requirements analysis. Extract the most important skills, qualifications, and keywords from the following job description.

Job Description:
%s

Candidate Resume (context only, extract keywords from the job description, not from the resume):
%s

Provide your response as a JSON object with the following structure:
%s

Respond with a single JSON object and nothing else.`,
		jobDescription, resumeText, schema.Skeleton())
}
