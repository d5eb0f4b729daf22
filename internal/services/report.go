package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"alfredoptarigan/ats-analyzer/internal/models"
)

const (
	ReportTitle      = "ATS Resume Analysis Report"
	ReportTimeLayout = "2006-01-02 15:04:05"
)

//go:embed templates/report.html
var reportTemplateRaw string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateRaw))

type ReportSection struct {
	Heading string
	Items   []string
}

type Report struct {
	Title           string
	GeneratedAt     string
	MatchPercentage int
	Summary         string
	Sections        []ReportSection
}

// BuildReport lays out a full-analysis result for export. Sections always come
// in the same order and keep the order of their entries.
func BuildReport(result *models.AnalysisResult, generatedAt time.Time) *Report {
	return &Report{
		Title:           ReportTitle,
		GeneratedAt:     generatedAt.Format(ReportTimeLayout),
		MatchPercentage: result.MatchPercentage,
		Summary:         result.Summary,
		Sections: []ReportSection{
			{Heading: "Strengths", Items: result.Strengths},
			{Heading: "Areas for Improvement", Items: result.AreasForImprovement},
			{Heading: "Missing Keywords", Items: result.MissingKeywords},
			{Heading: "Recommendations", Items: result.Recommendations},
		},
	}
}

func RenderHTML(report *Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
