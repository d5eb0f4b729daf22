package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/ats-analyzer/internal/analysis"
	"alfredoptarigan/ats-analyzer/internal/config"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
	"alfredoptarigan/ats-analyzer/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "analyze",
	Short:         "Analyze a resume against a job description",
	Long:          "Extracts the resume text, asks the configured LLM provider for an ATS analysis or keyword extraction, and prints the normalized result as JSON.",
	RunE:          runAnalyze,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var (
	resumeFile string
	jobFile    string
	modeFlag   string
	reportFile string
)

func init() {
	rootCmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to the resume (PDF, DOCX or TXT)")
	rootCmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to a text file with the job description")
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", string(models.ModeFullAnalysis), "full_analysis or keyword_extraction")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "Write a report to this path (.pdf or .html); full_analysis only")
	_ = rootCmd.MarkFlagRequired("job")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	mode, err := models.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	if reportFile != "" && mode != models.ModeFullAnalysis {
		return fmt.Errorf("--report requires --mode %s", models.ModeFullAnalysis)
	}

	cfg := config.Load()

	jobDescription, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	var resumeText string
	if resumeFile != "" {
		data, err := os.ReadFile(resumeFile)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		parser := services.NewPDFParserService()
		resumeText, err = parser.ExtractResumeText(services.DetectMimeType(resumeFile, data), data)
		if err != nil {
			return err
		}
	}

	generator, err := services.NewGenerationClient(services.ProviderConfig{
		Provider:      cfg.LLM.Provider,
		CohereAPIKey:  cfg.LLM.CohereAPIKey,
		CohereModel:   cfg.LLM.CohereModel,
		CohereBaseURL: cfg.LLM.CohereBaseURL,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		GeminiModel:   cfg.LLM.GeminiModel,
	})
	if err != nil {
		return err
	}

	analyzer := services.NewAnalyzerService(
		repositories.NewNopAnalysisRunRepository(),
		generator,
		cfg.LLM.GenerationTimeout,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := analyzer.Analyze(ctx, uuid.New(), models.AnalysisRequest{
		ResumeText:     resumeText,
		JobDescription: string(jobDescription),
		Mode:           mode,
	})
	if err != nil {
		if raw, ok := analysis.RawOutput(err); ok {
			fmt.Fprintf(os.Stderr, "Raw model output:\n%s\n", raw)
		}
		return err
	}

	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")
	if err := out.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if reportFile != "" {
		return writeReport(ctx, cfg, result.Analysis, reportFile)
	}
	return nil
}

func writeReport(ctx context.Context, cfg *config.Config, result *models.AnalysisResult, path string) error {
	html, err := services.RenderHTML(services.BuildReport(result, time.Now()))
	if err != nil {
		return err
	}

	content := []byte(html)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err = services.NewChromedpRenderer(cfg.Report.ChromePath).RenderHTMLToPDF(ctx, html)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	return nil
}
