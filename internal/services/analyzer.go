package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/analysis"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
)

const DefaultGenerationTimeout = 60 * time.Second

type AnalyzerService interface {
	Analyze(ctx context.Context, sessionID uuid.UUID, req models.AnalysisRequest) (*models.Result, error)
}

type analyzerService struct {
	runRepo   repositories.AnalysisRunRepository
	generator GenerationClient
	timeout   time.Duration
}

func NewAnalyzerService(
	runRepo repositories.AnalysisRunRepository,
	generator GenerationClient,
	timeout time.Duration,
) AnalyzerService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &analyzerService{
		runRepo:   runRepo,
		generator: generator,
		timeout:   timeout,
	}
}

// Analyze runs one request end to end. It never touches session state; the
// caller decides what to do with the result or the error.
func (a *analyzerService) Analyze(ctx context.Context, sessionID uuid.UUID, req models.AnalysisRequest) (*models.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schema, err := analysis.SchemaFor(req.Mode)
	if err != nil {
		return nil, err
	}

	prompt, err := analysis.BuildPrompt(req.ResumeText, req.JobDescription, req.Mode)
	if err != nil {
		return nil, err
	}
	log.Printf("📝 %s prompt length: %d characters", req.Mode, len(prompt))

	run := &models.AnalysisRun{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Mode:        req.Mode,
		Status:      models.RunStatusProcessing,
		Provider:    a.generator.Provider(),
		Model:       a.generator.Model(),
		PromptChars: len(prompt),
	}
	if err := a.runRepo.Create(run); err != nil {
		log.Printf("⚠️  Failed to record analysis run: %v", err)
	}

	started := time.Now()

	log.Printf("🤖 Sending %s request to %s", req.Mode, run.Provider)
	raw, err := a.generate(ctx, GenerationRequest{
		Prompt:      prompt,
		MaxTokens:   schema.MaxTokens,
		Temperature: analysis.Temperature,
	})
	if err != nil {
		a.failRun(run.ID, err, "", started)
		log.Printf("❌ Generation failed for session %s: %v", sessionID, err)
		return nil, err
	}
	log.Printf("✅ Response received: %d characters", len(raw))

	parsed, err := analysis.ParseResponse(raw)
	if err != nil {
		a.failRun(run.ID, err, raw, started)
		log.Printf("❌ Failed to parse %s response: %v", req.Mode, err)
		return nil, err
	}

	result := analysis.Normalize(parsed, req.Mode)
	if result.Degraded() {
		log.Printf("⚠️  Normalized %s result with %d issue(s)", req.Mode, len(result.Issues))
	}

	if err := a.runRepo.UpdateResult(run.ID, &repositories.RunResultData{
		ResponseChars: len(raw),
		DurationMs:    time.Since(started).Milliseconds(),
		Degraded:      result.Degraded(),
	}); err != nil {
		log.Printf("⚠️  Failed to complete analysis run %s: %v", run.ID, err)
	}

	return result, nil
}

// generate runs the provider call under the configured timeout. The call gets
// its own goroutine so a client that ignores cancellation still cannot hold the
// request open past the deadline.
func (a *analyzerService) generate(ctx context.Context, req GenerationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		text, err := a.generator.Generate(ctx, req)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", &GenerationError{
			Kind:     kindForTransport(ctx, ctx.Err()),
			Provider: a.generator.Provider(),
			Cause:    fmt.Errorf("no response within %s: %w", a.timeout, ctx.Err()),
		}
	}
}

func (a *analyzerService) failRun(id uuid.UUID, err error, raw string, started time.Time) {
	kind := ErrorKind(err)
	message := err.Error()
	data := &repositories.RunFailureData{
		ErrorKind:     kind,
		ErrorMessage:  message,
		ResponseChars: len(raw),
		DurationMs:    time.Since(started).Milliseconds(),
	}
	if rawOut, ok := analysis.RawOutput(err); ok {
		data.RawOutput = &rawOut
	}
	if updateErr := a.runRepo.UpdateError(id, data); updateErr != nil {
		log.Printf("⚠️  Failed to mark analysis run %s as failed: %v", id, updateErr)
	}
}

// ErrorKind names the failure category of an analysis error.
func ErrorKind(err error) string {
	var (
		extractErr   *ExtractionError
		genErr       *GenerationError
		noJSONErr    *analysis.NoJSONFoundError
		malformedErr *analysis.MalformedJSONError
		shapeErr     *analysis.UnexpectedShapeError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrInvalidRequest):
		return "validation"
	case errors.As(err, &extractErr):
		return "extraction"
	case errors.As(err, &genErr):
		return string(genErr.Kind)
	case errors.As(err, &noJSONErr):
		return "no_json_found"
	case errors.As(err, &malformedErr):
		return "malformed_json"
	case errors.As(err, &shapeErr):
		return "unexpected_shape"
	default:
		return "internal"
	}
}
