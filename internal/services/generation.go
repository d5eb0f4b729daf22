package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type GenerationErrorKind string

const (
	GenerationNetwork   GenerationErrorKind = "network"
	GenerationAuth      GenerationErrorKind = "auth"
	GenerationRateLimit GenerationErrorKind = "rate_limit"
	GenerationTimeout   GenerationErrorKind = "timeout"
	GenerationProvider  GenerationErrorKind = "provider"
)

// GenerationError wraps every failure of the text-generation call.
type GenerationError struct {
	Kind     GenerationErrorKind
	Provider string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed (%s): %v", e.Provider, e.Kind, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// GenerationRequest carries the per-call parameters. Stop sequences are always
// empty.
type GenerationRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// GenerationClient sends one prompt to an external model and returns the raw
// completion text.
type GenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Provider() string
	Model() string
}

// kindForStatus maps an HTTP status code from a provider to an error kind.
func kindForStatus(code int) GenerationErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return GenerationAuth
	case code == http.StatusTooManyRequests:
		return GenerationRateLimit
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return GenerationTimeout
	default:
		return GenerationProvider
	}
}

// kindForTransport classifies errors raised before a response was received.
func kindForTransport(ctx context.Context, err error) GenerationErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return GenerationTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return GenerationTimeout
	}
	return GenerationNetwork
}

type ProviderConfig struct {
	Provider      string
	CohereAPIKey  string
	CohereModel   string
	CohereBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
}

// NewGenerationClient picks the provider named in the config. Cohere is the
// default.
func NewGenerationClient(cfg ProviderConfig) (GenerationClient, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "cohere", "":
		return NewCohereService(cfg.CohereBaseURL, cfg.CohereAPIKey, cfg.CohereModel, nil)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
