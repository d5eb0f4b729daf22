package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
	"github.com/cohere-ai/cohere-go/v2/option"
)

const DefaultCohereBaseURL = "https://api.cohere.ai"

type cohereService struct {
	client *cohereclient.Client
	model  string
}

// NewCohereService returns a GenerationClient for Cohere's generate endpoint.
// Retries are left to the caller, so the SDK makes a single attempt.
func NewCohereService(baseURL, apiKey, model string, httpClient *http.Client) (GenerationClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohere API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultCohereBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := cohereclient.NewClient(
		option.WithToken(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")),
		option.WithHTTPClient(httpClient),
		option.WithMaxAttempts(1),
	)

	return &cohereService{client: client, model: model}, nil
}

func (c *cohereService) Provider() string { return "cohere" }

func (c *cohereService) Model() string { return c.model }

// Generate implements GenerationClient.
func (c *cohereService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	model := c.model
	temperature := float64(req.Temperature)
	likelihoods := cohere.GenerateRequestReturnLikelihoods("NONE")

	genReq := &cohere.GenerateRequest{
		Prompt:            req.Prompt,
		Model:             &model,
		Temperature:       &temperature,
		StopSequences:     []string{},
		ReturnLikelihoods: &likelihoods,
	}
	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		genReq.MaxTokens = &maxTokens
	}

	resp, err := c.client.Generate(ctx, genReq)
	if err != nil {
		return "", c.fail(cohereErrorKind(ctx, err), err)
	}

	if len(resp.Generations) == 0 {
		return "", c.fail(GenerationProvider, fmt.Errorf("no generations in response"))
	}
	text := resp.Generations[0].Text
	if strings.TrimSpace(text) == "" {
		return "", c.fail(GenerationProvider, fmt.Errorf("empty completion"))
	}

	return text, nil
}

// cohereErrorKind reads the status code off the SDK's typed errors, which
// all wrap a core.APIError. Anything else never got a response.
func cohereErrorKind(ctx context.Context, err error) GenerationErrorKind {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.StatusCode)
	}
	return kindForTransport(ctx, err)
}

func (c *cohereService) fail(kind GenerationErrorKind, err error) error {
	return &GenerationError{Kind: kind, Provider: c.Provider(), Cause: err}
}
