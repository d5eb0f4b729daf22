package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
)

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(apiKey, modelName string) (GenerationClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *geminiService) Provider() string { return "gemini" }

func (g *geminiService) Model() string { return g.modelName }

// Generate implements GenerationClient.
func (g *geminiService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", &GenerationError{Kind: geminiErrorKind(ctx, err), Provider: g.Provider(), Cause: err}
	}

	if resp == nil {
		return "", &GenerationError{Kind: GenerationProvider, Provider: g.Provider(), Cause: fmt.Errorf("nil response")}
	}

	text := resp.Text()
	if text == "" {
		return "", &GenerationError{Kind: GenerationProvider, Provider: g.Provider(), Cause: fmt.Errorf("no text content in response")}
	}

	return text, nil
}

func geminiErrorKind(ctx context.Context, err error) GenerationErrorKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.Code)
	}
	return kindForTransport(ctx, err)
}
