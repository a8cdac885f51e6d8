package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"alfredoptarigan/resume-parser/internal/config"
)

// ModelInvoker sends resume text to the hosted model and returns its raw answer.
type ModelInvoker interface {
	Invoke(ctx context.Context, resumeText string) (string, error)
}

// contentGenerator is the part of *genai.Models the invoker uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	generator       contentGenerator
	modelName       string
	temperature     float32
	maxOutputTokens int32
	promptBuilder   *PromptBuilder
}

// NewGeminiService builds the invoker. A missing API key is not an error
// here; it surfaces as a ModelError on the first Invoke.
func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, promptBuilder *PromptBuilder) (ModelInvoker, error) {
	svc := &geminiService{
		modelName:       cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		promptBuilder:   promptBuilder,
	}
	if svc.modelName == "" {
		svc.modelName = "gemini-2.5-flash"
	}

	if cfg.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set, resume parsing requests will fail")
		return svc, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.generator = client.Models

	return svc, nil
}

// Invoke implements ModelInvoker.
func (g *geminiService) Invoke(ctx context.Context, resumeText string) (string, error) {
	if g.generator == nil {
		return "", &ModelError{Message: "configuration", Cause: ErrMissingAPIKey}
	}

	temperature := g.temperature
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.promptBuilder.BuildSystemInstruction(), genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   g.maxOutputTokens,
		ResponseMIMEType:  "application/json",
	}

	prompt := g.promptBuilder.BuildUserPrompt(resumeText)
	log.Ctx(ctx).Debug().Str("model", g.modelName).Int("prompt_chars", len(prompt)).Msg("Calling Gemini")

	resp, err := g.generator.GenerateContent(ctx, g.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return "", &ModelError{Message: "generate content", Cause: err}
	}
	if resp == nil {
		return "", &ModelError{Message: "no response generated (nil response)"}
	}

	text := resp.Text()
	log.Ctx(ctx).Debug().Int("response_chars", len(text)).Msg("Gemini response received")

	// An empty answer is left to the normalizer, which degrades it to the
	// all-default profile.
	return text, nil
}
