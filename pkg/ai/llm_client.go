package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrEmptyResponse = errors.New("empty response")

const systemPrompt = "You are an experienced catering sales manager. Write warm, specific, professional proposals in Markdown."

type llmGenerator struct {
	name    string
	model   llms.Model
	timeout time.Duration
}

// NewLLM wraps any langchaingo model as a Generator.
func NewLLM(name string, model llms.Model) Generator {
	return &llmGenerator{name: name, model: model, timeout: 45 * time.Second}
}

func NewAnthropic(key, model string) (Generator, error) {
	m, err := anthropic.New(anthropic.WithToken(key), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("anthropic client: %w", err)
	}
	return NewLLM("anthropic", m), nil
}

func NewGemini(ctx context.Context, key, model string) (Generator, error) {
	m, err := googleai.New(ctx, googleai.WithAPIKey(key), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return NewLLM("gemini", m), nil
}

// NewOpenAICompatible talks to any OpenAI-style chat endpoint.
func NewOpenAICompatible(endpoint, key, model string) (Generator, error) {
	m, err := openai.New(
		openai.WithBaseURL(strings.TrimRight(endpoint, "/")+"/v1"),
		openai.WithToken(key),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("openai-compatible client: %w", err)
	}
	return NewLLM("openai", m), nil
}

func (g *llmGenerator) Name() string { return g.name }

func (g *llmGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, llms.WithTemperature(0.4), llms.WithMaxTokens(2048))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
