// Package llm wraps the external generation API behind a provider-neutral
// client and turns queue items into validated content documents.
package llm

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/config"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Usage is the token accounting reported by the provider for one call.
// Providers that report nothing leave both fields zero; cost recording then
// falls back to the pre-call estimate.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Reported returns true when the provider supplied real token counts.
func (u Usage) Reported() bool {
	return u.PromptTokens > 0 || u.CompletionTokens > 0
}

// Model wraps a langchaingo LLM for content generation.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// GenerateWithSystem generates text with a system prompt and returns the
// provider's token usage alongside the completion.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", Usage{}, fmt.Errorf("generate with system: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	return choice.Content, usageFrom(choice.GenerationInfo), nil
}

// GenerateDocument builds the type-specific prompt for a queue item, calls
// the generation API, and parses the completion into a content document.
// The returned document has passed JSON parsing only; schema validation and
// quality gates run downstream.
func (m *Model) GenerateDocument(ctx context.Context, item *models.QueueItem) (*models.Document, Usage, error) {
	systemPrompt, userPrompt, err := BuildPrompt(item)
	if err != nil {
		return nil, Usage{}, err
	}

	raw, usage, err := m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, usage, err
	}

	doc, err := ParseDocument(item.ContentType, raw)
	if err != nil {
		return nil, usage, err
	}
	return doc, usage, nil
}

// usageFrom pulls token counts out of the provider-specific generation info.
// Key names differ per provider; unknown shapes yield zero usage.
func usageFrom(info map[string]any) Usage {
	var u Usage
	for _, key := range []string{"PromptTokens", "InputTokens", "prompt_tokens", "input_tokens"} {
		if n, ok := intFrom(info[key]); ok {
			u.PromptTokens = n
			break
		}
	}
	for _, key := range []string{"CompletionTokens", "OutputTokens", "completion_tokens", "output_tokens"} {
		if n, ok := intFrom(info[key]); ok {
			u.CompletionTokens = n
			break
		}
	}
	return u
}

func intFrom(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
