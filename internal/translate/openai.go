package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"subgen/internal/language"
	"subgen/internal/services"
)

const providerOpenAI = "openai"

const systemPrompt = `You translate SubRip (SRT) subtitle files.
Translate every subtitle text line into %s.
Keep cue numbers, timestamp lines and blank lines exactly as they are.
Reply with the translated SRT document only, without commentary or code fences.`

// OpenAIConfig captures the settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// OpenAI translates with a chat completion model.
type OpenAI struct {
	model  string
	client *openai.Client
	opts   options
}

// NewOpenAI constructs a chat completion translator.
func NewOpenAI(cfg OpenAIConfig, opts ...Option) *OpenAI {
	o := newOptions(cfg.TimeoutSeconds, opts)
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = base
	}
	clientCfg.HTTPClient = o.httpClient
	return &OpenAI{
		model:  strings.TrimSpace(cfg.Model),
		client: openai.NewClientWithConfig(clientCfg),
		opts:   o,
	}
}

// Translate asks the model for a translated copy of text.
func (c *OpenAI) Translate(ctx context.Context, text string, target language.Language) (string, error) {
	if err := checkTarget(providerOpenAI, target); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, target.String())},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}
	out, err := c.opts.withRetry(ctx, "openai request", func(ctx context.Context) (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("response contained no choices")
		}
		content := stripCodeFence(resp.Choices[0].Message.Content)
		if content == "" {
			return "", errors.New("response content was empty")
		}
		return content, nil
	})
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, "translate", providerOpenAI, "translate to "+target.Code(), err)
	}
	return out, nil
}

// HealthCheck lists models to confirm the endpoint and credentials work.
func (c *OpenAI) HealthCheck(ctx context.Context) error {
	models, err := c.client.ListModels(ctx)
	if err != nil {
		return services.Wrap(services.ErrTranslation, "status", providerOpenAI, "list models", classifyOpenAIError(err))
	}
	if c.model == "" {
		return nil
	}
	for _, m := range models.Models {
		if m.ID == c.model {
			return nil
		}
	}
	return services.Wrap(services.ErrTranslation, "status", providerOpenAI, fmt.Sprintf("model %q not offered by endpoint", c.model), nil)
}

type openAIStatusError struct {
	status int
	err    error
}

func (e *openAIStatusError) Error() string { return e.err.Error() }
func (e *openAIStatusError) Unwrap() error { return e.err }
func (e *openAIStatusError) HTTPStatus() int { return e.status }

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &openAIStatusError{status: apiErr.HTTPStatusCode, err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &openAIStatusError{status: reqErr.HTTPStatusCode, err: err}
	}
	return err
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
