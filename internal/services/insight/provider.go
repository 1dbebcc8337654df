package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	logpkg "github.com/hyunwkim/dailytodo/internal/logger"
)

const (
	// DefaultModel is the default generation model
	DefaultModel = "gpt-4o-mini"
	// DefaultBaseURL is the default API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultAttemptTimeout bounds a single generation attempt
	DefaultAttemptTimeout = 40 * time.Second
	// DefaultMaxOutputTokens bounds the generated insight text
	DefaultMaxOutputTokens = 1024
	// probeMaxTokens bounds the connectivity probe response
	probeMaxTokens = 8
)

// TextGenerator is the external text-generation call the generator depends
// on. Implementations return the generated free text or an error.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int64) (string, error)
}

// OpenAIProvider implements TextGenerator using an OpenAI-compatible chat
// completion API.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a provider for the given key, base URL and model.
// Empty baseURL and model fall back to the OpenAI defaults.
func NewOpenAIProvider(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultAttemptTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// Model returns the configured model name
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Generate performs one bounded generation attempt
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultAttemptTimeout)
	defer cancel()

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt", logpkg.SanitizeDebugContent(prompt)),
			zap.Int64("max_tokens", maxTokens),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(p.model),
		MaxCompletionTokens: openai.Int(maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	latency := time.Since(start)

	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("model", p.model),
				zap.String("error", logpkg.SanitizeError(err)),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response", logpkg.SanitizeDebugContent(content)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return content, nil
}

// Probe fires a tiny generation request to verify the configured key and
// model are usable.
func (p *OpenAIProvider) Probe(ctx context.Context) error {
	_, err := p.Generate(ctx, "Connectivity test. Reply with the single digit 2.", probeMaxTokens)
	if err != nil {
		return fmt.Errorf("generation probe failed: %w", err)
	}
	return nil
}
