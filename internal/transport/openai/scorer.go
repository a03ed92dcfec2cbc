package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/domain"
)

const systemPrompt = `You score the sentiment of product reviews and short texts.
Reply with a single JSON object and nothing else:
{"polarity": <number from -1 (very negative) to 1 (very positive)>, "subjectivity": <number from 0 (factual) to 1 (opinion)>}`

// Scorer is a sentiment scorer backed by an OpenAI-compatible chat completion API.
type Scorer struct {
	client    *openai.Client
	model     string
	maxTokens int
	user      string
	logger    *zap.Logger
}

// Config holds the chat completion settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	User      string
	Logger    *zap.Logger
}

// NewScorer creates an OpenAI-compatible sentiment scorer.
func NewScorer(cfg *Config) *Scorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Scorer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		user:      cfg.User,
		logger:    log,
	}
}

// Score implements domain.Scorer. Out-of-range values are clamped.
func (s *Scorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: s.maxTokens,
		User:      s.user,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Sentiment{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return domain.Sentiment{}, fmt.Errorf("empty completion response: %w", domain.ErrScorerUnavailable)
	}

	sent, err := parseSentiment(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Debug("unparseable scorer reply",
			zap.String("model", s.model),
			zap.String("content", resp.Choices[0].Message.Content),
		)
		return domain.Sentiment{}, err
	}
	return sent, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Scorer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseSentiment decodes the model reply, tolerating a markdown code fence around the JSON.
func parseSentiment(content string) (domain.Sentiment, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Polarity     *float64 `json:"polarity"`
		Subjectivity *float64 `json:"subjectivity"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return domain.Sentiment{}, fmt.Errorf("decode scorer reply: %w", domain.ErrScorerUnavailable)
	}
	if parsed.Polarity == nil || parsed.Subjectivity == nil {
		return domain.Sentiment{}, fmt.Errorf("scorer reply misses polarity or subjectivity: %w", domain.ErrScorerUnavailable)
	}

	return domain.Sentiment{
		Polarity:     clamp(*parsed.Polarity, -1, 1),
		Subjectivity: clamp(*parsed.Subjectivity, 0, 1),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrScorerUnavailable for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrScorerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("scorer API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("scorer API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("scorer API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("scorer request: %w: %w", err, wrap)
	}
	return fmt.Errorf("scorer request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
