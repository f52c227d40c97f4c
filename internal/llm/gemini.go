package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"tagsmith/internal/usage"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash-lite"

	defaultTimeout         = 2 * time.Minute
	defaultMaxOutputTokens = 65536

	// Retry policy: up to 5 attempts, exponential backoff starting at 1.5s
	// (delays 1.5s, 3s, 6s, 12s before attempts 2-5).
	defaultMaxRetries = 5
	defaultRetryBase  = 1500 * time.Millisecond

	// How much prompt/response text makes it into debug logs.
	logTextLimit = 4000
)

// promptPrefix wraps the serialized JSON payload into a natural-language
// instruction so the model returns only JSON.
const promptPrefix = "Update and return only the JSON below (no explanations):\n"

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         defaultBaseURL,
		Model:           DefaultModel,
		Timeout:         defaultTimeout,
		MaxOutputTokens: defaultMaxOutputTokens,
		MaxRetries:      defaultMaxRetries,
		RetryBase:       defaultRetryBase,
	}
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	maxRetries      int
	retryBase       time.Duration
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewGeminiClient creates a client from config, filling in defaults for
// any zero fields except the API key.
func NewGeminiClient(config GeminiConfig, logger *zap.Logger) *GeminiClient {
	defaults := DefaultGeminiConfig(config.APIKey)
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = defaults.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxOutputTokens <= 0 {
		config.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryBase <= 0 {
		config.RetryBase = defaults.RetryBase
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiClient{
		apiKey:          config.APIKey,
		baseURL:         config.BaseURL,
		model:           config.Model,
		maxOutputTokens: config.MaxOutputTokens,
		maxRetries:      config.MaxRetries,
		retryBase:       config.RetryBase,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() string {
	return c.model
}

// TransformJSON implements Client. The value is serialized into the prompt,
// and both the network call and the JSON extraction run inside the retry
// loop, so a response that parses on a later attempt still succeeds.
func (c *GeminiClient) TransformJSON(ctx context.Context, instruction string, value any) (json.RawMessage, usage.TokenCounts, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, usage.TokenCounts{}, fmt.Errorf("failed to marshal input value: %w", err)
	}
	prompt := promptPrefix + string(payload)

	var (
		result json.RawMessage
		counts usage.TokenCounts
	)
	err = c.withRetry(ctx, func(ctx context.Context) error {
		text, tc, err := c.generate(ctx, instruction, prompt)
		if err != nil {
			return err
		}
		parsed, err := DecodeJSON(text)
		if err != nil {
			return err
		}
		result, counts = parsed, tc
		return nil
	})
	if err != nil {
		return nil, usage.TokenCounts{}, err
	}
	return result, counts, nil
}

// Generate sends a free-form prompt and returns the raw text response.
// The call is retried under the same policy as TransformJSON.
func (c *GeminiClient) Generate(ctx context.Context, instruction, prompt string) (string, usage.TokenCounts, error) {
	var (
		text   string
		counts usage.TokenCounts
	)
	err := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		text, counts, err = c.generate(ctx, instruction, prompt)
		return err
	})
	if err != nil {
		return "", usage.TokenCounts{}, err
	}
	return text, counts, nil
}

// withRetry runs op up to maxRetries times with exponential backoff.
// The final attempt's error propagates; backoff waits respect ctx.
func (c *GeminiClient) withRetry(ctx context.Context, op func(context.Context) error) error {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := c.attempt(ctx, op)
		if err == nil {
			return nil
		}
		if attempt == c.maxRetries {
			c.logger.Error("model call failed, retries exhausted",
				zap.Int("attempts", attempt),
				zap.Error(err))
			return fmt.Errorf("model call failed after %d attempts: %w", attempt, err)
		}

		delay := c.retryBase * time.Duration(1<<(attempt-1))
		c.logger.Warn("model call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxRetries),
			zap.Duration("backoff", delay),
			zap.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("exhausted retries without returning")
}

// attempt runs op under a per-attempt timeout when the caller supplied
// no deadline of its own.
func (c *GeminiClient) attempt(ctx context.Context, op func(context.Context) error) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.httpClient.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}
	return op(ctx)
}

// generate performs a single generateContent call.
func (c *GeminiClient) generate(ctx context.Context, instruction, prompt string) (string, usage.TokenCounts, error) {
	if c.apiKey == "" {
		return "", usage.TokenCounts{}, fmt.Errorf("API key not configured")
	}

	startTime := time.Now()
	c.logger.Debug("gemini request",
		zap.String("model", c.model),
		zap.String("prompt", truncateForLog(prompt)))

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: []GeminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: GeminiGenerationConfig{
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	if strings.TrimSpace(instruction) != "" {
		reqBody.SystemInstruction = &GeminiContent{
			Parts: []GeminiPart{{Text: instruction}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", usage.TokenCounts{}, fmt.Errorf("rate limit exceeded (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return "", usage.TokenCounts{}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", usage.TokenCounts{}, fmt.Errorf("API error: %s", geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", usage.TokenCounts{}, ErrEmptyResponse
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	text := strings.TrimSpace(result.String())
	if text == "" {
		return "", usage.TokenCounts{}, ErrEmptyResponse
	}

	counts := usage.TokenCounts{
		InputTokens:  geminiResp.UsageMetadata.PromptTokenCount,
		OutputTokens: geminiResp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  geminiResp.UsageMetadata.TotalTokenCount,
	}

	c.logger.Debug("gemini response",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.String("text", truncateForLog(text)),
		zap.Int("input_tokens", counts.InputTokens),
		zap.Int("output_tokens", counts.OutputTokens),
		zap.Int("total_tokens", counts.TotalTokens))

	return text, counts, nil
}

func truncateForLog(s string) string {
	if len(s) <= logTextLimit {
		return s
	}
	return s[:logTextLimit] + " ...[truncated]"
}
