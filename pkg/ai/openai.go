package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI invoker.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// OpenAIInvoker implements Invoker against the OpenAI chat completion API.
type OpenAIInvoker struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIInvoker builds a new invoker using the provided configuration.
func NewOpenAIInvoker(cfg OpenAIConfig) (*OpenAIInvoker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &OpenAIInvoker{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/gradeflow/gradeflow-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_invoker").Logger(),
	}, nil
}

// Invoke sends the prompt as a single user turn and returns the raw reply text.
func (o *OpenAIInvoker) Invoke(parent context.Context, prompt string) (string, error) {
	ctx, span := o.tracer.Start(parent, "openai.invoke", trace.WithAttributes(
		attribute.String("model", o.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	invokeDuration.WithLabelValues("openai", o.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		invokeFailures.WithLabelValues("openai", o.cfg.Model).Inc()
		classified := classifyOpenAIError(err)
		span.RecordError(classified)
		span.SetStatus(codes.Error, classified.Error())
		o.logger.Error().Err(err).Msg("openai invocation failed")
		return "", classified
	}

	if len(resp.Choices) == 0 {
		invokeFailures.WithLabelValues("openai", o.cfg.Model).Inc()
		span.SetStatus(codes.Error, "no choices")
		return "", fmt.Errorf("%w: no choices returned", ErrMalformed)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		invokeFailures.WithLabelValues("openai", o.cfg.Model).Inc()
		span.SetStatus(codes.Error, "empty content")
		return "", fmt.Errorf("%w: empty reply content", ErrMalformed)
	}

	return content, nil
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
