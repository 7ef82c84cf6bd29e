package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const anthropicVersion = "bedrock-2023-05-31"

// BedrockConfig defines configuration options for the Bedrock invoker.
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// BedrockInvoker implements Invoker against the AWS Bedrock runtime using the
// Anthropic messages request shape.
type BedrockInvoker struct {
	client *bedrockruntime.Client
	cfg    BedrockConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewBedrockInvoker builds a Bedrock invoker, resolving AWS credentials from
// the default chain.
func NewBedrockInvoker(ctx context.Context, cfg BedrockConfig) (*BedrockInvoker, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	if cfg.ModelID == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockInvoker{
		client: bedrockruntime.NewFromConfig(awsCfg),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/gradeflow/gradeflow-api/pkg/ai/bedrock"),
		logger: cfg.Logger.With().Str("component", "bedrock_invoker").Logger(),
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Invoke sends the prompt as a single user turn and returns the raw reply
// text. The call is bounded by the configured timeout; expiry surfaces as
// ErrUnavailable.
func (b *BedrockInvoker) Invoke(parent context.Context, prompt string) (string, error) {
	ctx, span := b.tracer.Start(parent, "bedrock.invoke", trace.WithAttributes(
		attribute.String("model", b.cfg.ModelID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        b.cfg.MaxTokens,
		Messages:         []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal bedrock request: %w", err)
	}

	start := time.Now()
	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.cfg.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	invokeDuration.WithLabelValues("bedrock", b.cfg.ModelID).Observe(time.Since(start).Seconds())
	if err != nil {
		invokeFailures.WithLabelValues("bedrock", b.cfg.ModelID).Inc()
		classified := classifyBedrockError(err)
		span.RecordError(classified)
		span.SetStatus(codes.Error, classified.Error())
		b.logger.Error().Err(err).Msg("bedrock invocation failed")
		return "", classified
	}

	var response anthropicResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		invokeFailures.WithLabelValues("bedrock", b.cfg.ModelID).Inc()
		span.SetStatus(codes.Error, "malformed response body")
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	if builder.Len() == 0 {
		invokeFailures.WithLabelValues("bedrock", b.cfg.ModelID).Inc()
		span.SetStatus(codes.Error, "empty content")
		return "", fmt.Errorf("%w: no text content in reply", ErrMalformed)
	}

	return builder.String(), nil
}

func classifyBedrockError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException", "InvalidSignatureException":
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
