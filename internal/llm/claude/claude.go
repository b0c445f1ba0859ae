package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/llm"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/store"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

// ClaudeJudge asks Anthropic Claude for a verdict through the Messages API.
type ClaudeJudge struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float32
	timeout     time.Duration
}

var _ interfaces.Judge = (*ClaudeJudge)(nil)

func NewClaudeJudge(cfg *store.Config, apiKey string) (*ClaudeJudge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude: %w", llm.ErrNoAPIKey)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// One attempt per request; a failed judgment falls back to Hold.
		option.WithMaxRetries(0),
	}
	if cfg.Judge.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Judge.BaseURL))
	}
	return &ClaudeJudge{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Judge.Model,
		maxTokens:   int64(cfg.Judge.MaxTokens),
		temperature: cfg.Judge.Temperature,
		timeout:     cfg.Judge.Timeout,
	}, nil
}

func (j *ClaudeJudge) Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()
	ctx, cancel := llm.WithDeadline(ctx, j.timeout)
	defer cancel()

	prompt, err := llm.BuildPrompt(payload)
	if err != nil {
		return types.Recommendation{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: j.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: llm.SystemPrompt},
		},
	}
	if j.temperature > 0 {
		params.Temperature = anthropic.Float(float64(j.temperature))
	}

	logger.Debug(ctx, "Claude judge called", "symbol", payload.Symbol, "model", j.model)
	resp, err := j.client.Messages.New(ctx, params)
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("claude messages: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return types.Recommendation{}, errors.New("empty response from Claude API")
	}
	return llm.ParseVerdict(text.String())
}
