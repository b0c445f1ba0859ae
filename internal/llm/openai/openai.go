package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/llm"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/store"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

// OpenAIJudge asks an OpenAI chat model for a verdict in JSON object mode.
type OpenAIJudge struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

var _ interfaces.Judge = (*OpenAIJudge)(nil)

func NewOpenAIJudge(cfg *store.Config, apiKey string) (*OpenAIJudge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", llm.ErrNoAPIKey)
	}
	oc := openai.DefaultConfig(apiKey)
	if cfg.Judge.BaseURL != "" {
		oc.BaseURL = cfg.Judge.BaseURL
	}
	return &OpenAIJudge{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Judge.Model,
		maxTokens:   cfg.Judge.MaxTokens,
		temperature: cfg.Judge.Temperature,
		timeout:     cfg.Judge.Timeout,
	}, nil
}

func (j *OpenAIJudge) Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()
	ctx, cancel := llm.WithDeadline(ctx, j.timeout)
	defer cancel()

	prompt, err := llm.BuildPrompt(payload)
	if err != nil {
		return types.Recommendation{}, err
	}

	logger.Debug(ctx, "OpenAI judge called", "symbol", payload.Symbol, "model", j.model)
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       j.model,
		MaxTokens:   j.maxTokens,
		Temperature: j.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return types.Recommendation{}, errors.New("no choices")
	}
	return llm.ParseVerdict(resp.Choices[0].Message.Content)
}
