package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/llm"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/store"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

// GeminiJudge asks Gemini for a verdict in JSON response mode.
type GeminiJudge struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
}

var _ interfaces.Judge = (*GeminiJudge)(nil)

func NewGeminiJudge(ctx context.Context, cfg *store.Config, apiKey string) (*GeminiJudge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrNoAPIKey)
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Judge.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Judge.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiJudge{
		client:      client,
		model:       cfg.Judge.Model,
		temperature: cfg.Judge.Temperature,
		maxTokens:   int32(cfg.Judge.MaxTokens),
		timeout:     cfg.Judge.Timeout,
	}, nil
}

func (j *GeminiJudge) Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()
	ctx, cancel := llm.WithDeadline(ctx, j.timeout)
	defer cancel()

	prompt, err := llm.BuildPrompt(payload)
	if err != nil {
		return types.Recommendation{}, err
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(j.temperature),
		MaxOutputTokens:   j.maxTokens,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(llm.SystemPrompt, genai.RoleUser),
	}

	logger.Debug(ctx, "Gemini judge called", "symbol", payload.Symbol, "model", j.model)
	resp, err := j.client.Models.GenerateContent(ctx, j.model, genai.Text(prompt), config)
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("gemini generate: %w", err)
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			text.WriteString(part.Text)
		}
		break
	}
	if text.Len() == 0 {
		return types.Recommendation{}, errors.New("empty response from Gemini")
	}
	return llm.ParseVerdict(text.String())
}
