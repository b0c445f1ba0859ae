package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-advisor/internal/store"
	"equity-advisor/internal/types"
)

func TestOpenAIJudge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format, _ := req["response_format"].(map[string]any)
		assert.Equal(t, "json_object", format["type"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "c1", "object": "chat.completion", "choices": [{"index": 0,
			"message": {"role": "assistant", "content": "{\"recommendation\": \"Strong Buy\", \"confidence\": 0.85, \"reasoning\": \"breakout\"}"},
			"finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	cfg := store.Default()
	cfg.Judge.Model = "gpt-4o-mini"
	cfg.Judge.BaseURL = srv.URL + "/v1"
	j, err := NewOpenAIJudge(cfg, "key")
	require.NoError(t, err)

	rec, err := j.Judge(context.Background(), types.JudgmentPayload{Symbol: "TCS.BSE"})
	require.NoError(t, err)
	assert.Equal(t, types.StrongBuy, rec.Recommendation)
	assert.Equal(t, 0.85, rec.Confidence)
	assert.Equal(t, "breakout", rec.Reasoning)
}

func TestOpenAIJudgeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	}))
	defer srv.Close()

	cfg := store.Default()
	cfg.Judge.BaseURL = srv.URL + "/v1"
	j, err := NewOpenAIJudge(cfg, "key")
	require.NoError(t, err)

	_, err = j.Judge(context.Background(), types.JudgmentPayload{Symbol: "TCS.BSE"})
	assert.Error(t, err)
}
