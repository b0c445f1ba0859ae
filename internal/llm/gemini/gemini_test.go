package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-advisor/internal/llm"
	"equity-advisor/internal/store"
	"equity-advisor/internal/types"
)

func TestGeminiJudge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gen, _ := req["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gen["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [
			{"text": "{\"recommendation\": \"Buy\", \"confidence\": 0.66, \"reasoning\": \"uptrend\"}"}
		]}}]}`))
	}))
	defer srv.Close()

	cfg := store.Default()
	cfg.Judge.BaseURL = srv.URL
	j, err := NewGeminiJudge(context.Background(), cfg, "key")
	require.NoError(t, err)

	rec, err := j.Judge(context.Background(), types.JudgmentPayload{Symbol: "TCS.BSE"})
	require.NoError(t, err)
	assert.Equal(t, types.Recommendation{Recommendation: types.Buy, Confidence: 0.66, Reasoning: "uptrend"}, rec)
}

func TestGeminiJudgeNeedsKey(t *testing.T) {
	_, err := NewGeminiJudge(context.Background(), store.Default(), "")
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)
}
