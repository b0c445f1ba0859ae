package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"equity-advisor/internal/types"
)

// ErrMalformedVerdict is returned when a judge reply cannot be turned into a
// recommendation.
var ErrMalformedVerdict = errors.New("malformed verdict")

var verdicts = []types.Verdict{types.StrongBuy, types.Buy, types.Hold, types.Sell, types.StrongSell}

// ParseVerdict extracts the recommendation object from a model reply. The
// reply may be wrapped in a markdown fence or surrounded by prose.
func ParseVerdict(text string) (types.Recommendation, error) {
	body := extractJSON(stripFence(text))
	if body == "" {
		return types.Recommendation{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedVerdict)
	}

	var raw struct {
		Recommendation string   `json:"recommendation"`
		Confidence     *float64 `json:"confidence"`
		Reasoning      string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return types.Recommendation{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}

	v, ok := matchVerdict(raw.Recommendation)
	if !ok {
		return types.Recommendation{}, fmt.Errorf("%w: unknown recommendation %q", ErrMalformedVerdict, raw.Recommendation)
	}
	if raw.Confidence == nil || *raw.Confidence < 0 || *raw.Confidence > 1 {
		return types.Recommendation{}, fmt.Errorf("%w: confidence missing or outside [0,1]", ErrMalformedVerdict)
	}

	return types.Recommendation{
		Recommendation: v,
		Confidence:     *raw.Confidence,
		Reasoning:      strings.TrimSpace(raw.Reasoning),
	}, nil
}

func matchVerdict(s string) (types.Verdict, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for _, v := range verdicts {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return "", false
}

func stripFence(text string) string {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, "```json"); i >= 0 {
		t = t[i+len("```json"):]
	} else if i := strings.Index(t, "```"); i >= 0 {
		t = t[i+3:]
	} else {
		return t
	}
	if j := strings.Index(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

// extractJSON returns the first balanced {...} object, respecting strings.
func extractJSON(t string) string {
	start := strings.Index(t, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(t); i++ {
		c := t[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return t[start : i+1]
			}
		}
	}
	return ""
}
