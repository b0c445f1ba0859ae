package advisorobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-advisor/internal/logger"
	"equity-advisor/internal/types"
)

type stubAdvisor struct {
	requestIDs []string
	err        error
}

func (s *stubAdvisor) record(ctx context.Context) {
	id, _ := logger.RequestID(ctx)
	s.requestIDs = append(s.requestIDs, id)
}

func (s *stubAdvisor) Report(ctx context.Context, ticker string) (*types.StockReport, error) {
	s.record(ctx)
	return &types.StockReport{Symbol: ticker}, s.err
}

func (s *stubAdvisor) Predict(ctx context.Context, ticker string) (*types.Prediction, error) {
	s.record(ctx)
	return &types.Prediction{Symbol: ticker}, s.err
}

func (s *stubAdvisor) Search(ctx context.Context, query string) ([]types.SymbolMatch, error) {
	s.record(ctx)
	return []types.SymbolMatch{{Symbol: query}}, s.err
}

func (s *stubAdvisor) News(ctx context.Context, ticker string) (*types.NewsReport, error) {
	s.record(ctx)
	return &types.NewsReport{Symbol: ticker}, s.err
}

func TestEachRequestGetsItsOwnID(t *testing.T) {
	stub := &stubAdvisor{}
	adv := Wrap(stub)
	ctx := context.Background()

	_, err := adv.Report(ctx, "TCS")
	require.NoError(t, err)
	_, err = adv.Predict(ctx, "TCS")
	require.NoError(t, err)
	_, err = adv.Search(ctx, "TC")
	require.NoError(t, err)
	_, err = adv.News(ctx, "TCS")
	require.NoError(t, err)

	require.Len(t, stub.requestIDs, 4)
	seen := map[string]bool{}
	for _, id := range stub.requestIDs {
		_, perr := uuid.Parse(id)
		assert.NoError(t, perr)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestErrorsAndPartialResultsPassThrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.InitWithConfig(logger.LogConfig{Level: "INFO", Format: "json", Output: &buf}))

	boom := errors.New("no data")
	report, err := Wrap(&stubAdvisor{err: boom}).Report(context.Background(), "NOPE")
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, report)
	assert.Equal(t, "NOPE", report.Symbol)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, "ERROR", last["level"])
	assert.NotEmpty(t, last["request_id"])
}
