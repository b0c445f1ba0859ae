package normalize

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestParseOptionalFloat(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		want  float64
		valid bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"string", " 101.25 ", 101.25, true},
		{"grouped string", "1,234.50", 1234.5, true},
		{"json number", json.Number("3.5"), 3.5, true},
		{"nil", nil, 0, false},
		{"None placeholder", "None", 0, false},
		{"dash placeholder", "-", 0, false},
		{"garbage", "abc", 0, false},
		{"nan", math.NaN(), 0, false},
		{"infinite", math.Inf(1), 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptionalFloat(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.Float64, 1e-9)
			}
		})
	}
}

func TestSeriesAlphaVantageRows(t *testing.T) {
	rows := []RawRow{
		AlphaVantageRow{Date: "2024-01-02", Values: map[string]string{
			"1. open": "100", "2. high": "105", "3. low": "99", "4. close": "104", "5. volume": "1500",
		}},
		AlphaVantageRow{Date: "2024-01-03", Values: map[string]string{
			"1. open": "oops", "4. close": "106", "5. volume": "2000",
		}},
		AlphaVantageRow{Date: "2024-01-04", Values: map[string]string{
			"1. open": "107", "4. close": "None",
		}},
	}

	bars := Series(rows)
	require.Len(t, bars, 2)
	assert.Equal(t, date("2024-01-03"), bars[0].Date)
	assert.Equal(t, 0.0, bars[0].Open, "unparseable open falls back to zero")
	assert.Equal(t, 106.0, bars[0].Close)
	assert.Equal(t, int64(2000), bars[0].Volume)
	assert.Equal(t, 105.0, bars[1].High)
}

func TestSeriesYahooColumns(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 15, 0, 0, IST).Unix()
	day2 := time.Date(2024, 3, 4, 9, 15, 0, 0, IST).Unix()
	day3 := time.Date(2024, 3, 5, 9, 15, 0, 0, IST).Unix()

	chart := YahooChart{
		Timestamps: []int64{day1, day2, day3},
		Open:       []any{10.0, 11.0, nil},
		High:       []any{10.5, 11.5, nil},
		Low:        []any{9.5, 10.5, nil},
		Close:      []any{10.2, 11.2, nil},
		Volume:     []any{1000.0, nil},
	}

	bars := Series(chart.Rows())
	require.Len(t, bars, 2)
	assert.Equal(t, date("2024-03-04"), bars[0].Date)
	assert.Equal(t, int64(0), bars[0].Volume)
	assert.Equal(t, date("2024-03-01"), bars[1].Date)
	assert.Equal(t, 10.2, bars[1].Close)
}

func TestSeriesNSERows(t *testing.T) {
	payload := `[
		{"mTIMESTAMP": "15-Jan-2024", "CH_OPENING_PRICE": 3800, "CH_TRADE_HIGH_PRICE": 3850.5, "CH_TRADE_LOW_PRICE": 3790, "CH_CLOSING_PRICE": 3840.1, "CH_TOT_TRADED_QTY": 123456},
		{"CH_TIMESTAMP": "2024-01-16", "CH_OPENING_PRICE": 3840, "CH_CLOSING_PRICE": "3860.25", "CH_TOT_TRADED_QTY": 99}
	]`
	var nse []NSERow
	require.NoError(t, json.Unmarshal([]byte(payload), &nse))

	rows := make([]RawRow, 0, len(nse))
	for _, r := range nse {
		rows = append(rows, r)
	}

	bars := Series(rows)
	require.Len(t, bars, 2)
	assert.Equal(t, date("2024-01-16"), bars[0].Date)
	assert.Equal(t, 3860.25, bars[0].Close)
	assert.Equal(t, 3850.5, bars[1].High)
	assert.Equal(t, int64(123456), bars[1].Volume)
}

func TestSeriesDuplicateDateKeepsLastRow(t *testing.T) {
	rows := []RawRow{
		CanonicalRow{Date: date("2024-02-01"), Close: 10.0},
		CanonicalRow{Date: date("2024-02-02"), Close: 11.0},
		CanonicalRow{Date: date("2024-02-01"), Close: 12.0},
	}

	bars := Series(rows)
	require.Len(t, bars, 2)
	assert.Equal(t, 12.0, bars[1].Close)
}

func TestSeriesDropsNegativeCloseAndMissingDate(t *testing.T) {
	rows := []RawRow{
		CanonicalRow{Date: date("2024-02-01"), Close: -1.0},
		CanonicalRow{Close: 5.0},
		AlphaVantageRow{Date: "not a date", Values: map[string]string{"4. close": "5"}},
	}
	assert.Empty(t, Series(rows))
}

func TestAscending(t *testing.T) {
	bars := Series([]RawRow{
		CanonicalRow{Date: date("2024-02-01"), Close: 1.0},
		CanonicalRow{Date: date("2024-02-03"), Close: 3.0},
		CanonicalRow{Date: date("2024-02-02"), Close: 2.0},
	})
	asc := Ascending(bars)
	require.Len(t, asc, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{asc[0].Close, asc[1].Close, asc[2].Close})
	assert.Equal(t, 3.0, bars[0].Close, "input is not modified")
}
