package normalize

import (
	"strings"
	"time"
)

// India Standard Time; exchange timestamps are interpreted here.
var IST = time.FixedZone("IST", 5*60*60+30*60)

var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// RawRow is a provider-shaped daily record. Each provider has its own variant
// and nothing outside this package looks inside one.
type RawRow interface {
	fields() rawFields
}

type rawFields struct {
	date                           time.Time
	dateOK                         bool
	open, high, low, close, volume any
}

// AlphaVantageRow is one entry of a "Time Series (Daily)" object, keyed by
// numbered field names ("1. open" ... "5. volume").
type AlphaVantageRow struct {
	Date   string
	Values map[string]string
}

func (r AlphaVantageRow) fields() rawFields {
	d, ok := parseDate(r.Date)
	vol, found := r.Values["5. volume"]
	if !found {
		vol = r.Values["6. volume"]
	}
	return rawFields{
		date:   d,
		dateOK: ok,
		open:   r.Values["1. open"],
		high:   r.Values["2. high"],
		low:    r.Values["3. low"],
		close:  r.Values["4. close"],
		volume: vol,
	}
}

// YahooChart holds the parallel column arrays of a v8 chart quote. Columns
// contain nulls for halted sessions.
type YahooChart struct {
	Timestamps []int64
	Open       []any
	High       []any
	Low        []any
	Close      []any
	Volume     []any
}

// Rows slices the columns into one row per timestamp.
func (c YahooChart) Rows() []RawRow {
	rows := make([]RawRow, 0, len(c.Timestamps))
	for i, ts := range c.Timestamps {
		rows = append(rows, yahooRow{
			ts:     ts,
			open:   at(c.Open, i),
			high:   at(c.High, i),
			low:    at(c.Low, i),
			close:  at(c.Close, i),
			volume: at(c.Volume, i),
		})
	}
	return rows
}

type yahooRow struct {
	ts                             int64
	open, high, low, close, volume any
}

func (r yahooRow) fields() rawFields {
	t := time.Unix(r.ts, 0).In(IST)
	return rawFields{
		date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		dateOK: r.ts > 0,
		open:   r.open,
		high:   r.high,
		low:    r.low,
		close:  r.close,
		volume: r.volume,
	}
}

// NSERow is one record of NSE's historical equity endpoint.
type NSERow struct {
	Timestamp string `json:"mTIMESTAMP"`
	Date      string `json:"CH_TIMESTAMP"`
	Open      any    `json:"CH_OPENING_PRICE"`
	High      any    `json:"CH_TRADE_HIGH_PRICE"`
	Low       any    `json:"CH_TRADE_LOW_PRICE"`
	Close     any    `json:"CH_CLOSING_PRICE"`
	Volume    any    `json:"CH_TOT_TRADED_QTY"`
}

func (r NSERow) fields() rawFields {
	d, ok := parseDate(r.Date)
	if !ok {
		d, ok = parseDate(r.Timestamp)
	}
	return rawFields{date: d, dateOK: ok, open: r.Open, high: r.High, low: r.Low, close: r.Close, volume: r.Volume}
}

// CanonicalRow is already in bar shape; used by sources whose SDK returns
// typed candles.
type CanonicalRow struct {
	Date                           time.Time
	Open, High, Low, Close, Volume any
}

func (r CanonicalRow) fields() rawFields {
	return rawFields{
		date:   time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC),
		dateOK: !r.Date.IsZero(),
		open:   r.Open,
		high:   r.High,
		low:    r.Low,
		close:  r.Close,
		volume: r.Volume,
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func at(col []any, i int) any {
	if i < len(col) {
		return col[i]
	}
	return nil
}
