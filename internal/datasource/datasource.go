// Package datasource holds the market-data adapters. Every adapter maps a
// canonical symbol (TCS.BSE, INFY.NSE) to its own ticker and returns bars or
// a fundamentals snapshot already normalised. "No data" is an empty result;
// only transport, auth and rate-limit failures are errors.
package datasource

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"equity-advisor/internal/api"
)

// ErrProviderUnavailable marks a provider that could not be consulted.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Adapter names as used in configuration.
const (
	AlphaVantageName = "alphavantage"
	YahooName        = "yahoo"
	NSEName          = "nse"
	ScreenerName     = "screener"
	KiteName         = "kite"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultHistoryDays = 365
)

func unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrProviderUnavailable, err)
}

// A 404 means the provider does not know the symbol, which is no data.
func isNotFound(err error) bool {
	var se *api.StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func unavailablef(provider, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrProviderUnavailable, fmt.Sprintf(format, args...))
}

// Option configures an adapter.
type Option func(*options)

type options struct {
	baseURL     string
	timeout     time.Duration
	historyDays int
	now         func() time.Time
}

func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHistoryDays bounds how far back price history is requested.
func WithHistoryDays(days int) Option {
	return func(o *options) { o.historyDays = days }
}

func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(defaultBase string, opts []Option) options {
	o := options{
		baseURL:     defaultBase,
		timeout:     defaultTimeout,
		historyDays: defaultHistoryDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.historyDays <= 0 {
		o.historyDays = defaultHistoryDays
	}
	return o
}

func (o options) client(extra ...api.ClientOption) *api.Client {
	base := []api.ClientOption{
		api.WithBaseURL(o.baseURL),
		api.WithTimeout(o.timeout),
		api.WithLogging(true),
	}
	return api.NewClient(append(base, extra...)...)
}
