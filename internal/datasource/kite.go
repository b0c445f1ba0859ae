package datasource

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/normalize"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/types"
)

// kiteAPI is the slice of the Kite Connect client the adapter needs.
type kiteAPI interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

// Kite reads daily candles from Zerodha Kite Connect. It needs an API key
// and a session access token; without them it yields no data.
type Kite struct {
	kc          kiteAPI
	historyDays int
	now         func() time.Time
}

var _ interfaces.PriceSource = (*Kite)(nil)

func NewKite(apiKey, accessToken string, opts ...Option) *Kite {
	o := buildOptions("", opts)
	k := &Kite{historyDays: o.historyDays, now: o.now}
	if apiKey == "" || accessToken == "" {
		return k
	}

	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	kc.SetHTTPClient(o.client().HTTPClient())
	if o.baseURL != "" {
		kc.SetBaseURI(o.baseURL)
	}
	k.kc = kc
	return k
}

func (k *Kite) Name() string { return KiteName }

// Enabled reports whether credentials were supplied.
func (k *Kite) Enabled() bool { return k.kc != nil }

func (k *Kite) FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error) {
	if k.kc == nil {
		return nil, nil
	}
	base, exch, ok := symbols.Split(symbol)
	if !ok {
		return nil, nil
	}

	token, err := k.instrumentToken(base, exch)
	if err != nil {
		return nil, err
	}
	if token == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable(KiteName, err)
	}

	to := k.now()
	from := to.AddDate(0, 0, -k.historyDays)
	candles, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, unavailable(KiteName, fmt.Errorf("historical data for %s: %w", symbol, err))
	}

	rows := make([]normalize.RawRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, normalize.CanonicalRow{
			Date:   c.Date.Time.In(normalize.IST),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return normalize.Series(rows), nil
}

// instrumentToken scans the exchange's instrument dump. Zero means the
// symbol is not listed there.
func (k *Kite) instrumentToken(base string, exch symbols.Exchange) (int, error) {
	instruments, err := k.kc.GetInstrumentsByExchange(string(exch))
	if err != nil {
		return 0, unavailable(KiteName, fmt.Errorf("instruments for %s: %w", exch, err))
	}
	for _, inst := range instruments {
		if inst.Tradingsymbol == base {
			return inst.InstrumentToken, nil
		}
	}
	return 0, nil
}
