package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCanonicalSymbols(t *testing.T) {
	tests := []struct {
		name   string
		ticker string
		want   []string
	}{
		{"bare ticker tries BSE first", "TCS", []string{"TCS.BSE", "TCS.NSE"}},
		{"lowercase bare ticker", "tcs", []string{"TCS.BSE", "TCS.NSE"}},
		{"short NSE suffix", "reliance.ns", []string{"RELIANCE.NSE", "RELIANCE.BSE"}},
		{"short BSE suffix", "INFY.BO", []string{"INFY.BSE", "INFY.NSE"}},
		{"canonical NSE suffix", "INFY.NSE", []string{"INFY.NSE", "INFY.BSE"}},
		{"whitespace trimmed", "  sbin ", []string{"SBIN.BSE", "SBIN.NSE"}},
		{"hyphenated ticker", "bajaj-auto.ns", []string{"BAJAJ-AUTO.NSE", "BAJAJ-AUTO.BSE"}},
		{"empty ticker", "", nil},
		{"suffix only", ".NS", nil},
		{"lowercase suffix only", " .bse ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCanonicalSymbols(tt.ticker))
		})
	}
}

func TestResolveCanonicalSymbolsIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, ResolveCanonicalSymbols("RELIANCE.NS"), ResolveCanonicalSymbols("reliance.ns"))
}

func TestUnknownSuffixIsPartOfTicker(t *testing.T) {
	got := ResolveCanonicalSymbols("BRK.B")
	assert.Equal(t, []string{"BRK.B.BSE", "BRK.B.NSE"}, got)
}

func TestYahooTicker(t *testing.T) {
	assert.Equal(t, "TCS.NS", YahooTicker("TCS.NSE"))
	assert.Equal(t, "TCS.BO", YahooTicker("TCS.BSE"))
	assert.Equal(t, "TCS", YahooTicker("tcs"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "RELIANCE", Base("reliance.ns"))
	assert.Equal(t, "RELIANCE", Base("RELIANCE"))
	assert.Equal(t, "", Base(".NSE"))
}
