package ta

import (
	"math"

	"github.com/guregu/null/v6"

	"equity-advisor/internal/types"
)

const (
	RSIPeriod    = 14
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignal   = 9
	BBWindow     = 20
	BBStdDev     = 2.0
	ADXPeriod    = 14
	VolumeWindow = 20

	volumeHighRatio = 1.2
	volumeLowRatio  = 0.8
)

// Columns splits a newest-first series into oldest-first price columns.
func Columns(bars []types.Bar) (highs, lows, closes []float64) {
	n := len(bars)
	highs = make([]float64, n)
	lows = make([]float64, n)
	closes = make([]float64, n)
	for i, b := range bars {
		j := n - 1 - i
		highs[j] = b.High
		lows[j] = b.Low
		closes[j] = b.Close
	}
	return highs, lows, closes
}

// ComputeIndicators derives the full IndicatorSet from a newest-first series.
func ComputeIndicators(bars []types.Bar) types.IndicatorSet {
	highs, lows, closes := Columns(bars)

	set := types.IndicatorSet{
		SMA20:       optional(SMA(closes, 20)),
		SMA50:       optional(SMA(closes, 50)),
		SMA200:      optional(SMA(closes, 200)),
		RSI:         optional(RSI(closes, RSIPeriod)),
		ADX:         optional(ADX(highs, lows, closes, ADXPeriod)),
		VolumeTrend: VolumeTrend(bars),
	}

	if line, sig, hist, ok := MACD(closes, MACDFast, MACDSlow, MACDSignal); ok {
		set.MACD = &types.MACD{Line: line, Signal: sig, Hist: hist}
	}

	if mid, up, low := Bollinger(closes, BBWindow, BBStdDev); !math.IsNaN(mid) && !math.IsNaN(up) {
		set.Bollinger = &types.BollingerBands{Upper: up, Middle: mid, Lower: low}
	}

	return set
}

// VolumeTrend compares the newest bar's volume with the mean of the newest
// VolumeWindow bars. Shorter series stay Neutral.
func VolumeTrend(bars []types.Bar) types.VolumeTrend {
	if len(bars) < VolumeWindow {
		return types.VolumeNeutral
	}
	sum := 0.0
	for _, b := range bars[:VolumeWindow] {
		sum += float64(b.Volume)
	}
	avg := sum / VolumeWindow
	current := float64(bars[0].Volume)

	switch {
	case current > avg*volumeHighRatio:
		return types.VolumeHigh
	case current < avg*volumeLowRatio:
		return types.VolumeLow
	default:
		return types.VolumeNeutral
	}
}

// SMAOf is SMA(window) over a newest-first series.
func SMAOf(bars []types.Bar, window int) null.Float {
	_, _, closes := Columns(bars)
	return optional(SMA(closes, window))
}

// RSIOf is RSI(RSIPeriod) over a newest-first series.
func RSIOf(bars []types.Bar) null.Float {
	_, _, closes := Columns(bars)
	return optional(RSI(closes, RSIPeriod))
}

func optional(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
