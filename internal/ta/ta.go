package ta

import (
	"math"

	"github.com/markcheno/go-talib"
)

// All functions take oldest-first slices and return math.NaN() when the
// input is too short or a denominator is zero.

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	return talib.Sma(closes, n)[len(closes)-1]
}

// RSI uses simple rolling means of gains and losses over the last period
// deltas, not Wilder smoothing. A window with no losses is 100.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// EMA returns the full recursive series seeded with the first value:
// ema[0] = v[0], ema[t] = v[t]*k + ema[t-1]*(1-k), k = 2/(span+1).
func EMA(vals []float64, span int) []float64 {
	if len(vals) == 0 || span <= 0 {
		return nil
	}
	k := 2.0 / float64(span+1)
	out := make([]float64, len(vals))
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = vals[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD returns the latest line, signal and histogram. ok is false when
// there are fewer than slow closes.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist float64, ok bool) {
	if len(closes) < slow || fast <= 0 || slow <= 0 || signal <= 0 {
		return 0, 0, 0, false
	}
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMA(macdLine, signal)

	last := len(closes) - 1
	line = macdLine[last]
	sig = signalLine[last]
	return line, sig, line - sig, true
}

// StdDev is the sample standard deviation (n-1) of the last n values.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n < 2 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n-1))
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

// ADX averages the last period DX values, each built from period-wide rolling
// means of true range and directional movement. It therefore needs at least
// 2*period-1 bars before it is defined.
func ADX(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if len(highs) != n || len(lows) != n || period <= 0 || n < period+1 {
		return math.NaN()
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr[0] = math.Abs(highs[0] - lows[0])
	for i := 1; i < n; i++ {
		tr[i] = trueRange(highs[i], lows[i], closes[i-1])
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	dx := make([]float64, n)
	for i := range dx {
		if i < period-1 {
			dx[i] = math.NaN()
			continue
		}
		atr := windowMean(tr, i, period)
		if atr == 0 {
			dx[i] = math.NaN()
			continue
		}
		plusDI := 100 * windowMean(plusDM, i, period) / atr
		minusDI := 100 * windowMean(minusDM, i, period) / atr
		if plusDI+minusDI == 0 {
			dx[i] = math.NaN()
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	sum := 0.0
	for i := n - period; i < n; i++ {
		if i < 0 || math.IsNaN(dx[i]) {
			return math.NaN()
		}
		sum += dx[i]
	}
	return sum / float64(period)
}

// windowMean averages vals[end-period+1 : end+1]. Summed directly so a flat
// window is exactly zero.
func windowMean(vals []float64, end, period int) float64 {
	sum := 0.0
	for i := end - period + 1; i <= end; i++ {
		sum += vals[i]
	}
	return sum / float64(period)
}

func trueRange(high, low, prevClose float64) float64 {
	tr1 := math.Abs(high - low)
	tr2 := math.Abs(high - prevClose)
	tr3 := math.Abs(low - prevClose)
	return math.Max(tr1, math.Max(tr2, tr3))
}
