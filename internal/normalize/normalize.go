package normalize

import (
	"sort"
	"time"

	"equity-advisor/internal/types"
)

// Series maps provider rows to bars sorted newest first. Rows without a
// parseable date or a valid non-negative close are dropped. When a date
// repeats, the last row seen wins.
func Series(rows []RawRow) []types.Bar {
	byDate := make(map[time.Time]types.Bar, len(rows))
	for _, row := range rows {
		bar, ok := toBar(row.fields())
		if !ok {
			continue
		}
		byDate[bar.Date] = bar
	}

	bars := make([]types.Bar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.After(bars[j].Date)
	})
	return bars
}

func toBar(f rawFields) (types.Bar, bool) {
	if !f.dateOK {
		return types.Bar{}, false
	}
	closePrice := ParseOptionalFloat(f.close)
	if !closePrice.Valid || closePrice.Float64 < 0 {
		return types.Bar{}, false
	}
	return types.Bar{
		Date:   f.date,
		Open:   orZero(f.open),
		High:   orZero(f.high),
		Low:    orZero(f.low),
		Close:  closePrice.Float64,
		Volume: volumeOf(f.volume),
	}, true
}

// Ascending returns a copy of a newest-first series ordered oldest first.
func Ascending(bars []types.Bar) []types.Bar {
	out := make([]types.Bar, len(bars))
	for i, b := range bars {
		out[len(bars)-1-i] = b
	}
	return out
}
