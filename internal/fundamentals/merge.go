package fundamentals

import "equity-advisor/internal/types"

// KeyMetrics decide whether another fundamentals source is worth calling.
var KeyMetrics = []types.MetricKey{types.PERatio, types.EPS, types.MarketCap}

// Merge returns a new snapshot holding everything in existing plus the keys of
// incoming that existing lacks. Neither argument is modified.
func Merge(existing, incoming types.Fundamentals) types.Fundamentals {
	out := existing.Clone()
	for k, v := range incoming.Metrics {
		if !out.Has(k) {
			out.Set(k, v)
		}
	}
	if !out.Name.Valid && incoming.Name.Valid && incoming.Name.String != "" {
		out.Name = incoming.Name
	}
	return out
}

// MissingKeyMetrics lists the key metrics f does not have yet.
func MissingKeyMetrics(f types.Fundamentals) []types.MetricKey {
	var missing []types.MetricKey
	for _, k := range KeyMetrics {
		if !f.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// PayloadFields extracts the judge's view of a snapshot.
func PayloadFields(f types.Fundamentals) types.PayloadFundamentals {
	return types.PayloadFundamentals{
		PE:            f.Get(types.PERatio),
		PB:            f.Get(types.PriceToBook),
		ROE:           f.Get(types.ReturnOnEquity),
		ROA:           f.Get(types.ReturnOnAssets),
		EPSGrowth:     f.Get(types.QuarterlyEarningsGrowthYoY),
		DebtToEquity:  f.Get(types.DebtToEquity),
		RevenueGrowth: f.Get(types.QuarterlyRevenueGrowthYoY),
		ProfitMargins: f.Get(types.ProfitMargin),
	}
}
