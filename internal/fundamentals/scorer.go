package fundamentals

import (
	"fmt"

	"equity-advisor/internal/types"
)

// Sub-score names as they appear in a ScoreCard.
const (
	ScoreMarketCap    = "Market Cap"
	ScorePEVsIndustry = "PE vs Industry"
	ScorePBRatio      = "PB Ratio"
	ScoreROE          = "ROE"
	ScoreEPSGrowth    = "EPS Growth"
	ScoreDebtToEquity = "Debt-to-Equity"
	ScoreBookValue    = "Book Value"
)

const (
	MaxScore = 14

	strongThreshold   = 12
	moderateThreshold = 7

	croreDivisor = 1e7
)

// Score rates a snapshot on seven 0-2 rules. Unknown market cap, P/E, P/B
// and ROE score 0; unknown EPS growth and debt-to-equity score 1. Book value
// always scores 1 since a trend needs history a snapshot does not carry.
func Score(f types.Fundamentals) types.ScoreCard {
	scores := map[string]int{
		ScoreMarketCap:    scoreMarketCap(f),
		ScorePEVsIndustry: scorePE(f),
		ScorePBRatio:      scorePB(f),
		ScoreROE:          scoreROE(f),
		ScoreEPSGrowth:    scoreEPSGrowth(f),
		ScoreDebtToEquity: scoreDebtToEquity(f),
		ScoreBookValue:    1,
	}

	total := 0
	for _, s := range scores {
		total += s
	}
	class := Classify(total)

	return types.ScoreCard{
		Scores:         scores,
		TotalScore:     total,
		Classification: class,
		Explanation:    fmt.Sprintf("Score %d/%d. %s fundamentals based on key metrics.", total, MaxScore, class),
	}
}

func Classify(total int) types.Classification {
	switch {
	case total >= strongThreshold:
		return types.Strong
	case total >= moderateThreshold:
		return types.Moderate
	default:
		return types.Weak
	}
}

// Market cap arrives in rupees and is tiered in crores.
func scoreMarketCap(f types.Fundamentals) int {
	mc := f.Get(types.MarketCap)
	if !mc.Valid {
		return 0
	}
	cr := mc.Float64 / croreDivisor
	switch {
	case cr > 5000:
		return 2
	case cr >= 1000:
		return 1
	default:
		return 0
	}
}

// Without an industry P/E, anything under 30 earns a single point.
func scorePE(f types.Fundamentals) int {
	pe := f.Get(types.PERatio)
	if !pe.Valid {
		return 0
	}
	ind := f.Get(types.IndustryPE)
	if !ind.Valid {
		if pe.Float64 < 30 {
			return 1
		}
		return 0
	}
	switch {
	case pe.Float64 <= ind.Float64:
		return 2
	case pe.Float64 <= ind.Float64*1.2:
		return 1
	default:
		return 0
	}
}

func scorePB(f types.Fundamentals) int {
	pb := f.Get(types.PriceToBook)
	if !pb.Valid {
		return 0
	}
	switch {
	case pb.Float64 < 3:
		return 2
	case pb.Float64 <= 6:
		return 1
	default:
		return 0
	}
}

// ROE is a fraction (0.15 means 15%).
func scoreROE(f types.Fundamentals) int {
	roe := f.Get(types.ReturnOnEquity)
	if !roe.Valid {
		return 0
	}
	pct := roe.Float64 * 100
	switch {
	case pct > 18:
		return 2
	case pct >= 12:
		return 1
	default:
		return 0
	}
}

func scoreEPSGrowth(f types.Fundamentals) int {
	g := f.Get(types.QuarterlyEarningsGrowthYoY)
	if !g.Valid {
		return 1
	}
	switch {
	case g.Float64 > 0:
		return 2
	case g.Float64 == 0:
		return 1
	default:
		return 0
	}
}

// Debt-to-equity is in percent (50 means 0.5x).
func scoreDebtToEquity(f types.Fundamentals) int {
	de := f.Get(types.DebtToEquity)
	if !de.Valid {
		return 1
	}
	switch {
	case de.Float64 < 50:
		return 2
	case de.Float64 <= 100:
		return 1
	default:
		return 0
	}
}
