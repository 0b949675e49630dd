package revenue

import "github.com/ksred/revenue-api/internal/scenario"

const (
	daysPerYear   = 365.0
	monthsPerYear = 12.0

	// Unit normalization: basis-point fields divide by 10,000, percent
	// fields divide by 100, to get plain ratios.
	bpsScale = 10_000.0
	pctScale = 100.0
)

// Calculate derives the annualized revenue breakdown from a parameter set.
// It is a pure function: no validation, no clamping, no state. Degenerate
// inputs (negative volumes, non-finite values) propagate arithmetically.
func Calculate(p scenario.Params) Result {
	clearing := daysPerYear * p.DailyVolume * p.InternalMatchRatio *
		(p.ClearingFee/bpsScale + p.NettingFee/bpsScale)

	// Net annualized rate per unit of deployed notional: funding income
	// minus borrow cost minus execution friction. May be negative.
	fundingSpread := p.HLFundingRate/pctScale - p.ArchBorrowRate/pctScale - p.FrictionCost/bpsScale

	deployedNotional := p.Leverage * p.Equity
	funding := fundingSpread * deployedNotional

	liquidations := monthsPerYear * p.MonthlyLiquidations * (p.LiquidationFee / pctScale)
	hedging := daysPerYear * p.DailyHedge * (p.HedgeEfficiency / bpsScale)

	total := clearing + funding + liquidations + hedging

	return Result{
		Total:            total,
		Clearing:         clearing,
		Funding:          funding,
		Liquidations:     liquidations,
		Hedging:          hedging,
		MonthlyAvg:       total / monthsPerYear,
		DailyAvg:         total / daysPerYear,
		FundingSpread:    fundingSpread,
		DeployedNotional: deployedNotional,
		FundingROE:       fundingSpread * p.Leverage * pctScale,
		ClearingDaily:    clearing / daysPerYear,
		HedgeDaily:       hedging / daysPerYear,
	}
}

// MonthlyForecast expands a parameter set into a twelve-point series, months
// 1 through 12. Each point carries the daily-average value of every stream,
// identical for all months; the flat replication is the reference behavior,
// not a seasonal model.
func MonthlyForecast(p scenario.Params) []ForecastPoint {
	r := Calculate(p)

	points := make([]ForecastPoint, 0, int(monthsPerYear))
	for month := 1; month <= int(monthsPerYear); month++ {
		points = append(points, ForecastPoint{
			Month:        month,
			Clearing:     r.Clearing / daysPerYear,
			Funding:      r.Funding / daysPerYear,
			Liquidations: r.Liquidations / daysPerYear,
			Hedging:      r.Hedging / daysPerYear,
			Total:        r.DailyAvg,
		})
	}
	return points
}
