package scenario

import "errors"

// ErrUnknownScenario is returned when a scenario name has no preset.
// Unknown names are never silently mapped to a default.
var ErrUnknownScenario = errors.New("unknown scenario")

// Params is the full set of business inputs for a revenue projection.
// Rate fields carry mixed units: clearing_fee, netting_fee, friction_cost and
// hedge_efficiency are in basis points; hl_funding_rate, arch_borrow_rate and
// liquidation_fee are annual percentages. Volumes and equity are in USD.
//
// No validation is applied anywhere: this backs a free-form what-if tool, so
// negative volumes or ratios outside [0,1] propagate arithmetically.
type Params struct {
	DailyVolume         float64 `json:"daily_volume"`
	InternalMatchRatio  float64 `json:"internal_match_ratio"`
	ClearingFee         float64 `json:"clearing_fee"`
	NettingFee          float64 `json:"netting_fee"`
	HLFundingRate       float64 `json:"hl_funding_rate"`
	ArchBorrowRate      float64 `json:"arch_borrow_rate"`
	FrictionCost        float64 `json:"friction_cost"`
	Equity              float64 `json:"equity"`
	Leverage            float64 `json:"leverage"`
	MonthlyLiquidations float64 `json:"monthly_liquidations"`
	LiquidationFee      float64 `json:"liquidation_fee"`
	DailyHedge          float64 `json:"daily_hedge"`
	HedgeEfficiency     float64 `json:"hedge_efficiency"`
}

// Scenario names
const (
	Bear = "bear"
	Base = "base"
	Bull = "bull"
)

// presets holds the business-chosen default parameter sets. The map is
// read-only after init; callers only ever see copies via Defaults.
var presets = map[string]Params{
	Bear: {
		DailyVolume:         800_000_000,
		InternalMatchRatio:  0.40,
		ClearingFee:         1.5,
		NettingFee:          0.5,
		HLFundingRate:       5.0,
		ArchBorrowRate:      3.0,
		FrictionCost:        1.5,
		Equity:              100_000_000,
		Leverage:            5.0,
		MonthlyLiquidations: 20_000_000,
		LiquidationFee:      0.4,
		DailyHedge:          80_000_000,
		HedgeEfficiency:     0.4,
	},
	Base: {
		DailyVolume:         2_000_000_000,
		InternalMatchRatio:  0.50,
		ClearingFee:         1.5,
		NettingFee:          0.5,
		HLFundingRate:       8.0,
		ArchBorrowRate:      2.5,
		FrictionCost:        1.2,
		Equity:              100_000_000,
		Leverage:            8.0,
		MonthlyLiquidations: 50_000_000,
		LiquidationFee:      0.4,
		DailyHedge:          200_000_000,
		HedgeEfficiency:     0.5,
	},
	Bull: {
		DailyVolume:         5_000_000_000,
		InternalMatchRatio:  0.60,
		ClearingFee:         1.5,
		NettingFee:          0.5,
		HLFundingRate:       12.0,
		ArchBorrowRate:      2.0,
		FrictionCost:        1.0,
		Equity:              100_000_000,
		Leverage:            10.0,
		MonthlyLiquidations: 120_000_000,
		LiquidationFee:      0.4,
		DailyHedge:          500_000_000,
		HedgeEfficiency:     0.6,
	},
}

// Defaults returns a copy of the named preset. Params is a value type, so
// the returned copy is independent of the stored default and of any other
// copy handed out earlier.
func Defaults(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		return Params{}, ErrUnknownScenario
	}
	return p, nil
}

// Names returns the preset names in display order.
func Names() []string {
	return []string{Bear, Base, Bull}
}
