package revenue

import "time"

// Result is the full annualized revenue breakdown derived from one parameter
// set. Every field is a pure function of the inputs; negative components are
// legitimate (a funding spread below the borrow cost surfaces as negative
// funding revenue) and are never clamped here.
type Result struct {
	Total            float64 `json:"total"`
	Clearing         float64 `json:"clearing"`
	Funding          float64 `json:"funding"`
	Liquidations     float64 `json:"liquidations"`
	Hedging          float64 `json:"hedging"`
	MonthlyAvg       float64 `json:"monthly_avg"`
	DailyAvg         float64 `json:"daily_avg"`
	FundingSpread    float64 `json:"funding_spread"`
	DeployedNotional float64 `json:"deployed_notional"`
	FundingROE       float64 `json:"funding_roe"`
	ClearingDaily    float64 `json:"clearing_daily"`
	HedgeDaily       float64 `json:"hedge_daily"`
}

// ForecastPoint is one month of the forecast series. The reference model
// replicates each stream's daily-average value across all twelve months
// rather than projecting month-over-month variation.
type ForecastPoint struct {
	Month        int     `json:"month"`
	Clearing     float64 `json:"clearing"`
	Funding      float64 `json:"funding"`
	Liquidations float64 `json:"liquidations"`
	Hedging      float64 `json:"hedging"`
	Total        float64 `json:"total"`
}

// CalculationResponse wraps a Result for the API with a calculation ID and
// the scenario it was computed from ("custom" for body-supplied parameters).
type CalculationResponse struct {
	CalculationID string    `json:"calculation_id"`
	Scenario      string    `json:"scenario"`
	Result        Result    `json:"result"`
	Timestamp     time.Time `json:"timestamp"`
}

// ForecastResponse wraps the monthly forecast series for the API.
type ForecastResponse struct {
	CalculationID string          `json:"calculation_id"`
	Scenario      string          `json:"scenario"`
	Forecast      []ForecastPoint `json:"forecast"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ComparisonResponse carries one Result per scenario, computed from the
// current working parameters, for the side-by-side view.
type ComparisonResponse struct {
	CalculationID string            `json:"calculation_id"`
	Results       map[string]Result `json:"results"`
	Timestamp     time.Time         `json:"timestamp"`
}
