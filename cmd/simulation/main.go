package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ksred/revenue-api/internal/auth"
	"github.com/ksred/revenue-api/internal/revenue"
	"github.com/ksred/revenue-api/internal/scenario"
	"github.com/ksred/revenue-api/pkg/format"
)

const (
	minSweeps     = 20
	maxSweeps     = 200
	numWorkers    = 5
	serverAddress = "http://localhost:8080"
	jwtSecret     = "revenue-secret-key"

	// Identity check tolerance: total must equal the sum of the four
	// streams to within this relative error.
	identityTolerance = 1e-9
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	// Configure pretty logging
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	// Sort durations for percentile calculations
	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	// Calculate mean
	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))

	// Calculate median
	median = rs.durations[len(rs.durations)/2]

	// Calculate percentiles
	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the revenue projection API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	stats     map[string]*routeStats
}

// newSimulationClient creates and initializes a new simulation client
// It authenticates with the API and prepares performance tracking
func newSimulationClient() (*simulationClient, error) {
	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	sc := &simulationClient{
		baseURL: serverAddress,
		client:  client,
		stats: map[string]*routeStats{
			"auth":      {name: "Authentication"},
			"defaults":  {name: "Get Defaults"},
			"update":    {name: "Update Params"},
			"calculate": {name: "Calculate Revenue"},
			"forecast":  {name: "Monthly Forecast"},
			"compare":   {name: "Compare Scenarios"},
		},
	}

	// Get auth token
	token, err := sc.authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sc.authToken = token

	return sc, nil
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate() (string, error) {
	start := time.Now()
	defer func() {
		sc.stats["auth"].addDuration(time.Since(start))
	}()

	credentials := map[string]string{
		"api_key":    auth.TestAPIKey,
		"api_secret": auth.TestAPISecret,
	}

	body, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	resp, err := sc.client.Post(
		fmt.Sprintf("%s/api/v1/auth/token", sc.baseURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"jwt_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Data.Token, nil
}

// doJSON issues an authenticated request and decodes the standard envelope's
// data payload into out
func (sc *simulationClient) doJSON(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sc.authToken))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug().Str("path", path).Str("response", string(respBody)).Msg("API response")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// getDefaults retrieves the preset parameters for a scenario
func (sc *simulationClient) getDefaults(name string) (*scenario.Params, error) {
	start := time.Now()
	defer func() {
		sc.stats["defaults"].addDuration(time.Since(start))
	}()

	var params scenario.Params
	if err := sc.doJSON("GET", fmt.Sprintf("/api/v1/scenarios/%s/defaults", name), nil, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// updateParams replaces a scenario's working parameters
func (sc *simulationClient) updateParams(name string, params *scenario.Params) error {
	start := time.Now()
	defer func() {
		sc.stats["update"].addDuration(time.Since(start))
	}()

	return sc.doJSON("PUT", fmt.Sprintf("/api/v1/scenarios/%s/params", name), params, nil)
}

// calculateScenario computes the revenue projection from a scenario's
// working parameters
func (sc *simulationClient) calculateScenario(name string) (*revenue.CalculationResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["calculate"].addDuration(time.Since(start))
	}()

	var calc revenue.CalculationResponse
	if err := sc.doJSON("GET", fmt.Sprintf("/api/v1/scenarios/%s/revenue", name), nil, &calc); err != nil {
		return nil, err
	}
	if calc.CalculationID == "" {
		return nil, fmt.Errorf("no calculation ID in response for scenario %s", name)
	}
	return &calc, nil
}

// forecastScenario retrieves the twelve-month forecast for a scenario
func (sc *simulationClient) forecastScenario(name string) (*revenue.ForecastResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["forecast"].addDuration(time.Since(start))
	}()

	var forecast revenue.ForecastResponse
	if err := sc.doJSON("GET", fmt.Sprintf("/api/v1/scenarios/%s/forecast", name), nil, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// compareScenarios retrieves the side-by-side comparison of all scenarios
func (sc *simulationClient) compareScenarios() (*revenue.ComparisonResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["compare"].addDuration(time.Since(start))
	}()

	var comparison revenue.ComparisonResponse
	if err := sc.doJSON("GET", "/api/v1/scenarios/compare", nil, &comparison); err != nil {
		return nil, err
	}
	return &comparison, nil
}

// printPerformanceStats outputs formatted performance statistics for all API endpoints
func (sc *simulationClient) printPerformanceStats() {
	fmt.Println("\nAPI Performance Statistics")
	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("%-20s %10s %10s %10s %10s %10s %10s %10s %10s\n",
		"Endpoint", "Calls", "Errors", "Min", "Max", "Mean", "Median", "P95", "P99")
	fmt.Println(strings.Repeat("-", 100))

	for _, stats := range sc.stats {
		min, max, mean, median, p95, p99 := stats.calculate()
		fmt.Printf("%-20s %10d %10d %10s %10s %10s %10s %10s %10s\n",
			stats.name,
			stats.totalCalls,
			stats.failures,
			min.Round(time.Millisecond),
			max.Round(time.Millisecond),
			mean.Round(time.Millisecond),
			median.Round(time.Millisecond),
			p95.Round(time.Millisecond),
			p99.Round(time.Millisecond))
	}
	fmt.Println(strings.Repeat("-", 100))
}

// perturb jitters a preset's business inputs to produce a plausible what-if
// parameter set. Each driver moves independently by up to +/-25%.
func perturb(p scenario.Params) scenario.Params {
	jitter := func(v float64) float64 {
		return v * (0.75 + rand.Float64()*0.5)
	}

	p.DailyVolume = jitter(p.DailyVolume)
	p.InternalMatchRatio = jitter(p.InternalMatchRatio)
	p.HLFundingRate = jitter(p.HLFundingRate)
	p.ArchBorrowRate = jitter(p.ArchBorrowRate)
	p.Leverage = jitter(p.Leverage)
	p.MonthlyLiquidations = jitter(p.MonthlyLiquidations)
	p.DailyHedge = jitter(p.DailyHedge)
	return p
}

// verifyIdentity checks that a result's total equals the sum of its four
// revenue streams to within the relative tolerance
func verifyIdentity(r revenue.Result) bool {
	sum := r.Clearing + r.Funding + r.Liquidations + r.Hedging
	if r.Total == 0 {
		return sum == 0
	}
	return math.Abs(r.Total-sum)/math.Abs(r.Total) <= identityTolerance
}

// sweepScenario runs one what-if iteration against a scenario: perturb its
// preset, push the working copy, recalculate, and pull the forecast
func sweepScenario(simClient *simulationClient, name string) (*revenue.CalculationResponse, error) {
	defaults, err := simClient.getDefaults(name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch defaults: %w", err)
	}

	params := perturb(*defaults)
	if err := simClient.updateParams(name, &params); err != nil {
		return nil, fmt.Errorf("failed to update params: %w", err)
	}

	calc, err := simClient.calculateScenario(name)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate: %w", err)
	}

	forecast, err := simClient.forecastScenario(name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	if len(forecast.Forecast) != 12 {
		return nil, fmt.Errorf("expected 12 forecast points, got %d", len(forecast.Forecast))
	}

	return calc, nil
}

// main runs the what-if sweep simulation
// It starts a local API server and drives concurrent scenario recalculations
func main() {
	// Start the server in a goroutine
	go func() {
		if err := startServer(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for server to start
	time.Sleep(2 * time.Second)

	// Initialize simulation client
	simClient, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize simulation client")
	}

	// Generate random number of sweeps to run
	targetSweeps := rand.Intn(maxSweeps-minSweeps) + minSweeps
	log.Info().Int("target_sweeps", targetSweeps).Msg("Starting simulation")

	scenarios := scenario.Names()

	type sweepOutcome struct {
		scenarioName string
		total        float64
		identityOK   bool
	}

	outcomes := make(chan sweepOutcome, targetSweeps)
	var wg sync.WaitGroup
	startTime := time.Now()

	// Start worker goroutines
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < targetSweeps/numWorkers; j++ {
				name := scenarios[rand.Intn(len(scenarios))]

				calc, err := sweepScenario(simClient, name)
				if err != nil {
					log.Error().Err(err).
						Int("worker_id", workerID).
						Str("scenario", name).
						Msg("Sweep failed")
					continue
				}

				outcomes <- sweepOutcome{
					scenarioName: name,
					total:        calc.Result.Total,
					identityOK:   verifyIdentity(calc.Result),
				}

				log.Info().
					Int("worker_id", workerID).
					Str("scenario", name).
					Str("calculation_id", calc.CalculationID).
					Str("total", format.Currency(calc.Result.Total)).
					Str("funding_roe", format.Percent(calc.Result.FundingROE)).
					Msg("Sweep completed")

				// Random sleep between sweeps
				time.Sleep(time.Duration(rand.Intn(200)) * time.Millisecond)
			}
		}(i)
	}

	wg.Wait()
	close(outcomes)

	// Collect statistics
	stats := struct {
		TotalSweeps      int
		IdentityFailures int
		Scenarios        map[string]int
	}{
		Scenarios: make(map[string]int),
	}

	for outcome := range outcomes {
		stats.TotalSweeps++
		stats.Scenarios[outcome.scenarioName]++
		if !outcome.identityOK {
			stats.IdentityFailures++
		}
	}

	// Restore all working copies before the final comparison
	for _, name := range scenarios {
		if err := simClient.updateParams(name, mustDefaults(name)); err != nil {
			log.Error().Err(err).Str("scenario", name).Msg("Failed to restore defaults")
		}
	}

	comparison, err := simClient.compareScenarios()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch scenario comparison")
	}

	// Print summary
	duration := time.Since(startTime)
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("REVENUE SWEEP SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Printf(`
Sweep Statistics
----------------
Total Sweeps:      %d
Identity Failures: %d
Duration:          %v

Scenario Distribution
---------------------
`, stats.TotalSweeps, stats.IdentityFailures, duration.Round(time.Millisecond))

	// Print scenario distribution with simple ASCII bar chart
	maxCount := 0
	for _, count := range stats.Scenarios {
		if count > maxCount {
			maxCount = count
		}
	}
	for _, name := range scenarios {
		count := stats.Scenarios[name]
		barLength := 0
		if maxCount > 0 {
			barLength = int(float64(count) / float64(maxCount) * 20)
		}
		bar := strings.Repeat("#", barLength)
		fmt.Printf("%-6s: %s (%d)\n", name, bar, count)
	}

	fmt.Println("\nPreset Annual Revenue (defaults)")
	fmt.Println("--------------------------------")
	for _, name := range scenarios {
		result := comparison.Results[name]
		fmt.Printf("%-6s: total %-12s clearing %-12s funding %-12s liquidations %-10s hedging %-10s\n",
			name,
			format.Currency(result.Total),
			format.Currency(result.Clearing),
			format.Currency(result.Funding),
			format.Currency(result.Liquidations),
			format.Currency(result.Hedging))
	}

	fmt.Println("\n" + strings.Repeat("=", 80))

	log.Info().
		Int("total_sweeps", stats.TotalSweeps).
		Int("identity_failures", stats.IdentityFailures).
		Dur("duration", duration).
		Msg("Simulation completed")

	simClient.printPerformanceStats()
}

// mustDefaults returns the preset for a known scenario name
func mustDefaults(name string) *scenario.Params {
	p, err := scenario.Defaults(name)
	if err != nil {
		log.Fatal().Err(err).Str("scenario", name).Msg("Unknown scenario preset")
	}
	return &p
}

// startServer initializes and starts the revenue projection API server
// Sets up all required services, handlers and routes
func startServer() error {
	// Initialize services
	authService := auth.NewService(jwtSecret)
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	workspace := scenario.NewWorkspace()
	revenueService := revenue.NewService(workspace)

	// Initialize router
	router := gin.Default()
	authHandlers := auth.NewGinHandlers(authService)
	scenarioHandlers := scenario.NewGinHandlers(workspace)
	revenueHandlers := revenue.NewGinHandlers(revenueService)

	// Setup routes
	setupRoutes(router, authHandlers, scenarioHandlers, revenueHandlers)

	// Start the server
	return router.Run(":8080")
}

// setupRoutes configures all API endpoints and their handlers
// Groups routes by functionality; JWT middleware is omitted the same way the
// sweep server skips rate limiting, since both ends are local
func setupRoutes(
	router *gin.Engine,
	authHandlers *auth.GinHandlers,
	scenarioHandlers *scenario.GinHandlers,
	revenueHandlers *revenue.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Scenario parameter routes
		scenarios := v1.Group("/scenarios")
		{
			scenarios.GET("", scenarioHandlers.ListScenariosHandler())
			scenarios.GET("/compare", revenueHandlers.CompareScenariosHandler())
			scenarios.GET("/:name/defaults", scenarioHandlers.GetDefaultsHandler())
			scenarios.GET("/:name/params", scenarioHandlers.GetParamsHandler())
			scenarios.PUT("/:name/params", scenarioHandlers.UpdateParamsHandler())
			scenarios.POST("/:name/reset", scenarioHandlers.ResetParamsHandler())
			scenarios.GET("/:name/revenue", revenueHandlers.CalculateScenarioHandler())
			scenarios.GET("/:name/forecast", revenueHandlers.ForecastScenarioHandler())
		}

		// Ad-hoc projection routes
		rev := v1.Group("/revenue")
		{
			rev.POST("/calculate", revenueHandlers.CalculateParamsHandler())
		}
	}
}
