package revenue

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ksred/revenue-api/internal/scenario"
	"github.com/ksred/revenue-api/pkg/response"
)

// respond maps scenario lookup failures to their API error code before
// falling back to the generic handler
func respond(c *gin.Context, data interface{}, err error) {
	if errors.Is(err, scenario.ErrUnknownScenario) {
		response.UnknownScenario(c, err.Error())
		return
	}
	response.Handle(c, data, err)
}

// Service handles revenue projection requests against the scenario workspace
type Service struct {
	workspace *scenario.Workspace
}

// NewService creates a new revenue service backed by the given workspace
func NewService(workspace *scenario.Workspace) *Service {
	return &Service{
		workspace: workspace,
	}
}

// CalculateScenario computes the revenue breakdown from a scenario's current
// working parameters
func (s *Service) CalculateScenario(name string) (*CalculationResponse, error) {
	params, err := s.workspace.Get(name)
	if err != nil {
		return nil, err
	}
	return s.calculate(name, params), nil
}

// CalculateParams computes the revenue breakdown from caller-supplied
// parameters without touching any working copy
func (s *Service) CalculateParams(params scenario.Params) *CalculationResponse {
	return s.calculate("custom", params)
}

func (s *Service) calculate(name string, params scenario.Params) *CalculationResponse {
	result := Calculate(params)

	log.Info().
		Str("scenario", name).
		Str("service", "revenue").
		Float64("total", result.Total).
		Float64("clearing", result.Clearing).
		Float64("funding", result.Funding).
		Float64("liquidations", result.Liquidations).
		Float64("hedging", result.Hedging).
		Float64("funding_spread", result.FundingSpread).
		Msg("computed revenue projection")

	return &CalculationResponse{
		CalculationID: "CALC_" + uuid.New().String(),
		Scenario:      name,
		Result:        result,
		Timestamp:     time.Now(),
	}
}

// ForecastScenario expands a scenario's current working parameters into the
// twelve-month forecast series
func (s *Service) ForecastScenario(name string) (*ForecastResponse, error) {
	params, err := s.workspace.Get(name)
	if err != nil {
		return nil, err
	}

	forecast := MonthlyForecast(params)

	log.Debug().
		Str("scenario", name).
		Str("service", "revenue").
		Int("points", len(forecast)).
		Msg("generated monthly forecast")

	return &ForecastResponse{
		CalculationID: "CALC_" + uuid.New().String(),
		Scenario:      name,
		Forecast:      forecast,
		Timestamp:     time.Now(),
	}, nil
}

// CompareScenarios computes one result per preset scenario from the current
// working parameters, for the side-by-side comparison view
func (s *Service) CompareScenarios() (*ComparisonResponse, error) {
	results := make(map[string]Result, len(scenario.Names()))
	for _, name := range scenario.Names() {
		params, err := s.workspace.Get(name)
		if err != nil {
			return nil, err
		}
		results[name] = Calculate(params)
	}

	log.Info().
		Str("service", "revenue").
		Int("scenarios", len(results)).
		Msg("computed scenario comparison")

	return &ComparisonResponse{
		CalculationID: "CALC_" + uuid.New().String(),
		Results:       results,
		Timestamp:     time.Now(),
	}, nil
}

// GinHandlers contains HTTP handlers for revenue projection endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for revenue endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CalculateScenarioHandler handles GET requests to compute revenue from a
// scenario's working parameters
// URL parameter: name
func (h *GinHandlers) CalculateScenarioHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.service.CalculateScenario(c.Param("name"))
		respond(c, result, err)
	}
}

// CalculateParamsHandler handles POST requests to compute revenue from
// parameters in the request body
func (h *GinHandlers) CalculateParamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params scenario.Params
		if err := c.ShouldBindJSON(&params); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		response.Success(c, h.service.CalculateParams(params))
	}
}

// ForecastScenarioHandler handles GET requests for the twelve-month forecast
// URL parameter: name
func (h *GinHandlers) ForecastScenarioHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		forecast, err := h.service.ForecastScenario(c.Param("name"))
		respond(c, forecast, err)
	}
}

// CompareScenariosHandler handles GET requests for the scenario comparison
func (h *GinHandlers) CompareScenariosHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		comparison, err := h.service.CompareScenarios()
		respond(c, comparison, err)
	}
}
