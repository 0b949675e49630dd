package revenue

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ksred/revenue-api/internal/scenario"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	workspace := scenario.NewWorkspace()
	handlers := NewGinHandlers(NewService(workspace))

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/scenarios/compare", handlers.CompareScenariosHandler())
	v1.GET("/scenarios/:name/revenue", handlers.CalculateScenarioHandler())
	v1.GET("/scenarios/:name/forecast", handlers.ForecastScenarioHandler())
	v1.POST("/revenue/calculate", handlers.CalculateParamsHandler())
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCalculateScenarioHandler(t *testing.T) {
	router := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/scenarios/base/revenue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var calc CalculationResponse
	require.NoError(t, json.Unmarshal(env.Data, &calc))
	require.Equal(t, "base", calc.Scenario)
	require.Contains(t, calc.CalculationID, "CALC_")
	require.InEpsilon(t, 122_954_000.0, calc.Result.Total, 1e-9)
}

func TestCalculateScenarioHandlerUnknownScenario(t *testing.T) {
	router := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/scenarios/bull2/revenue", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, "UNKNOWN_SCENARIO", env.Error.Code)
}

func TestCalculateParamsHandler(t *testing.T) {
	router := newTestRouter()

	body, err := json.Marshal(baseParams())
	require.NoError(t, err)

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/revenue/calculate", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)

	var calc CalculationResponse
	require.NoError(t, json.Unmarshal(env.Data, &calc))
	require.Equal(t, "custom", calc.Scenario)
	require.InEpsilon(t, 122_954_000.0, calc.Result.Total, 1e-9)
}

func TestCalculateParamsHandlerBadBody(t *testing.T) {
	router := newTestRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/revenue/calculate", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
}

func TestForecastScenarioHandler(t *testing.T) {
	router := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/scenarios/base/forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var forecast ForecastResponse
	require.NoError(t, json.Unmarshal(env.Data, &forecast))
	require.Len(t, forecast.Forecast, 12)
	for i, point := range forecast.Forecast {
		require.Equal(t, i+1, point.Month)
	}
}

func TestCompareScenariosHandler(t *testing.T) {
	router := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/scenarios/compare", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var comparison ComparisonResponse
	require.NoError(t, json.Unmarshal(env.Data, &comparison))
	require.Len(t, comparison.Results, 3)
	for _, name := range scenario.Names() {
		require.Contains(t, comparison.Results, name)
	}

	// The base preset comparison carries the documented total
	require.InEpsilon(t, 122_954_000.0, comparison.Results["base"].Total, 1e-9)
}
