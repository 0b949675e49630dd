package scenario

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(workspace *Workspace) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handlers := NewGinHandlers(workspace)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/scenarios", handlers.ListScenariosHandler())
	v1.GET("/scenarios/:name/defaults", handlers.GetDefaultsHandler())
	v1.GET("/scenarios/:name/params", handlers.GetParamsHandler())
	v1.PUT("/scenarios/:name/params", handlers.UpdateParamsHandler())
	v1.POST("/scenarios/:name/reset", handlers.ResetParamsHandler())
	return router
}

func TestListScenariosHandler(t *testing.T) {
	router := newTestRouter(NewWorkspace())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Scenarios []string `json:"scenarios"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	require.Equal(t, []string{"bear", "base", "bull"}, env.Data.Scenarios)
}

func TestGetDefaultsHandler(t *testing.T) {
	router := newTestRouter(NewWorkspace())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/base/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool   `json:"success"`
		Data    Params `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, 2_000_000_000.0, env.Data.DailyVolume)
	require.Equal(t, 8.0, env.Data.Leverage)
}

func TestGetDefaultsHandlerUnknownScenario(t *testing.T) {
	router := newTestRouter(NewWorkspace())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/bull2/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Equal(t, "UNKNOWN_SCENARIO", env.Error.Code)
}

func TestUpdateAndResetParamsHandlers(t *testing.T) {
	workspace := NewWorkspace()
	router := newTestRouter(workspace)

	edited, err := Defaults(Base)
	require.NoError(t, err)
	edited.Leverage = 12.0

	body, err := json.Marshal(edited)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/scenarios/base/params", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	working, err := workspace.Get(Base)
	require.NoError(t, err)
	require.Equal(t, 12.0, working.Leverage)

	// Reset restores the preset
	req = httptest.NewRequest(http.MethodPost, "/api/v1/scenarios/base/reset", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	working, err = workspace.Get(Base)
	require.NoError(t, err)
	require.Equal(t, 8.0, working.Leverage)
}
