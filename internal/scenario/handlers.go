package scenario

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ksred/revenue-api/pkg/response"
)

// respond maps scenario lookup failures to their API error code before
// falling back to the generic handler
func respond(c *gin.Context, data interface{}, err error) {
	if errors.Is(err, ErrUnknownScenario) {
		response.UnknownScenario(c, err.Error())
		return
	}
	response.Handle(c, data, err)
}

// GinHandlers contains HTTP handlers for scenario parameter endpoints
type GinHandlers struct {
	workspace *Workspace
}

// NewGinHandlers creates a new set of HTTP handlers for scenario endpoints
func NewGinHandlers(workspace *Workspace) *GinHandlers {
	return &GinHandlers{
		workspace: workspace,
	}
}

// ListScenariosHandler handles GET requests for the available scenario names
func (h *GinHandlers) ListScenariosHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, gin.H{"scenarios": Names()})
	}
}

// GetDefaultsHandler handles GET requests for a scenario's preset parameters
// URL parameter: name
func (h *GinHandlers) GetDefaultsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := Defaults(c.Param("name"))
		respond(c, params, err)
	}
}

// GetParamsHandler handles GET requests for a scenario's working parameters
// URL parameter: name
func (h *GinHandlers) GetParamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := h.workspace.Get(c.Param("name"))
		respond(c, params, err)
	}
}

// UpdateParamsHandler handles PUT requests to replace a scenario's working
// parameters. Request body carries the full parameter set; the engine applies
// no validation, so any finite values are accepted as-is.
// URL parameter: name
func (h *GinHandlers) UpdateParamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		var params Params
		if err := c.ShouldBindJSON(&params); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		if err := h.workspace.Put(name, params); err != nil {
			respond(c, nil, err)
			return
		}

		log.Info().
			Str("scenario", name).
			Str("service", "scenario").
			Float64("daily_volume", params.DailyVolume).
			Float64("equity", params.Equity).
			Float64("leverage", params.Leverage).
			Msg("updated working parameters")

		response.Success(c, params)
	}
}

// ResetParamsHandler handles POST requests to restore a scenario's working
// parameters to the preset defaults
// URL parameter: name
func (h *GinHandlers) ResetParamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		params, err := h.workspace.Reset(name)
		if err == nil {
			log.Info().
				Str("scenario", name).
				Str("service", "scenario").
				Msg("reset working parameters to defaults")
		}
		respond(c, params, err)
	}
}
