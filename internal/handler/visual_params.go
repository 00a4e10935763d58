package handler

import (
	"net/http"

	"horizonfolio/internal/logger"
	"horizonfolio/internal/service"
	"horizonfolio/internal/visual"

	"github.com/gin-gonic/gin"
)

const (
	VisualSourceLive    = "live"
	VisualSourceDefault = "default"
)

type VisualParamsResponse struct {
	Source string        `json:"source"`
	Label  string        `json:"label,omitempty"`
	Params visual.Params `json:"params"`
}

// GetVisualParams godoc
// @Summary      Scene parameters for the current sentiment
// @Description  Maps the latest Fear & Greed value to scene parameters. Falls back to the default set when market data is unavailable.
// @Tags         visual
// @Produce      json
// @Success      200  {object}  VisualParamsResponse
// @Router       /api/visual-params [get]
func (h *Handler) GetVisualParams(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-visual-params")
	defer span.End()

	res, err := h.marketData.GetMarketData(ctx)
	if err != nil {
		logger.WithComponent("handler").
			WithField("failure", service.Classify(err)).
			Warn("market data unavailable, serving default visual params")
		c.JSON(http.StatusOK, VisualParamsResponse{Source: VisualSourceDefault, Params: visual.Default()})
		return
	}

	params := visual.Map(res.Payload)
	if params == nil {
		c.JSON(http.StatusOK, VisualParamsResponse{Source: VisualSourceDefault, Params: visual.Default()})
		return
	}

	reading := res.Payload.LatestFearAndGreed
	c.JSON(http.StatusOK, VisualParamsResponse{
		Source: VisualSourceLive,
		Label:  visual.Label(reading.Classification, reading.Value),
		Params: *params,
	})
}
