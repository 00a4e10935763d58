package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"horizonfolio/internal/domain"
	"horizonfolio/internal/logger"
	"horizonfolio/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client-visible failure messages. Only server logs tell failures apart.
const (
	msgConfigurationError = "Server configuration error."
	msgInternalError      = "An internal server error occurred."
)

const (
	defaultHistoryLimit = 24
	maxHistoryLimit     = 100
)

type HistoryResponse struct {
	Readings []domain.SentimentHistoryEntry `json:"readings"`
}

// GetMarketData godoc
// @Summary      Latest crypto Fear & Greed reading
// @Description  Proxies the CoinMarketCap Fear & Greed index through a revalidation cache. The upstream credential never leaves the server.
// @Tags         market-data
// @Produce      json
// @Success      200  {object}  domain.CombinedMarketPayload
// @Failure      500  {object}  map[string]string
// @Router       /api/market-data [get]
func (h *Handler) GetMarketData(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-data")
	defer span.End()

	res, err := h.marketData.GetMarketData(ctx)
	if err != nil {
		span.SetStatus(codes.Error, service.Classify(err))
		h.writeMarketDataError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("cache.hit", res.Hit))
	writeFreshness(c, res, h.now)
	c.JSON(http.StatusOK, res.Payload)
}

// RefreshMarketData godoc
// @Summary      Force a market data refresh
// @Description  Fetches from upstream regardless of cache freshness. Requires X-API-Key.
// @Tags         admin
// @Produce      json
// @Param        X-API-Key  header  string  true  "Admin API key"
// @Success      200  {object}  domain.CombinedMarketPayload
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/admin/market-data/refresh [post]
func (h *Handler) RefreshMarketData(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-market-data")
	defer span.End()

	res, err := h.marketData.Refresh(ctx)
	if err != nil {
		span.SetStatus(codes.Error, service.Classify(err))
		h.writeMarketDataError(c, err)
		return
	}
	writeFreshness(c, res, h.now)
	c.JSON(http.StatusOK, res.Payload)
}

// GetMarketDataHistory godoc
// @Summary      Recent sentiment readings
// @Description  Readings recorded on each fresh upstream fetch, newest first. Requires Postgres.
// @Tags         market-data
// @Produce      json
// @Param        limit  query  int  false  "Number of readings (1-100, default 24)"
// @Success      200  {object}  HistoryResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/market-data/history [get]
func (h *Handler) GetMarketDataHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-data-history")
	defer span.End()

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sentiment history is not enabled"})
		return
	}

	limit, err := parseHistoryLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Int("limit", limit))

	readings, err := h.history.RecentReadings(ctx, limit)
	if err != nil {
		logger.WithComponent("handler").WithError(err).Error("failed to read sentiment history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if readings == nil {
		readings = []domain.SentimentHistoryEntry{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Readings: readings})
}

func (h *Handler) writeMarketDataError(c *gin.Context, err error) {
	log := logger.WithComponent("handler").WithField("failure", service.Classify(err))
	if service.Classify(err) == service.FailureConfiguration {
		log.Error("COINMARKETCAP_API_KEY is not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgConfigurationError})
		return
	}
	log.WithError(err).Error("failed to serve market data")
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
}

func writeFreshness(c *gin.Context, res *service.MarketDataResult, now func() time.Time) {
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", res.MaxAge(now())))
	if res.Hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
}

// parseHistoryLimit accepts an empty value (default) or an integer, clamped to [1, maxHistoryLimit].
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %q", raw)
	}
	if n < 1 {
		return 1, nil
	}
	if n > maxHistoryLimit {
		return maxHistoryLimit, nil
	}
	return n, nil
}
