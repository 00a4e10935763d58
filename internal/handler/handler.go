package handler

import (
	"context"
	"time"

	"horizonfolio/internal/domain"
	"horizonfolio/internal/metrics"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type MarketDataService interface {
	GetMarketData(ctx context.Context) (*service.MarketDataResult, error)
	Refresh(ctx context.Context) (*service.MarketDataResult, error)
}

type HistoryReader interface {
	RecentReadings(ctx context.Context, limit int) ([]domain.SentimentHistoryEntry, error)
}

type Handler struct {
	tracer     trace.Tracer
	marketData MarketDataService
	history    HistoryReader
	content    *portfolio.Content
	adminKey   string
	now        func() time.Time
}

// New wires the HTTP surface. history may be nil when Postgres is not configured.
func New(
	tracer trace.Tracer,
	marketData MarketDataService,
	history HistoryReader,
	content *portfolio.Content,
	adminKey string,
) *Handler {
	if content == nil {
		content = portfolio.Default()
	}
	return &Handler{
		tracer:     tracer,
		marketData: marketData,
		history:    history,
		content:    content,
		adminKey:   adminKey,
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/market-data", h.GetMarketData)
	api.GET("/market-data/history", h.GetMarketDataHistory)
	api.GET("/visual-params", h.GetVisualParams)
	api.GET("/portfolio/profile", h.GetProfile)
	api.GET("/portfolio/projects", h.GetProjects)
	api.GET("/portfolio/projects/:id", h.GetProject)

	// The refresh endpoint spends upstream credits, so it only exists with a key.
	if h.adminKey != "" {
		admin := api.Group("/admin", APIKeyAuth(h.adminKey))
		admin.POST("/market-data/refresh", h.RefreshMarketData)
	}
}
