package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/medialib-admin/internal/http/handlers"
	httpMW "github.com/yungbote/medialib-admin/internal/http/middleware"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AdminAuth *httpMW.AdminAuth

	HealthHandler *httpH.HealthHandler
	DedupeHandler *httpH.DedupeHandler

	// Metrics serves /metrics when set.
	Metrics nethttp.Handler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	admin := r.Group("/api/admin")
	if cfg.AdminAuth != nil {
		admin.Use(cfg.AdminAuth.RequireAdmin())
	}
	if h := cfg.DedupeHandler; h != nil {
		// Duplicate review
		admin.GET("/duplicates", h.Scan)
		admin.GET("/duplicates/pending", h.Pending)
		admin.POST("/duplicates/decide", h.Decide)
		admin.POST("/duplicates/decline", h.Decline)

		// Direct merge operations
		admin.POST("/merge", h.Merge)
		admin.POST("/reclassify", h.Reclassify)
		admin.GET("/entities/search", h.Search)

		// History ledger
		admin.GET("/merge-history", h.History)
		admin.DELETE("/merge-history", h.ClearHistory)
	}

	return r
}
