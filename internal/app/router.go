package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphttp "github.com/yungbote/medialib-admin/internal/http"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, registry *prometheus.Registry) *apphttp.Server {
	rc := apphttp.RouterConfig{
		Log:           log,
		ServiceName:   cfg.ServiceName,
		CORSOrigins:   cfg.CORSOrigins,
		AdminAuth:     middleware.AdminAuth,
		HealthHandler: handlers.Health,
		DedupeHandler: handlers.Dedupe,
	}
	if registry != nil {
		rc.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}
	return apphttp.NewServer(rc)
}
