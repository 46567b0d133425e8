package app

import (
	httpH "github.com/yungbote/medialib-admin/internal/http/handlers"
	httpMW "github.com/yungbote/medialib-admin/internal/http/middleware"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type Middleware struct {
	AdminAuth *httpMW.AdminAuth
}

type Handlers struct {
	Health *httpH.HealthHandler
	Dedupe *httpH.DedupeHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Dedupe: httpH.NewDedupeHandler(log, services.Dedupe),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		AdminAuth: httpMW.NewAdminAuth(log, cfg.AdminJWTSecret),
	}
}
