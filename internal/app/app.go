package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/yungbote/medialib-admin/internal/data/db"
	apphttp "github.com/yungbote/medialib-admin/internal/http"
	"github.com/yungbote/medialib-admin/internal/observability"
	"github.com/yungbote/medialib-admin/internal/platform/envutil"
	"github.com/yungbote/medialib-admin/internal/platform/gcp"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Bucket   gcp.BucketService
	Registry *prometheus.Registry

	dbService    *db.Service
	closeHistory func() error
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	dbs, err := db.NewService(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.dbService = dbs
	a.DB = dbs.DB()
	if err := db.AutoMigrateAll(a.DB); err != nil {
		a.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	if err := db.EnsureIndexes(a.DB); err != nil {
		log.Warn("Name indexes not created", "error", err)
	}

	a.Repos = wireRepos(a.DB, log)

	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Bucket = bucket

	kv, closeHistory, err := resolveHistoryKV(log, cfg, a.DB, a.Repos.History)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closeHistory = closeHistory

	var metrics *observability.DedupeMetrics
	if cfg.MetricsEnabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err = observability.NewDedupeMetrics(a.Registry)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Services, err = wireServices(log, cfg, a.Repos, bucket, kv, metrics)
	if err != nil {
		a.Close()
		return nil, err
	}

	handlerset := wireHandlers(log, a.Services)
	middleware := wireMiddleware(log, cfg)
	a.Server = wireServer(log, cfg, handlerset, middleware, a.Registry)
	return a, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = ":" + a.Cfg.Port
	}
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.closeHistory != nil {
		_ = a.closeHistory()
		a.closeHistory = nil
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
		a.dbService = nil
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
