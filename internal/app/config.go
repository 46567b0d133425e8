package app

import (
	"strings"

	"github.com/yungbote/medialib-admin/internal/data/db"
	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/similarity"
	"github.com/yungbote/medialib-admin/internal/platform/envutil"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
	redisclient "github.com/yungbote/medialib-admin/internal/platform/redis"
)

const (
	HistoryBackendPostgres = "postgres"
	HistoryBackendRedis    = "redis"
	HistoryBackendMemory   = "memory"
)

type Config struct {
	LogMode     string
	Port        string
	ServiceName string
	Environment string

	DB db.Config

	ObjectStorageMode   string
	StorageEmulatorHost string
	ImageBucket         string
	ImageCDNDomain      string
	ImagePublicBaseURL  string
	ImageLayout         domain.ImageLayout

	HistoryBackend string
	Redis          redisclient.HistoryOptions

	ComparabilityConfig string
	FuzzyThreshold      float64

	AdminJWTSecret string
	CORSOrigins    []string
	MetricsEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	layout := domain.DefaultImageLayout()
	threshold := envutil.Float("FUZZY_THRESHOLD", similarity.FuzzyThreshold)
	if threshold <= 0 || threshold >= similarity.ExactScore {
		log.Warn("FUZZY_THRESHOLD out of range; using default", "value", threshold, "default", similarity.FuzzyThreshold)
		threshold = similarity.FuzzyThreshold
	}
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "medialib-admin"),
		Environment: envutil.String("APP_ENV", "development"),

		DB: db.ConfigFromEnv(),

		ObjectStorageMode:   strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "")),
		StorageEmulatorHost: strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		ImageBucket:         envutil.String("IMAGE_GCS_BUCKET_NAME", ""),
		ImageCDNDomain:      envutil.String("IMAGE_CDN_DOMAIN", ""),
		ImagePublicBaseURL:  strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		ImageLayout: domain.ImageLayout{
			Prefix: envutil.String("IMAGE_KEY_PREFIX", layout.Prefix),
			Ext:    envutil.String("IMAGE_KEY_EXT", layout.Ext),
		},

		HistoryBackend: strings.ToLower(envutil.String("HISTORY_BACKEND", HistoryBackendPostgres)),
		Redis: redisclient.HistoryOptions{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Key:      envutil.String("REDIS_HISTORY_KEY", ""),
		},

		ComparabilityConfig: envutil.String("COMPARABILITY_CONFIG", ""),
		FuzzyThreshold:      threshold,

		AdminJWTSecret: envutil.String("ADMIN_JWT_SECRET", ""),
		CORSOrigins:    splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
	}
	if cfg.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set; admin API is unauthenticated")
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
