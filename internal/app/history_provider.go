package app

import (
	"fmt"

	"gorm.io/gorm"

	historyrepo "github.com/yungbote/medialib-admin/internal/data/repos/history"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/history"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
	redisclient "github.com/yungbote/medialib-admin/internal/platform/redis"
)

var newRedisHistoryKV = redisclient.NewHistoryKV

// resolveHistoryKV picks the ledger backend. The returned closer is never nil.
func resolveHistoryKV(log *logger.Logger, cfg Config, theDB *gorm.DB, repo historyrepo.HistoryRepo) (history.KV, func() error, error) {
	noop := func() error { return nil }
	switch cfg.HistoryBackend {
	case HistoryBackendPostgres, "":
		if theDB == nil || repo == nil {
			return nil, noop, fmt.Errorf("history backend %q requires a database", HistoryBackendPostgres)
		}
		log.Info("Merge history backed by database", "table", "merge_history")
		return historyrepo.NewKV(repo), noop, nil
	case HistoryBackendRedis:
		kv, err := newRedisHistoryKV(log, cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("init redis history: %w", err)
		}
		log.Info("Merge history backed by redis", "addr", cfg.Redis.Addr)
		return kv, kv.Close, nil
	case HistoryBackendMemory:
		log.Warn("Merge history is in-memory; decisions are lost on restart")
		return history.NewMemoryKV(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.HistoryBackend)
	}
}
