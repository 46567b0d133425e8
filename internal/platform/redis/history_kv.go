package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

const defaultHistoryKey = "medialib:merge_history"

// HistoryKV stores merge history in one Redis hash: field is the group
// signature, value the JSON-encoded entry.
type HistoryKV struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	key string
}

type HistoryOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewHistoryKV dials Redis and verifies it with a ping.
func NewHistoryKV(log *logger.Logger, opts HistoryOptions) (*HistoryKV, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewHistoryKVFromClient(log, rdb, opts.Key), nil
}

func NewHistoryKVFromClient(log *logger.Logger, rdb goredis.UniversalClient, key string) *HistoryKV {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultHistoryKey
	}
	return &HistoryKV{log: log.With("service", "RedisHistoryKV", "key", key), rdb: rdb, key: key}
}

func (h *HistoryKV) Get(ctx context.Context, signature string) (*domain.HistoryEntry, error) {
	raw, err := h.rdb.HGet(ctx, h.key, signature).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e domain.HistoryEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode history %q: %w", signature, err)
	}
	return &e, nil
}

func (h *HistoryKV) Put(ctx context.Context, entry *domain.HistoryEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return h.rdb.HSet(ctx, h.key, entry.Signature, raw).Err()
}

func (h *HistoryKV) Delete(ctx context.Context, signature string) error {
	return h.rdb.HDel(ctx, h.key, signature).Err()
}

func (h *HistoryKV) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	all, err := h.rdb.HGetAll(ctx, h.key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.HistoryEntry, 0, len(all))
	for sig, raw := range all {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			h.log.Warn("skipping undecodable history entry", "signature", sig, "error", err)
			continue
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out, nil
}

func (h *HistoryKV) Clear(ctx context.Context) error {
	return h.rdb.Del(ctx, h.key).Err()
}

func (h *HistoryKV) Close() error { return h.rdb.Close() }
