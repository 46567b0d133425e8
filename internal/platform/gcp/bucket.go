package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

// BucketService is the object store holding per-entity images.
type BucketService interface {
	DeleteFile(ctx context.Context, key string) error
	CopyObject(ctx context.Context, srcKey, dstKey string) error
	KeyExists(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	GetPublicURL(key string) string
}

type bucketService struct {
	log    *logger.Logger
	client *storage.Client
	cfg    ImageStorageConfig
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	cfg, err := ResolveImageStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve image storage config: %w", err)
	}
	return NewBucketServiceWithConfig(log, cfg)
}

func NewBucketServiceWithConfig(log *logger.Logger, cfg ImageStorageConfig) (BucketService, error) {
	if err := ValidateImageStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate image storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	client, err := newStorageClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog.Info(
		"Image storage initialized",
		"mode", cfg.Mode,
		"mode_inferred", cfg.ModeInferred,
		"emulator_host", cfg.EmulatorHost,
		"bucket", cfg.Bucket,
		"cdn_domain", cfg.CDNDomain,
	)
	return &bucketService{log: serviceLog, client: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg ImageStorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) object(key string) *storage.ObjectHandle {
	return bs.client.Bucket(bs.cfg.Bucket).Object(key)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return ""
	}
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.cfg.Bucket, err)
	}
	return nil
}

func (bs *bucketService) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	copier := bs.object(dstKey).CopierFrom(bs.object(srcKey))
	if ct := contentTypeForKey(dstKey); ct != "" {
		copier.ContentType = ct
	}
	if _, err := copier.Run(ctx); err != nil {
		return fmt.Errorf("copy %s->%s: %w", srcKey, dstKey, err)
	}
	return nil
}

func (bs *bucketService) KeyExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := bs.object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat GCS object %q: %w", key, err)
	}
	return true, nil
}

func (bs *bucketService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.client.Bucket(bs.cfg.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list GCS prefix %q: %w", prefix, err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return publicURL(bs.cfg, key)
}

func publicURL(cfg ImageStorageConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", cfg.CDNDomain, key)
	}
	if cfg.IsEmulatorMode() {
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(cfg.Bucket), url.PathEscape(key))
	}
	if cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
}
