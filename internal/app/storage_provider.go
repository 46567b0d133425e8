package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/medialib-admin/internal/platform/gcp"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

var newBucketServiceWithConfig = gcp.NewBucketServiceWithConfig

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidURL          StorageProviderBootstrapErrorCode = "invalid_url"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "image storage bootstrap failed"
	}
	return fmt.Sprintf(
		"image storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func imageStorageConfig(cfg Config) gcp.ImageStorageConfig {
	sc := gcp.ImageStorageConfig{
		Mode:          gcp.ObjectStorageMode(cfg.ObjectStorageMode),
		EmulatorHost:  cfg.StorageEmulatorHost,
		Bucket:        cfg.ImageBucket,
		CDNDomain:     cfg.ImageCDNDomain,
		PublicBaseURL: cfg.ImagePublicBaseURL,
	}
	if sc.Mode == "" {
		if sc.EmulatorHost != "" {
			sc.Mode = gcp.ObjectStorageModeGCSEmulator
			sc.ModeInferred = true
		} else {
			sc.Mode = gcp.ObjectStorageModeGCS
		}
	}
	return sc
}

// resolveBucketService returns nil without error when no image bucket is
// configured; merges then skip the image step.
func resolveBucketService(log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	if cfg.ImageBucket == "" {
		log.Warn("IMAGE_GCS_BUCKET_NAME not set; entity images are disabled")
		return nil, nil
	}
	storageCfg := imageStorageConfig(cfg)

	log.Info(
		"Selecting image storage provider",
		"mode", storageCfg.Mode,
		"mode_inferred", storageCfg.ModeInferred,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", storageCfg.Bucket,
	)

	bucket, err := newBucketServiceWithConfig(log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error(
			"Image storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ImageStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.StorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.StorageConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.StorageConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.StorageConfigErrorInvalidURL:
			code = StorageProviderBootstrapErrorInvalidURL
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
