package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// ImageStorageConfig selects the GCS backend holding entity images.
type ImageStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	Bucket        string
	CDNDomain     string
	PublicBaseURL string
	// ModeInferred is set when the mode was derived from STORAGE_EMULATOR_HOST.
	ModeInferred bool
}

func (cfg ImageStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type StorageConfigErrorCode string

const (
	StorageConfigErrorInvalidMode         StorageConfigErrorCode = "invalid_mode"
	StorageConfigErrorMissingBucket       StorageConfigErrorCode = "missing_bucket"
	StorageConfigErrorMissingEmulatorHost StorageConfigErrorCode = "missing_emulator_host"
	StorageConfigErrorInvalidURL          StorageConfigErrorCode = "invalid_url"
)

type StorageConfigError struct {
	Code  StorageConfigErrorCode
	Field string
	Value string
	Cause error
}

func (e *StorageConfigError) Error() string {
	if e == nil {
		return "invalid image storage config"
	}
	switch e.Code {
	case StorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case StorageConfigErrorMissingBucket:
		return "missing env var IMAGE_GCS_BUCKET_NAME"
	case StorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", ObjectStorageModeGCSEmulator)
	case StorageConfigErrorInvalidURL:
		return fmt.Sprintf("invalid %s=%q; expected absolute URL like http://fake-gcs:4443", e.Field, e.Value)
	default:
		return "invalid image storage config"
	}
}

func (e *StorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveImageStorageConfigFromEnv() (ImageStorageConfig, error) {
	return ResolveImageStorageConfig(os.Getenv)
}

// ResolveImageStorageConfig reads the storage settings through getenv.
func ResolveImageStorageConfig(getenv func(string) string) (ImageStorageConfig, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }
	cfg := ImageStorageConfig{
		EmulatorHost:  strings.TrimRight(get("STORAGE_EMULATOR_HOST"), "/"),
		Bucket:        get("IMAGE_GCS_BUCKET_NAME"),
		CDNDomain:     get("IMAGE_CDN_DOMAIN"),
		PublicBaseURL: strings.TrimRight(get("OBJECT_STORAGE_PUBLIC_BASE_URL"), "/"),
	}

	rawMode := get("OBJECT_STORAGE_MODE")
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
			cfg.ModeInferred = true
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &StorageConfigError{Code: StorageConfigErrorInvalidMode, Field: "OBJECT_STORAGE_MODE", Value: rawMode}
	}
	return cfg, ValidateImageStorageConfig(cfg)
}

func ValidateImageStorageConfig(cfg ImageStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &StorageConfigError{Code: StorageConfigErrorInvalidMode, Field: "OBJECT_STORAGE_MODE", Value: string(cfg.Mode)}
	}
	if cfg.Bucket == "" {
		return &StorageConfigError{Code: StorageConfigErrorMissingBucket, Field: "IMAGE_GCS_BUCKET_NAME"}
	}
	if cfg.PublicBaseURL != "" {
		if err := requireAbsoluteURL("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &StorageConfigError{Code: StorageConfigErrorMissingEmulatorHost, Field: "STORAGE_EMULATOR_HOST"}
	}
	return requireAbsoluteURL("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
}

func requireAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &StorageConfigError{Code: StorageConfigErrorInvalidURL, Field: field, Value: raw, Cause: err}
	}
	return nil
}
