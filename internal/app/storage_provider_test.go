package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/medialib-admin/internal/platform/gcp"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.StorageConfigError{Code: gcp.StorageConfigErrorInvalidMode}, StorageProviderBootstrapErrorInvalidMode},
		{"missing emulator host", &gcp.StorageConfigError{Code: gcp.StorageConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid url", &gcp.StorageConfigError{Code: gcp.StorageConfigErrorInvalidURL}, StorageProviderBootstrapErrorInvalidURL},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		err := classifyStorageProviderBootstrapError(gcp.ImageStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.err)
		var got *StorageProviderBootstrapError
		if !errors.As(err, &got) {
			t.Fatalf("%s: expected StorageProviderBootstrapError, got=%T", tc.name, err)
		}
		if got.Code != tc.want {
			t.Fatalf("%s: code: want=%q got=%q", tc.name, tc.want, got.Code)
		}
	}
}

func TestResolveBucketServiceDisabledWithoutBucket(t *testing.T) {
	orig := newBucketServiceWithConfig
	t.Cleanup(func() { newBucketServiceWithConfig = orig })
	newBucketServiceWithConfig = func(*logger.Logger, gcp.ImageStorageConfig) (gcp.BucketService, error) {
		t.Fatalf("bucket constructor must not run without a bucket name")
		return nil, nil
	}

	got, err := resolveBucketService(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if got != nil {
		t.Fatalf("bucket: want nil got %T", got)
	}
}

func TestResolveBucketServiceInvalidMode(t *testing.T) {
	_, err := resolveBucketService(logger.Nop(), Config{
		ObjectStorageMode: "invalid",
		ImageBucket:       "media",
	})
	if code := storageProviderBootstrapErrorCode(err); err == nil || code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q (err=%v)", StorageProviderBootstrapErrorInvalidMode, code, err)
	}
}

func TestResolveBucketServiceModeSelection(t *testing.T) {
	orig := newBucketServiceWithConfig
	t.Cleanup(func() { newBucketServiceWithConfig = orig })

	var captured gcp.ImageStorageConfig
	expected := &testBucketService{}
	newBucketServiceWithConfig = func(_ *logger.Logger, cfg gcp.ImageStorageConfig) (gcp.BucketService, error) {
		captured = cfg
		return expected, nil
	}

	got, err := resolveBucketService(logger.Nop(), Config{ImageBucket: "media"})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if got != expected {
		t.Fatalf("bucket: expected stub bucket instance")
	}
	if captured.Mode != gcp.ObjectStorageModeGCS || captured.Bucket != "media" {
		t.Fatalf("default mode: got %+v", captured)
	}

	_, err = resolveBucketService(logger.Nop(), Config{ImageBucket: "media", StorageEmulatorHost: "http://fake-gcs:4443"})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if captured.Mode != gcp.ObjectStorageModeGCSEmulator || !captured.ModeInferred {
		t.Fatalf("inferred emulator mode: got %+v", captured)
	}
}

func TestResolveBucketServiceEmulatorHostErrors(t *testing.T) {
	cases := []struct {
		host string
		want StorageProviderBootstrapErrorCode
	}{
		{"", StorageProviderBootstrapErrorMissingEmulatorHost},
		{"not-a-url", StorageProviderBootstrapErrorInvalidURL},
	}
	for _, tc := range cases {
		_, err := resolveBucketService(logger.Nop(), Config{
			ObjectStorageMode:   string(gcp.ObjectStorageModeGCSEmulator),
			StorageEmulatorHost: tc.host,
			ImageBucket:         "media",
		})
		if code := storageProviderBootstrapErrorCode(err); err == nil || code != tc.want {
			t.Fatalf("host %q: want=%q got=%q (err=%v)", tc.host, tc.want, code, err)
		}
	}
}

type testBucketService struct{}

func (t *testBucketService) DeleteFile(ctx context.Context, key string) error { return nil }

func (t *testBucketService) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	return nil
}

func (t *testBucketService) KeyExists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (t *testBucketService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (t *testBucketService) GetPublicURL(key string) string { return "" }
