package logger

import "testing"

func TestRedactKVsMasksSecrets(t *testing.T) {
	redactOnce.Do(func() {})
	redactOn = true

	out := redactKVs([]interface{}{"jwt_secret", "s3cr3t", "category", "directors", "dangling"})
	if len(out) != 5 {
		t.Fatalf("len: want=5 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("secret: want=[REDACTED] got=%v", out[1])
	}
	if out[3] != "directors" {
		t.Fatalf("category: want=directors got=%v", out[3])
	}
	if out[4] != "dangling" {
		t.Fatalf("dangling key dropped: got=%v", out[4])
	}
}

func TestNewTestModeIsSilent(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("service", "x").Info("hello", "k", "v")
	log.Sync()
}
