package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for the given mode: "production", "test" (no output) or
// anything else for development.
func New(mode string) (*Logger, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return Nop(), nil
	case "prod", "production":
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zap.InfoLevel))
		return build(cfg)
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zap.DebugLevel))
		return build(cfg)
	}
}

// Nop discards everything; used by tests and optional dependencies.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func build(cfg zap.Config) (*Logger, error) {
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

func levelFromEnv(def zapcore.Level) zapcore.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return def
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return def
	}
	return lvl
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, redactKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, redactKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, redactKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, redactKVs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, redactKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(redactKVs(keysAndValues)...)}
}

var (
	redactOnce sync.Once
	redactOn   bool
)

func redactionEnabled() bool {
	redactOnce.Do(func() {
		switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			redactOn = false
		default:
			redactOn = true
		}
	})
	return redactOn
}

func redactKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 || !redactionEnabled() {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		if isSecretKey(strings.ToLower(key)) {
			out = append(out, key, "[REDACTED]")
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}

func isSecretKey(key string) bool {
	for _, needle := range []string{"token", "secret", "password", "authorization", "api_key", "apikey", "cookie"} {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
