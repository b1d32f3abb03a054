package contract

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	logger = mustLogger(false)
)

// mustLogger builds the console logger, falling back to a no-op one.
func mustLogger(verbose bool) *zap.SugaredLogger {
	l, err := newLogger(verbose)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// newLogger builds a development-style logger writing to stderr so that
// stdout stays free for tables and JSON.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// InitLogger replaces the package logger. Verbose enables debug output.
func InitLogger(verbose bool) error {
	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger swaps the package logger. Tests use it with an observer core.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l.Sugar()
}

// Logger returns the package logger.
func Logger() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = Logger().Sync()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Errorw(msg, "error", err)
	SyncLogger()
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warnw(msg, "error", err)
}

// LogInfo logs an informational message with key-value pairs.
func LogInfo(msg string, keysAndValues ...any) {
	Logger().Infow(msg, sanitizeKVs(keysAndValues)...)
}

// LogDebug logs a debug message with key-value pairs.
func LogDebug(msg string, keysAndValues ...any) {
	Logger().Debugw(msg, sanitizeKVs(keysAndValues)...)
}

// sanitizeKVs redacts values whose key names a credential.
func sanitizeKVs(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.ToLower(fmt.Sprint(kv[i]))
		val := kv[i+1]
		if isSecretKey(key) {
			val = "[REDACTED]"
		}
		out = append(out, kv[i], val)
	}
	return out
}

func isSecretKey(key string) bool {
	for _, marker := range []string{"token", "password", "secret", "connect", "dsn"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
