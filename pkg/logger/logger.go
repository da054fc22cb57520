package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is stamped on every entry so bot logs can be told apart in shared sinks.
const Service = "hrbot"

// New builds the process logger: JSON for log collectors, colored console for
// local runs. Errors carry a stack trace in JSON mode only.
func New(json bool, debug bool) (*zap.Logger, error) {
	stack := zapcore.FatalLevel
	if json {
		stack = zapcore.ErrorLevel
	}
	cfg := newConfig(json, debug)
	return cfg.Build(zap.AddStacktrace(stack))
}

func newConfig(json bool, debug bool) zap.Config {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	enc := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	encoding := "console"
	if json {
		encoding = "json"
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	} else {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	return zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		Development:       debug,
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     map[string]any{"service": Service},
		EncoderConfig:     enc,
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// WithChat attaches the conversation identity fields to the logger.
func WithChat(l *zap.Logger, chatID, userID int64) *zap.Logger {
	return OrNop(l).With(zap.Int64("chat_id", chatID), zap.Int64("user_id", userID))
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
