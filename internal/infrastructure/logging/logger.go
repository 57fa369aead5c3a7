package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI colors for console level names
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[36m",
	zapcore.InfoLevel:  "\033[32m",
	zapcore.WarnLevel:  "\033[33m",
	zapcore.ErrorLevel: "\033[31m",
	zapcore.FatalLevel: "\033[35m",
}

const resetColor = "\033[0m"

// ParseLevel maps a config string to a zap level. Unknown values fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the application logger on stdout. Production gets JSON; every other
// environment gets a compact colored console format.
func New(level, environment string) (*zap.Logger, error) {
	return NewTo(level, environment, zapcore.Lock(os.Stdout))
}

// NewTo is New writing to out
func NewTo(level, environment string, out zapcore.WriteSyncer) (*zap.Logger, error) {
	if environment == "" {
		return nil, fmt.Errorf("logger environment is required")
	}
	lvl := ParseLevel(level)

	var encoder zapcore.Encoder
	if environment == "production" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "time"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}

	core := zapcore.NewCore(encoder, out, lvl)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "mealplanner-backend")),
	), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		CallerKey:      "caller",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    shortColorLevelEncoder,
		EncodeTime:     shortTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

func shortColorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var name string
	switch l {
	case zapcore.DebugLevel:
		name = "DBG"
	case zapcore.InfoLevel:
		name = "INF"
	case zapcore.WarnLevel:
		name = "WRN"
	case zapcore.ErrorLevel:
		name = "ERR"
	case zapcore.FatalLevel:
		name = "FAT"
	default:
		name = strings.ToUpper(l.String())
	}
	enc.AppendString(levelColors[l] + name + resetColor)
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
