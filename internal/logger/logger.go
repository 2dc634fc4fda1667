// Package logger builds the zap logger used for diagnostics on stderr.
package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents logger configuration
type Config struct {
	// Verbosity is the number of -v flags: 0 logs warnings and errors, 1
	// adds run details, 2 or more adds one line per read.
	Verbosity   int
	Development bool
	Encoding    string // json or console
	OutputPaths []string
	// Output, when set, replaces OutputPaths.
	Output io.Writer
}

// Level maps a verbosity count to a zap level.
func Level(verbosity int) zapcore.Level {
	switch {
	case verbosity >= 2:
		return zapcore.DebugLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}

// New creates a new zap logger
func New(cfg Config) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	if cfg.Output != nil {
		var enc zapcore.Encoder
		switch encoding {
		case "console":
			enc = zapcore.NewConsoleEncoder(encoderConfig)
		case "json":
			enc = zapcore.NewJSONEncoder(encoderConfig)
		default:
			return nil, fmt.Errorf("unknown log encoding %q", encoding)
		}
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(cfg.Output), Level(cfg.Verbosity))), nil
	}
	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(Level(cfg.Verbosity)),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
