package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	loggerEncoding   = "console"
	loggerMessageKey = "message"
	loggerLevelKey   = "level"
	loggerOutputPath = "stderr"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output
// on stderr, keeping stdout free for the document. Verbose loggers also emit debug entries,
// which carry per-file decisions, and prefix every entry with its level.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = loggerEncoding
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{loggerOutputPath}
	config.ErrorOutputPaths = []string{loggerOutputPath}
	config.Sampling = nil
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = loggerMessageKey
	config.EncoderConfig.StacktraceKey = ""
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.EncoderConfig.LevelKey = loggerLevelKey
	}
	return config.Build()
}
