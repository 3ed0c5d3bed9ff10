package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 控制日志记录器的级别
type Options struct {
	Debug   bool
	Verbose bool
	// Level 为空时根据 Debug 与 Verbose 决定
	Level string
}

// NewLogger 创建一个新的日志记录器
func NewLogger(debug bool) *zap.Logger {
	logger, err := New(Options{Debug: debug})
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}
	return logger
}

// New 根据选项创建日志记录器，输出到 stderr
func New(opts Options) (*zap.Logger, error) {
	level, err := ResolveLevel(opts)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	if !opts.Debug {
		config.DisableCaller = true
	}

	return config.Build()
}

// ResolveLevel 计算日志级别。debug 优先，其次是显式配置的级别，verbose 只在未配置级别时生效。
func ResolveLevel(opts Options) (zapcore.Level, error) {
	if opts.Debug {
		return zap.DebugLevel, nil
	}
	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return zap.InfoLevel, err
		}
		return level, nil
	}
	if opts.Verbose {
		return zap.InfoLevel, nil
	}
	return zap.WarnLevel, nil
}
