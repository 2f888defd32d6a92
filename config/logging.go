package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath returns the path to the pipeline log file.
func LogFilePath() string {
	return filepath.Join(GetEnvDefault("LOG_DIR", "logs"), "ilumen-report.log")
}

// InitLogging builds the application logger. Output goes to stdout and, when
// the log file can be opened, to LogFilePath as well. The returned file is
// nil when logging is stdout only; callers close it on exit.
func InitLogging() (*zap.Logger, *os.File) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	level := zap.InfoLevel
	if GetEnvDefault("LOG_LEVEL", "") == "debug" {
		level = zap.DebugLevel
	}

	stdout := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)

	logFile, err := openLogFile()
	if err != nil {
		logger := zap.New(stdout)
		logger.Warn("logging to stdout only", zap.Error(err))
		return logger, nil
	}

	core := zapcore.NewTee(stdout, zapcore.NewCore(encoder, zapcore.AddSync(logFile), level))
	return zap.New(core), logFile
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
