// Package logger owns the process-wide zap logger. Components take a named
// child with Named once Init has run; code without a natural owner uses the
// package helpers.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L       *zap.Logger
	S       *zap.SugaredLogger
	logFile *os.File
)

// Init opens the log file, truncating the previous run's log, and installs a
// console encoded logger at info level, or debug level when debug is set.
func Init(debug bool) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	Use(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(f), level))
	S.Infow("logger initialized", "path", path, "debug", debug)
	return nil
}

// Use installs a logger writing to core. Tests pass an observer core.
func Use(core zapcore.Core) {
	L = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Close flushes the logger and releases the log file.
func Close() {
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Path returns $CODEPAD_LOG_FILE, or codepad.log in the config directory.
func Path() (string, error) {
	if v := os.Getenv("CODEPAD_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("CODEPAD_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "codepad.log"), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "codepad", "codepad.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "codepad", "codepad.log"), nil
}

// Named returns a child logger for a component. Before Init it is a no-op
// logger, and stays one, so components are built after Init.
func Named(name string) *zap.SugaredLogger {
	if L == nil {
		return zap.NewNop().Sugar()
	}
	return L.Named(name).Sugar()
}

func Debug(msg string, keysAndValues ...any) {
	if S != nil {
		S.Debugw(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...any) {
	if S != nil {
		S.Warnw(msg, keysAndValues...)
	}
}
