package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/natefinch/lumberjack"

	"cbenchf/internal/ui"
)

const (
	logFileName = "cbenchf.log"

	// Rotation limits for the structured error log.
	maxLogSizeMB  = 10
	maxLogBackups = 5
)

type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
	logFile *lumberjack.Logger
}

func NewErrorHandler() (*ErrorHandler, error) {
	logDir, _, err := createLogDirectoryWithFallback()
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &ErrorHandler{
		logger:  logger,
		console: ui.NewConsole(),
		logFile: logFile,
	}, nil
}

// Close releases the log file.
func (h *ErrorHandler) Close() error {
	if h.logFile == nil {
		return nil
	}
	return h.logFile.Close()
}

// getOSStandardLogDir returns the directory error logs are written to.
// CBENCHF_LOG_DIR wins over the XDG state directory.
func getOSStandardLogDir() (string, error) {
	if customLogDir := os.Getenv("CBENCHF_LOG_DIR"); customLogDir != "" {
		return customLogDir, nil
	}

	if xdg.StateHome == "" {
		return "", fmt.Errorf("XDG state directory is not set")
	}
	return filepath.Join(xdg.StateHome, "cbenchf", "logs"), nil
}

// createLogDirectoryWithFallback creates the log directory with fallback to current directory
func createLogDirectoryWithFallback() (string, bool, error) {
	logDir, err := getOSStandardLogDir()
	if err != nil {
		return fallbackLogDirectory(fmt.Sprintf("Cannot determine standard log directory: %v", err))
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return fallbackLogDirectory(fmt.Sprintf("Cannot access standard log directory %s: %v", logDir, err))
	}

	// Check if we can write to the directory
	testFile := filepath.Join(logDir, ".test_write")
	f, err := os.Create(testFile)
	if err != nil {
		return fallbackLogDirectory(fmt.Sprintf("Cannot access standard log directory %s: %v", logDir, err))
	}
	if err := f.Close(); err != nil {
		slog.Warn("Failed to close test file", "path", testFile, "error", err)
	}
	if err := os.Remove(testFile); err != nil {
		slog.Warn("Failed to remove test file", "path", testFile, "error", err)
	}
	return logDir, false, nil
}

// fallbackLogDirectory warns once and logs to the working directory instead.
func fallbackLogDirectory(warning string) (string, bool, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", true, fmt.Errorf("cannot determine current directory for fallback logging: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Warning: %s. Falling back to current directory for logging.\n", warning)
	return currentDir, true, nil
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var cbenchfErr *CbenchfError
	if errors.As(err, &cbenchfErr) {
		h.handleCbenchfError(cbenchfErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleCbenchfError(err *CbenchfError) {
	h.logStructuredError(err)

	message := h.console.FormatErrorMessage(err.Context, err.Cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *CbenchfError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", getErrorTypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}

	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	if code, ok := ExitCode(err); ok {
		logAttrs = append(logAttrs, slog.Int("exit_code", code))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "cbenchf error occurred", logAttrs...)
}

func getErrorTypeName(errType error) string {
	switch errType {
	case ErrPermissionDenied:
		return "permission_denied"
	case ErrProcessFailed:
		return "process_failed"
	case ErrSocketUnavailable:
		return "socket_unavailable"
	case ErrRuntimeFailed:
		return "runtime_failed"
	case ErrConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}
