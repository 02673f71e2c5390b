package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a structured slog.Logger based on the provided level string.
// Output goes to the console as text and to logs/ as JSON, with errors
// duplicated into a dedicated error log.
func New(level string) (*slog.Logger, error) {
	handlerLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join("logs", "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	infoFile, err := os.OpenFile(filepath.Join("logs", "info.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: handlerLevel})
	infoJSON := slog.NewJSONHandler(infoFile, &slog.HandlerOptions{Level: handlerLevel})
	errorJSON := slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(newFanoutHandler(handlerLevel, console, infoJSON, errorJSON)), nil
}

// fanoutHandler routes records to the console and file handlers.
type fanoutHandler struct {
	console   slog.Handler
	infoFile  slog.Handler
	errorFile slog.Handler
	level     slog.Leveler
}

func newFanoutHandler(level slog.Leveler, console, infoFile, errorFile slog.Handler) *fanoutHandler {
	return &fanoutHandler{
		console:   console,
		infoFile:  infoFile,
		errorFile: errorFile,
		level:     level,
	}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.console.Handle(ctx, r); err != nil {
		return err
	}

	if err := h.infoFile.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= slog.LevelError {
		return h.errorFile.Handle(ctx, r)
	}

	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fanoutHandler{
		console:   h.console.WithAttrs(attrs),
		infoFile:  h.infoFile.WithAttrs(attrs),
		errorFile: h.errorFile.WithAttrs(attrs),
		level:     h.level,
	}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return &fanoutHandler{
		console:   h.console.WithGroup(name),
		infoFile:  h.infoFile.WithGroup(name),
		errorFile: h.errorFile.WithGroup(name),
		level:     h.level,
	}
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, errors.New("invalid log level")
	}
}
