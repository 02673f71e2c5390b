package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coursehub/curriculum-server-go/pkg/metrics"
)

// SlogLogger implements gorm's logger interface with structured logging and metrics.
type SlogLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
	logLevel      logger.LogLevel
}

// NewSlogLogger creates a GORM logger that routes to slog and records query metrics.
func NewSlogLogger(appLogger *slog.Logger, slowThreshold time.Duration) logger.Interface {
	return &SlogLogger{
		logger:        appLogger,
		slowThreshold: slowThreshold,
		logLevel:      logger.Warn,
	}
}

func (l *SlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *SlogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	metrics.RecordDBQuery(extractOperation(sql), extractTable(sql), elapsed)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "query failed",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.logger.WarnContext(ctx, "slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.logLevel >= logger.Info:
		l.logger.DebugContext(ctx, "query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func extractOperation(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
		return strings.ToLower(trimmed[:idx])
	}
	return "unknown"
}

func extractTable(sql string) string {
	lowered := strings.ToLower(sql)

	for _, keyword := range []string{" from ", "insert into ", "update ", "delete from "} {
		idx := strings.Index(lowered, keyword)
		if idx == -1 {
			continue
		}

		rest := strings.TrimSpace(lowered[idx+len(keyword):])
		rest = strings.Trim(rest, `"`)
		if end := strings.IndexAny(rest, ` "(`); end > 0 {
			rest = rest[:end]
		}
		if rest != "" {
			return rest
		}
	}

	return "unknown"
}
