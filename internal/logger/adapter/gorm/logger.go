// Package gorm routes gorm's query log into zerolog.
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormdb "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of the global zerolog logger.
type Logger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New returns a gorm logger logging warnings and slower queries than slowThreshold.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{level: gormlogger.Warn, slowThreshold: slowThreshold}
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level

	return &out
}

// Info implements logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		log.Info().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Trace implements logger.Interface. Not-found lookups are expected and not logged as errors.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormdb.ErrRecordNotFound):
		event = log.Error().Err(err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = log.Warn().Dur("threshold", l.slowThreshold)
	case l.level >= gormlogger.Info:
		event = log.Debug()
	default:
		return
	}

	sql, rows := fc()
	event.Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
}
