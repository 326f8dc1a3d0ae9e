// Package stdlogger adapts the global zerolog logger to printf style and key/value logger interfaces.
package stdlogger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards to the global zerolog logger.
// It satisfies robfig/cron's Logger interface.
type Logger struct {
	component string
}

// New returns a Logger tagging every line with the given component.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

func (l *Logger) event(e *zerolog.Event) *zerolog.Event {
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.event(log.Debug()).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.event(log.Info()).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.event(log.Warn()).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.event(log.Error()).Msgf(format, args...)
}

// Info logs a message with key/value pairs at debug level; cron reports every tick through it.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.event(log.Debug()).Fields(pairs(keysAndValues)).Msg(msg)
}

// Error logs an error with key/value pairs.
func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.event(log.Error()).Err(err).Fields(pairs(keysAndValues)).Msg(msg)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2) //nolint:mnd
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
