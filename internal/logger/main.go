// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirMode = 0o750

// LevelWriter splits log output by level.
// Trace and warn have their own writer, error and above share one, debug and info share one.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init the zerolog logger.
// Depending on the config it enables all, some or no logger at all.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(logLevel)

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if fw := newRollingLevelFiles(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	zctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		zctx = zctx.Stack()
	case cfg.ReportCaller:
		zctx = zctx.Caller()
	}

	log.Logger = zctx.Logger()

	return nil
}

// NewRollingFile returns a lumberjack writer for f below dir.
func NewRollingFile(dir string, f RollingFile) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, f.Name),
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
	}
}

// newRollingLevelFiles writes every level group into its own rotated file.
func newRollingLevelFiles(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, logDirMode); err != nil {
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		ErrorWriter: NewRollingFile(cfg.File.Path, cfg.File.ErrorFile()),
		InfoWriter:  NewRollingFile(cfg.File.Path, cfg.File.InfoFile()),
		TraceWriter: NewRollingFile(cfg.File.Path, cfg.File.TraceFile()),
		WarnWriter:  NewRollingFile(cfg.File.Path, cfg.File.WarnFile()),
	}
}

// NewConsoleWriter writes info and debug to stdout, everything else to stderr.
// UseConsoleWriter switches from json lines to zerolog's human readable output.
func NewConsoleWriter(cfg Log) io.Writer {
	wrap := func(out *os.File) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return out
		}

		return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: wrap(os.Stderr),
		InfoWriter:  wrap(os.Stdout),
		TraceWriter: wrap(os.Stderr),
		WarnWriter:  wrap(os.Stderr),
	}
}
