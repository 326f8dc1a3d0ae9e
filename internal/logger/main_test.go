package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/logger"
)

func TestLogger(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name:             "no logger enabled log level not set",
			cfg:              logger.Log{ServiceName: "test", AppName: "test"},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console writer trace",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "json lines info",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "json lines trace with stack",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test", ReportCaller: true,
				Console: logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureOutput(t, func() {
				require.NoError(t, logger.Init(tc.cfg))

				log.Info().Msg("this info message should be seen...")
				log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...")
				log.Trace().Msg("this trace message should be seen...")
			})

			if tc.shouldHaveOutPut {
				assert.NotEmpty(t, out)
			}

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var decoded struct {
					Level   string `json:"level"`
					App     string `json:"app"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &decoded), "expected json output but got: %s", line)
				assert.Equal(t, "test", decoded.App)
			}
		})
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	require.Error(t, logger.Init(logger.Log{LogLevel: "loud", ServiceName: "s", AppName: "a"}))
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", AppName: "a"}), logger.ErrServiceNameIsEmpty)
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "s"}), logger.ErrAppNameIsEmpty)
}

func TestInitWritesRollingFiles(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			InfoLog:  "info.log",
			ErrorLog: "error.log",
			WarnLog:  "warn.log",
			TraceLog: "trace.log",
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to the info file")
	log.Error().Msg("to the error file")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "to the info file")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to the error file")
	assert.NotContains(t, string(errLog), "to the info file")
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
