package stdlogger_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/logger"
	"github.com/jesite/jesite/internal/logger/adapter/stdlogger"
)

var _ cron.Logger = (*stdlogger.Logger)(nil)

func TestAdapter(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
	}{
		{
			name:             "no logger enabled",
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
			name: "console writer enabled",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := capture(t, func() {
				require.NoError(t, logger.Init(tc.cfg))

				l := stdlogger.New("test")
				l.Debugf("stdlogger %s", "test debug")
				l.Infof("stdlogger %s", "test info")
				l.Warningf("stdlogger %s", "test warning")
				l.Errorf("stdlogger %s", "test error")
			})

			if tc.shouldHaveOutPut {
				assert.Contains(t, out, "stdlogger test info")
				assert.NotContains(t, out, "stdlogger test debug")
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestCronLogger(t *testing.T) {
	out := capture(t, func() {
		require.NoError(t, logger.Init(logger.Log{
			LogLevel: "debug", ServiceName: "test", AppName: "test",
			Console: logger.Console{Enabled: true},
		}))

		l := stdlogger.New("cron")
		l.Info("wake", "now", "2026-01-01")
		l.Error(errors.New("job failed"), "run", "entry", 3, "dangling")
	})

	assert.Contains(t, out, `"component":"cron"`)
	assert.Contains(t, out, `"now":"2026-01-01"`)
	assert.Contains(t, out, `"entry":3`)
	assert.Contains(t, out, "job failed")
	assert.NotContains(t, out, "dangling")
}

func capture(t *testing.T, fn func()) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	return <-outC
}
