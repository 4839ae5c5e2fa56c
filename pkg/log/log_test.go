package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdirect/cfdirect/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    slog.Level
		wantErr bool
	}{
		"error":   {want: slog.LevelError},
		"warn":    {want: slog.LevelWarn},
		"WARNING": {want: slog.LevelWarn},
		"Info":    {want: slog.LevelInfo},
		"debug":   {want: slog.LevelDebug},
		"trace":   {wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(name)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr error
		level   string
		format  string
	}{
		"text":           {level: "info", format: "text"},
		"logfmt":         {level: "debug", format: "logfmt"},
		"json":           {level: "warn", format: "JSON"},
		"invalid level":  {level: "loud", format: "text", wantErr: log.ErrUnknownLevel},
		"invalid format": {level: "info", format: "xml", wantErr: log.ErrUnknownFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger, err := log.New(&bytes.Buffer{}, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, logger)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := log.New(buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("updated", slog.String("path", "/tmp/config.json"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "updated", entry["msg"])
	assert.Equal(t, "/tmp/config.json", entry["path"])
}

func TestNew_TextIsPlainForBuffers(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := log.New(buf, "info", "text")
	require.NoError(t, err)

	logger.Warn("skipped", slog.String("path", "a.json"))

	assert.Contains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "path=a.json")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), log.FromContext(context.Background()))

	logger, err := log.New(&bytes.Buffer{}, "info", "logfmt")
	require.NoError(t, err)

	ctx := log.NewContext(context.Background(), logger)

	assert.Same(t, logger, log.FromContext(ctx))
}
