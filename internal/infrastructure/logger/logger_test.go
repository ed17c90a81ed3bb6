package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/infrastructure/logger"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("prod writes json at info", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter("prod", &buf)

		log.Debug("hidden")
		log.Info("post created", slog.String("post_id", "abc"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "post created", entry["msg"])
		assert.Equal(t, "abc", entry["post_id"])
	})

	t.Run("dev writes text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter("dev", &buf)

		log.Debug("cache miss", slog.String("post_id", "abc"))

		assert.Contains(t, buf.String(), "cache miss")
		assert.Contains(t, buf.String(), "post_id=abc")
	})

	t.Run("with keeps attributes", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter("test", &buf).With(slog.String("component", "assets"))

		log.Warn("cleanup failed")

		assert.Contains(t, buf.String(), "component=assets")
	})
}
