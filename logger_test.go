package letterstim

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError), "silent by default")

	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	Logger().Info("hello")
	assert.Contains(t, logs.String(), "msg=hello")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
	assert.False(t, Logger().With("k", 1).WithGroup("g").Enabled(context.Background(), slog.LevelError))
}
