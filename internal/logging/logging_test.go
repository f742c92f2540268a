package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	l := NewWithWriter(&buf, zapcore.InfoLevel, loc)
	l.Debug("hidden")
	l.Info("upload_committed", zap.String("document_id", "d1"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "upload_committed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "d1", entry["document_id"])
	assert.Contains(t, entry["ts"], "+07:00")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", time.UTC)
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	l := zap.NewNop()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
