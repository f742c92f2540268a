package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory("http://localhost:8080/blobs", "test-secret")
	require.NoError(t, err)
	return m
}

func TestMemory_PutGetDelete(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	info, err := m.Put(ctx, "ws/a.txt", strings.NewReader("hello"), PutObjectOptions{Size: 5, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)

	rc, got, err := m.Get(ctx, "ws/a.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain", got.ContentType)

	ok, err := m.Exists(ctx, "ws/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	failed, err := m.DeleteMany(ctx, []string{"ws/a.txt", "ws/missing"})
	require.NoError(t, err)
	assert.Empty(t, failed)

	_, _, err = m.Get(ctx, "ws/a.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, m.Delete(ctx, "ws/a.txt"))
}

func TestMemory_PutRejectsShortBody(t *testing.T) {
	m := newTestMemory(t)

	_, err := m.Put(context.Background(), "k", strings.NewReader("abc"), PutObjectOptions{Size: 10})

	assert.Error(t, err)
	assert.Empty(t, m.Keys())
}

func TestMemory_SignedURL(t *testing.T) {
	m := newTestMemory(t)
	base := time.Unix(1700000000, 0)
	m.now = func() time.Time { return base }

	raw, err := m.PresignGet(context.Background(), "ws-1/123-abc-report.pdf", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "http://localhost:8080/blobs/ws-1/123-abc-report.pdf?"))

	t.Run("round trip within ttl", func(t *testing.T) {
		m.now = func() time.Time { return base.Add(59 * time.Minute) }
		key, err := m.Resolve(raw)
		require.NoError(t, err)
		assert.Equal(t, "ws-1/123-abc-report.pdf", key)
	})

	t.Run("rejected after expiry", func(t *testing.T) {
		m.now = func() time.Time { return base.Add(time.Hour + time.Second) }
		_, err := m.Resolve(raw)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejected when tampered", func(t *testing.T) {
		m.now = func() time.Time { return base }
		_, err := m.Resolve(strings.Replace(raw, "report.pdf", "other.pdf", 1))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
