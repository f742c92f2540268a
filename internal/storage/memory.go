package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrInvalidSignature is returned by Memory.Resolve for tampered or expired URLs.
var ErrInvalidSignature = errors.New("invalid or expired signed url")

type memoryObject struct {
	data []byte
	info ObjectInfo
}

// Memory keeps objects in process memory. Its signed URLs carry an HMAC-SHA256
// signature over key and expiry and are checked by Resolve.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	secret  []byte
	baseURL *url.URL
	now     func() time.Time
}

// NewMemory creates an in-memory store whose signed URLs are rooted at baseURL.
func NewMemory(baseURL, secret string) (*Memory, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse memory base url: %w", err)
	}
	if secret == "" {
		return nil, fmt.Errorf("memory signing secret is required")
	}
	return &Memory{
		objects: map[string]memoryObject{},
		secret:  []byte(secret),
		baseURL: u,
		now:     time.Now,
	}, nil
}

var _ Storage = (*Memory)(nil)

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, err
	}
	if opt.Size >= 0 && int64(len(data)) != opt.Size {
		return ObjectInfo{}, fmt.Errorf("short body: got %d bytes, want %d", len(data), opt.Size)
	}
	sum := sha256.Sum256(data)
	info := ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ETag:         hex.EncodeToString(sum[:16]),
		ContentType:  opt.ContentType,
		LastModified: m.now(),
		Metadata:     opt.Metadata,
	}
	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *Memory) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeleteMany(ctx context.Context, keys []string) ([]string, error) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.objects, k)
	}
	m.mu.Unlock()
	return nil, nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// PresignGet signs key with an absolute expiry. The object need not exist yet.
func (m *Memory) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	exp := m.now().Add(expiry).Unix()
	u := *m.baseURL
	u.Path = u.Path + "/" + key
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(exp, 10))
	q.Set("signature", m.sign(key, exp))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Resolve verifies a URL produced by PresignGet and returns the key it grants.
func (m *Memory) Resolve(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidSignature
	}
	prefix := m.baseURL.Path + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", ErrInvalidSignature
	}
	key := strings.TrimPrefix(u.Path, prefix)
	return m.Verify(key, u.Query().Get("expires"), u.Query().Get("signature"))
}

// Verify checks a key, expiry and signature triple as carried by a signed URL.
func (m *Memory) Verify(key, expires, signature string) (string, error) {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return "", ErrInvalidSignature
	}
	want := m.sign(key, exp)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return "", ErrInvalidSignature
	}
	if m.now().Unix() > exp {
		return "", ErrInvalidSignature
	}
	return key, nil
}

// Keys lists stored keys in lexical order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Memory) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
