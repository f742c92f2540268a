package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var newBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

type retrying struct {
	Storage
	maxTries uint
}

// WithRetry retries transient backend failures with exponential backoff. Put is only
// retried when the body can be rewound.
func WithRetry(s Storage, maxTries int) Storage {
	if maxTries <= 1 {
		return s
	}
	return &retrying{Storage: s, maxTries: uint(maxTries)}
}

func (r *retrying) Put(ctx context.Context, key string, body io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	seeker, ok := body.(io.Seeker)
	if !ok {
		return r.Storage.Put(ctx, key, body, opt)
	}
	first := true
	return retry(ctx, r.maxTries, func() (ObjectInfo, error) {
		if !first {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return ObjectInfo{}, backoff.Permanent(err)
			}
		}
		first = false
		return r.Storage.Put(ctx, key, body, opt)
	})
}

func (r *retrying) Delete(ctx context.Context, key string) error {
	_, err := retry(ctx, r.maxTries, func() (struct{}, error) {
		return struct{}{}, r.Storage.Delete(ctx, key)
	})
	return err
}

// DeleteMany retries only the keys that failed in the previous round.
func (r *retrying) DeleteMany(ctx context.Context, keys []string) ([]string, error) {
	pending := keys
	var lastErr error
	_, err := retry(ctx, r.maxTries, func() (struct{}, error) {
		failed, err := r.Storage.DeleteMany(ctx, pending)
		if err == nil {
			pending = nil
			return struct{}{}, nil
		}
		if len(failed) > 0 {
			pending = failed
		}
		lastErr = err
		return struct{}{}, err
	})
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return pending, lastErr
	}
	return nil, nil
}

func (r *retrying) Exists(ctx context.Context, key string) (bool, error) {
	return retry(ctx, r.maxTries, func() (bool, error) {
		return r.Storage.Exists(ctx, key)
	})
}

func retry[T any](ctx context.Context, maxTries uint, op func() (T, error)) (T, error) {
	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(maxTries),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return v, perm.Unwrap()
	}
	return v, err
}
