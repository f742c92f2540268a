package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docvault/internal/logging"
)

type stubJob struct {
	name  string
	err   error
	runs  atomic.Int32
	block chan struct{}
}

func (s *stubJob) Name() string { return s.name }

func (s *stubJob) Run(ctx context.Context) error {
	s.runs.Add(1)
	if s.block != nil {
		<-s.block
	}
	return s.err
}

func TestCronScheduler_AddJob(t *testing.T) {
	c := NewCronScheduler(zap.NewNop())

	require.NoError(t, c.AddJob(&stubJob{name: "a"}, "*/5 * * * *"))
	require.NoError(t, c.AddJob(&stubJob{name: "disabled"}, ""))
	assert.Len(t, c.entries, 1)

	assert.Error(t, c.AddJob(&stubJob{name: "a"}, "* * * * *"), "duplicate name")
	assert.Error(t, c.AddJob(&stubJob{name: "bad"}, "not a spec"))
	assert.Error(t, c.AddJob(&stubJob{name: "seconds"}, "*/5 * * * * *"), "seconds field is not accepted")
}

func TestCronScheduler_WrapSkipsOverlappingRuns(t *testing.T) {
	c := NewCronScheduler(zap.NewNop())
	c.Start(context.Background())
	defer c.Stop()

	j := &stubJob{name: "slow", block: make(chan struct{})}
	tick := c.wrap(j, "* * * * *")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tick()
	}()
	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	tick()
	assert.Equal(t, int32(1), j.runs.Load())

	close(j.block)
	wg.Wait()
	tick()
	assert.Equal(t, int32(2), j.runs.Load())
}

func TestRunOnce(t *testing.T) {
	ok := &stubJob{name: "ok"}
	bad := &stubJob{name: "bad", err: errors.New("boom")}
	after := &stubJob{name: "after"}

	err := RunOnce(context.Background(), nil, ok, bad, after)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Equal(t, int32(1), after.runs.Load(), "a failing job does not stop the rest")
}

func TestRunOnce_LoggerInContext(t *testing.T) {
	var got *zap.Logger
	j := &ctxJob{fn: func(ctx context.Context) { got = logging.FromContext(ctx) }}

	require.NoError(t, RunOnce(context.Background(), zap.NewExample(), j))
	assert.NotNil(t, got)
	assert.NotSame(t, zap.L(), got)
}

type ctxJob struct {
	fn func(ctx context.Context)
}

func (c *ctxJob) Name() string { return "ctx" }

func (c *ctxJob) Run(ctx context.Context) error {
	c.fn(ctx)
	return nil
}
