package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/t77yq/lifeos/internal/storage"
	"github.com/t77yq/lifeos/internal/testutil"
)

type fakeSource struct {
	mu      sync.Mutex
	version uint64
}

func (f *fakeSource) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

func (f *fakeSource) bump() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version++
}

func (f *fakeSource) Export() (storage.Collections, error) {
	return storage.Collections{
		storage.CollectionTasks: {{ID: "t1", Data: []byte(`{"id":"t1"}`)}},
	}, nil
}

type fakeSink struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (f *fakeSink) SaveAll(ctx context.Context, collections storage.Collections) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func (f *fakeSink) LoadAll(ctx context.Context) (storage.Collections, error) {
	return storage.Collections{}, nil
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeSink) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestSyncer_Flush(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{version: 3}
	sink := &fakeSink{}
	s := New(source, sink, time.Second, zaptest.NewLogger(t))

	t.Run("restored version is not pushed back", func(t *testing.T) {
		require.NoError(t, s.Flush(ctx))
		assert.Equal(t, 0, sink.count())
	})

	t.Run("pushes after a change", func(t *testing.T) {
		source.bump()
		require.NoError(t, s.Flush(ctx))
		assert.Equal(t, 1, sink.count())
	})

	t.Run("skips when unchanged", func(t *testing.T) {
		require.NoError(t, s.Flush(ctx))
		assert.Equal(t, 1, sink.count())
	})
}

func TestSyncer_Backoff(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	source := &fakeSource{}
	sink := &fakeSink{}
	s := New(source, sink, time.Second, zaptest.NewLogger(t), WithClock(clock.Now))

	source.bump()
	sink.fail(errors.New("disk full"))

	require.Error(t, s.Flush(ctx))
	assert.Equal(t, 1, s.Failures())
	assert.True(t, s.backingOff())

	require.Error(t, s.Flush(ctx))
	assert.Equal(t, 2, s.Failures())

	clock.Advance(time.Second)
	assert.True(t, s.backingOff(), "second failure waits two intervals")
	clock.Advance(time.Second)
	assert.False(t, s.backingOff())

	sink.fail(nil)
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 0, s.Failures())
	assert.False(t, s.backingOff())
	assert.Equal(t, 1, sink.count())
}

func TestSyncer_Start(t *testing.T) {
	source := &fakeSource{}
	sink := &fakeSink{}
	s := New(source, sink, 10*time.Millisecond, zaptest.NewLogger(t))

	s.Start(context.Background())
	source.bump()

	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestExponentialBackoff_NextRetry(t *testing.T) {
	b := DefaultBackoff(time.Second)

	assert.Equal(t, time.Second, b.NextRetry(1))
	assert.Equal(t, 2*time.Second, b.NextRetry(2))
	assert.Equal(t, 4*time.Second, b.NextRetry(3))
	assert.Equal(t, 32*time.Second, b.NextRetry(6))
	assert.Equal(t, 32*time.Second, b.NextRetry(20))
}
