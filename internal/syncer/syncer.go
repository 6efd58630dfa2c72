package syncer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/storage"
)

// Source is the state being mirrored
type Source interface {
	Version() uint64
	Export() (storage.Collections, error)
}

// Syncer pushes store snapshots to a sink in the background. Pushes are fire
// and forget: a failed push is logged and retried on the next tick, and the
// store never learns about it.
type Syncer struct {
	logger   *zap.Logger
	source   Source
	sink     storage.Sink
	interval time.Duration
	strategy RetryStrategy
	now      func() time.Time

	mu        sync.Mutex
	synced    uint64
	failures  int
	nextRetry time.Time
	stop      chan struct{}
	done      chan struct{}
}

// Option configures a Syncer
type Option func(*Syncer)

// WithRetryStrategy overrides the backoff used after failed pushes
func WithRetryStrategy(strategy RetryStrategy) Option {
	return func(s *Syncer) { s.strategy = strategy }
}

// WithClock overrides the time source used for backoff
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New creates a syncer. The source's current version counts as already
// synced, so a freshly restored store is not pushed straight back.
func New(source Source, sink storage.Sink, interval time.Duration, logger *zap.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		logger:   logger.Named("syncer"),
		source:   source,
		sink:     sink,
		interval: interval,
		strategy: DefaultBackoff(interval),
		now:      time.Now,
		synced:   source.Version(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sync loop until ctx is done or Stop is called
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", zap.Duration("interval", s.interval))
	go s.loop(ctx)
}

// Stop ends the loop and waits for it to exit
func (s *Syncer) Stop() {
	s.logger.Info("Stopping syncer")
	close(s.stop)
	<-s.done
}

// Flush pushes the current state if it changed since the last push
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.source.Version()
	if version == s.synced {
		return nil
	}

	collections, err := s.source.Export()
	if err != nil {
		return err
	}
	if err := s.sink.SaveAll(ctx, collections); err != nil {
		s.failures++
		s.nextRetry = s.now().Add(s.strategy.NextRetry(s.failures))
		return err
	}

	s.synced = version
	s.failures = 0
	s.nextRetry = time.Time{}
	s.logger.Debug("Synced store", zap.Uint64("version", version))
	return nil
}

func (s *Syncer) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if s.backingOff() {
				continue
			}
			if err := s.Flush(ctx); err != nil {
				s.logger.Error("Failed to sync store",
					zap.Int("failures", s.Failures()),
					zap.Error(err))
			}
		}
	}
}

// Failures returns the number of consecutive failed pushes
func (s *Syncer) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

func (s *Syncer) backingOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.nextRetry.IsZero() && s.now().Before(s.nextRetry)
}
