package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a periodic job registered with the scheduler
type Job struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Expression  string     `json:"expression"`
	LastRunTime *time.Time `json:"last_run_time,omitempty"`
	NextRunTime *time.Time `json:"next_run_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CronScheduler runs periodic jobs on cron expressions with a seconds field
type CronScheduler struct {
	logger   *zap.Logger
	cron     *cron.Cron
	parser   cron.Parser
	mu       sync.RWMutex
	ctx      context.Context
	jobs     map[string]*Job
	entryIDs map[string]cron.EntryID
}

// cronLogger adapts zap.Logger to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}

// NewCronScheduler creates a new scheduler
func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	cronLogger := &cronLogger{logger: logger.Named("cron")}
	cronOptions := []cron.Option{
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	}

	return &CronScheduler{
		logger:   logger.Named("scheduler"),
		cron:     cron.New(cronOptions...),
		parser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		ctx:      context.Background(),
		jobs:     make(map[string]*Job),
		entryIDs: make(map[string]cron.EntryID),
	}
}

// Start starts running registered jobs. Jobs receive ctx.
func (s *CronScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.ListJobs())))
}

// Stop stops the scheduler and waits for running jobs
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// AddJob registers run under a cron expression and returns the job id
func (s *CronScheduler) AddJob(name, expression string, run func(ctx context.Context)) (string, error) {
	spec, err := s.parser.Parse(expression)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidExpression, expression, err)
	}

	job := &Job{
		ID:         uuid.New().String(),
		Name:       name,
		Expression: expression,
		CreatedAt:  time.Now(),
	}

	entryID := s.cron.Schedule(spec, &cronJob{
		scheduler: s,
		job:       job,
		spec:      spec,
		run:       run,
	})

	next := spec.Next(time.Now())
	s.mu.Lock()
	job.NextRunTime = &next
	s.jobs[job.ID] = job
	s.entryIDs[job.ID] = entryID
	s.mu.Unlock()

	s.logger.Info("Added job",
		zap.String("id", job.ID),
		zap.String("name", name),
		zap.String("expression", expression),
		zap.Time("next_run", next))

	return job.ID, nil
}

// RemoveJob removes a job
func (s *CronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.entryIDs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	s.cron.Remove(entryID)
	delete(s.entryIDs, id)
	delete(s.jobs, id)

	s.logger.Info("Removed job", zap.String("id", id))
	return nil
}

// GetJob returns a copy of a job
func (s *CronScheduler) GetJob(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return *job, nil
}

// ListJobs lists all jobs
func (s *CronScheduler) ListJobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// RunNow runs a job immediately on the calling goroutine, through the same
// recover and skip-if-running chain as scheduled runs
func (s *CronScheduler) RunNow(id string) error {
	s.mu.RLock()
	entryID, ok := s.entryIDs[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	s.cron.Entry(entryID).WrappedJob.Run()
	return nil
}

// cronJob implements cron.Job interface
type cronJob struct {
	scheduler *CronScheduler
	job       *Job
	spec      cron.Schedule
	run       func(ctx context.Context)
}

// Run implements cron.Job
func (j *cronJob) Run() {
	now := time.Now()
	next := j.spec.Next(now)

	j.scheduler.mu.Lock()
	j.job.LastRunTime = &now
	j.job.NextRunTime = &next
	ctx := j.scheduler.ctx
	j.scheduler.mu.Unlock()

	j.run(ctx)

	j.scheduler.logger.Debug("Executed job",
		zap.String("id", j.job.ID),
		zap.String("name", j.job.Name),
		zap.Duration("took", time.Since(now)),
		zap.Time("next_run", next))
}
