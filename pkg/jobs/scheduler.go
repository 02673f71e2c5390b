package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job represents a background job.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler manages and executes background jobs.
type Scheduler struct {
	jobs    map[string]*ScheduledJob
	mu      sync.RWMutex
	logger  *slog.Logger
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// ScheduledJob wraps a job with its schedule.
type ScheduledJob struct {
	Job      Job
	Interval time.Duration
	stopCh   chan struct{}
}

// NewScheduler creates a new job scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*ScheduledJob),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler with an interval.
func (s *Scheduler) AddJob(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.Name()] = &ScheduledJob{
		Job:      job,
		Interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts all scheduled jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	jobs := make([]*ScheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	for _, scheduledJob := range jobs {
		go s.runJob(scheduledJob)
	}

	s.logger.Info("job scheduler started", "jobs", len(jobs))
}

// Stop stops all scheduled jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	for _, job := range s.jobs {
		close(job.stopCh)
	}
	s.running = false

	s.logger.Info("job scheduler stopped")
}

func (s *Scheduler) runJob(scheduled *ScheduledJob) {
	ticker := time.NewTicker(scheduled.Interval)
	defer ticker.Stop()

	s.logger.Info("starting job", "name", scheduled.Job.Name(), "interval", scheduled.Interval)

	for {
		select {
		case <-ticker.C:
			s.executeJob(scheduled.Job)
		case <-scheduled.stopCh:
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic", "name", job.Name(), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.logger.Error("job execution failed", "name", job.Name(), "error", err, "duration", time.Since(start))
	} else {
		s.logger.Debug("job completed", "name", job.Name(), "duration", time.Since(start))
	}
}
