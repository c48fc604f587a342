package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/metrics"
)

// JobFunc is one periodic evaluation pass.
type JobFunc func(now time.Time) error

// job is a named periodic task. The running flag enforces
// single-instance-at-a-time: a tick that would overlap a still-running
// prior instance of the same job is dropped, not queued.
type job struct {
	name     string
	interval time.Duration
	fn       JobFunc
	running  atomic.Bool
}

// Scheduler runs named periodic jobs with a de-duplicating schedule.
// Intervals are lower bounds: the underlying timer may fire late, and
// jobs must stay correct under sparse or clustered invocation.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []*job
	stopCh chan struct{}
	wg     sync.WaitGroup
	start  sync.Once
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		stopCh: make(chan struct{}),
	}
}

// Register adds a named job. Must be called before Start.
func (s *Scheduler) Register(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &job{
		name:     name,
		interval: interval,
		fn:       fn,
	})
}

// Start launches one ticker loop per registered job. Each job also
// runs once immediately so a freshly started daemon does not wait a
// full interval for its first pass.
func (s *Scheduler) Start() {
	s.start.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, j := range s.jobs {
			s.wg.Add(1)
			go s.run(j)
		}
	})
}

// Stop stops all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) run(j *job) {
	defer s.wg.Done()

	s.invoke(j, time.Now())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.invoke(j, now)
		case <-s.stopCh:
			return
		}
	}
}

// invoke runs the job unless a prior instance is still running, in
// which case the tick is dropped.
func (s *Scheduler) invoke(j *job, now time.Time) {
	if !j.running.CompareAndSwap(false, true) {
		metrics.JobRunsDropped.WithLabelValues(j.name).Inc()
		logger := log.WithJob(j.name)
		logger.Warn().Msg("previous run still in progress, dropping tick")
		return
	}
	defer j.running.Store(false)

	metrics.JobRunsTotal.WithLabelValues(j.name).Inc()
	if err := j.fn(now); err != nil {
		// A failed pass waits for its next scheduled invocation;
		// idempotence self-heals.
		logger := log.WithJob(j.name)
		logger.Error().Err(err).Msg("job run failed")
	}
}
