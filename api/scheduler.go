/*
scheduler.go - background job ticker

PURPOSE:
  Runs the scheduled jobs (recurring transactions, report dispatch) on a
  fixed interval. The jobs themselves live in the jobs package; this is
  only the lifecycle around them.

DESIGN:
  - Ticker-driven goroutine, one immediate run on Start
  - Stop waits for an in-flight run to finish
  - RunNow exists for admin/testing paths

CONFIGURATION:
  - CheckInterval: How often to run (default: 24 hours)
  - Enabled: Whether the scheduler is active (default: true)

SEE ALSO:
  - jobs/runner.go: The work executed each tick
  - handlers.go: RunJobsNow endpoint (manual trigger)
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack/fintrack/jobs"
)

// JobScheduler runs the job runner on a fixed interval.
type JobScheduler struct {
	Runner        *jobs.Runner
	Log           zerolog.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewJobScheduler creates a scheduler with the default daily interval.
func NewJobScheduler(runner *jobs.Runner, log zerolog.Logger) *JobScheduler {
	return &JobScheduler{
		Runner:        runner,
		Log:           log,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (s *JobScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Log.Info().Msg("scheduler disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run()

	s.Log.Info().Dur("interval", s.CheckInterval).Msg("scheduler started")
}

// Stop stops the scheduler and waits for an in-flight run.
func (s *JobScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.Log.Info().Msg("scheduler stopped")
	}
}

func (s *JobScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.Runner.RunAll(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.Runner.RunAll(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow triggers an immediate run (for testing/admin).
func (s *JobScheduler) RunNow() {
	s.Runner.RunAll(context.Background())
}
