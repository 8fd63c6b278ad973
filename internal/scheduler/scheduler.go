package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/umbrella-alerts/umbrella/internal/config"
)

// runTimeout bounds one morning run, retry waits included.
const runTimeout = 2 * time.Minute

// Runner is the orchestration entry point a job triggers.
type Runner interface {
	RunMorningNotifications(ctx context.Context, contact config.Contact, loc config.Location) error
}

// Scheduler maintains one recurring daily job per (contact, location) pair at
// the contact's wake-up time. Jobs run sequentially; a failed job is logged
// and rescheduled for the next day like any other. Nothing is persisted: the
// job set is rebuilt from configuration on every start.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	contacts  []config.Contact
	log       *zap.Logger
}

// JobStatus describes one scheduled job for the ops API.
type JobStatus struct {
	Job     string    `json:"job"`
	At      string    `json:"at"`
	NextRun time.Time `json:"next_run"`
}

// New creates a Scheduler for the given contacts. Wake-up times are
// interpreted in tz.
func New(contacts []config.Contact, tz *time.Location, runner Runner, log *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(tz)
	s.SetMaxConcurrentJobs(1, gocron.WaitMode)
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		contacts:  contacts,
		log:       log,
	}
}

// Start schedules all jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	jobs := 0
	for _, contact := range s.contacts {
		for label, loc := range contact.Locations {
			contact, loc := contact, loc
			tag := contact.Name + "/" + label

			_, err := s.scheduler.Every(1).Day().At(contact.WakesUp).Tag(tag, contact.WakesUp).Do(func() {
				ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
				defer cancel()

				if err := s.runner.RunMorningNotifications(ctx, contact, loc); err != nil {
					s.log.Error("morning run failed", zap.String("job", tag), zap.Error(err))
				}
			})
			if err != nil {
				return fmt.Errorf("schedule job %s at %s: %w", tag, contact.WakesUp, err)
			}

			s.log.Info("job scheduled",
				zap.String("job", tag),
				zap.String("at", contact.WakesUp))
			jobs++
		}
	}

	if jobs == 0 {
		s.log.Warn("no contacts configured, nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", zap.Int("jobs", jobs))
	return nil
}

// Jobs reports every scheduled job with its next trigger time.
func (s *Scheduler) Jobs() []JobStatus {
	var statuses []JobStatus
	for _, j := range s.scheduler.Jobs() {
		status := JobStatus{NextRun: j.NextRun()}
		if tags := j.Tags(); len(tags) > 0 {
			status.Job = tags[0]
			if len(tags) > 1 {
				status.At = tags[1]
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
