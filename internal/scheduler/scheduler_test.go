package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/umbrella-alerts/umbrella/internal/config"
)

type noopRunner struct{}

func (noopRunner) RunMorningNotifications(ctx context.Context, contact config.Contact, loc config.Location) error {
	return nil
}

func testContacts(wakesUp string) []config.Contact {
	return []config.Contact{
		{
			Name:      "Jonas",
			WakesUp:   wakesUp,
			Locations: map[string]config.Location{"home": {Address: "Vilnius, Lithuania"}},
			Settings:  config.Settings{"current": true},
		},
	}
}

func TestStartSchedulesDailyJobAtWakeTime(t *testing.T) {
	s := New(testContacts("07:00"), time.UTC, noopRunner{}, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	jobs := s.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Job != "Jonas/home" || j.At != "07:00" {
		t.Fatalf("unexpected job: %+v", j)
	}

	next := j.NextRun.In(time.UTC)
	if next.Format("15:04") != "07:00" {
		t.Fatalf("next run must be at 07:00, got %s", next.Format("15:04"))
	}

	now := time.Now().UTC()
	if !next.After(now) {
		t.Fatalf("next run %s is not in the future", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Fatalf("next run %s is more than a day away", next)
	}
}

func TestStartSchedulesOneJobPerLocation(t *testing.T) {
	contacts := testContacts("06:30")
	contacts[0].Locations["office"] = config.Location{Address: "Kaunas, Lithuania"}
	contacts = append(contacts, config.Contact{
		Name:      "Ona",
		WakesUp:   "08:15",
		Locations: map[string]config.Location{"home": {Address: "Klaipeda"}},
	})

	s := New(contacts, time.UTC, noopRunner{}, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if got := len(s.Jobs()); got != 3 {
		t.Fatalf("expected 3 jobs, got %d", got)
	}
}

func TestStartRejectsInvalidWakeTime(t *testing.T) {
	s := New(testContacts("7am"), time.UTC, noopRunner{}, zap.NewNop())
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid wake-up time")
	}
}

func TestStartWithNoContacts(t *testing.T) {
	s := New(nil, time.UTC, noopRunner{}, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("empty schedule must not fail: %v", err)
	}
	s.Stop()
}
