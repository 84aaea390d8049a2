package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleRefresher re-fetches the football schedules the booking
// calendar is annotated with.
type ScheduleRefresher interface {
	RefreshAll(ctx context.Context) error
}

// GameRefreshScheduler refreshes the cached football schedules once a
// week, early Monday morning.
type GameRefreshScheduler struct {
	refresher ScheduleRefresher
	cron      *cron.Cron
}

func NewGameRefreshScheduler(refresher ScheduleRefresher, location *time.Location) *GameRefreshScheduler {
	return &GameRefreshScheduler{
		refresher: refresher,
		cron:      cron.New(cron.WithLocation(location)),
	}
}

// Start registers the weekly job and begins the cron loop.
func (s *GameRefreshScheduler) Start() error {
	_, err := s.cron.AddFunc("0 5 * * 1", func() {
		if err := s.refresher.RefreshAll(context.Background()); err != nil {
			log.Printf("[SCHEDULER] Game schedule refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register game refresh job: %w", err)
	}

	s.cron.Start()
	log.Println("[SCHEDULER] Game schedule refresh started (Mondays at 05:00)")
	return nil
}

// Stop halts the cron loop.
func (s *GameRefreshScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[SCHEDULER] Game schedule refresh stopped")
}
