package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mm-booking-services/common/config"
)

// DailyDispatcher runs the send-out-day check for a given wall-clock
// moment. The docs service implements it.
type DailyDispatcher interface {
	RunDaily(ctx context.Context, now time.Time) error
}

// DocSendoutScheduler fires the daily document dispatch at the
// configured hour in the configured time zone.
type DocSendoutScheduler struct {
	dispatcher DailyDispatcher
	cron       *cron.Cron
	location   *time.Location
}

// NewDocSendoutScheduler creates the daily send-out scheduler.
func NewDocSendoutScheduler(dispatcher DailyDispatcher) (*DocSendoutScheduler, error) {
	cfg := config.GetConfig()

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler time zone %q: %w", cfg.TimeZone, err)
	}

	return &DocSendoutScheduler{
		dispatcher: dispatcher,
		cron:       cron.New(cron.WithLocation(location)),
		location:   location,
	}, nil
}

// Start registers the daily job and begins the cron loop.
func (s *DocSendoutScheduler) Start() error {
	cfg := config.GetConfig()
	spec := fmt.Sprintf("0 %d * * *", cfg.SendOutHour)

	_, err := s.cron.AddFunc(spec, func() {
		s.runOnce(time.Now().In(s.location))
	})
	if err != nil {
		return fmt.Errorf("failed to register send-out job: %w", err)
	}

	s.cron.Start()
	log.Printf("[SCHEDULER] Document send-out job started (daily at %02d:00 %s)", cfg.SendOutHour, s.location)
	return nil
}

// Stop halts the cron loop, waiting for a running dispatch to finish.
func (s *DocSendoutScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[SCHEDULER] Document send-out job stopped")
}

func (s *DocSendoutScheduler) runOnce(now time.Time) {
	log.Printf("[SCHEDULER] Running send-out check for day %d", now.Day())
	if err := s.dispatcher.RunDaily(context.Background(), now); err != nil {
		log.Printf("[SCHEDULER] Send-out check failed: %v", err)
	}
}
