package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mm-booking-services/common/logger"
	"github.com/mm-booking-services/services/docs-lambda/models"
)

// Job pairs a document request with the closure that executes it.
type Job struct {
	Request models.JobRequest
	Run     func(ctx context.Context) error
}

// StaggerRunner executes job batches one at a time, waiting a fixed
// interval between job starts so the downstream mail and storage
// services are never burst-loaded.
type StaggerRunner struct {
	interval time.Duration

	// One batch in flight across the whole process.
	mu sync.Mutex
}

func NewStaggerRunner(interval time.Duration) *StaggerRunner {
	return &StaggerRunner{interval: interval}
}

// Run executes every job in order. A failed job is logged and does not
// stop the batch. The returned slice holds one entry per job, nil on
// success, and is always fully populated unless the context expires,
// in which case the remaining entries carry the context error.
func (s *StaggerRunner) Run(ctx context.Context, jobs []Job) []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]error, len(jobs))
	for i, job := range jobs {
		if i > 0 {
			select {
			case <-time.After(s.interval):
			case <-ctx.Done():
				for j := i; j < len(jobs); j++ {
					results[j] = ctx.Err()
				}
				return results
			}
		}

		err := job.Run(ctx)
		results[i] = err

		entry := logger.JobLog{
			DocType:  string(job.Request.Type),
			MonthKey: models.MonthKey(job.Request.Year, job.Request.Month),
			Bulk:     true,
			Success:  err == nil,
		}
		if job.Request.EventID != 0 {
			entry.EventID = strconv.Itoa(job.Request.EventID)
		}
		if job.Request.VenueID != 0 {
			entry.VenueID = strconv.Itoa(job.Request.VenueID)
		}
		if err != nil {
			entry.Error = err.Error()
		}
		logger.LogJob(entry)
	}
	return results
}
