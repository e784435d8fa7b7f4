package cleanup

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// JobPurger deletes aged job rows.
type JobPurger interface {
	DeleteJobsOlderThan(cutoff time.Time) (int64, error)
}

// Scheduler periodically purges old job records from the metadata store.
type Scheduler struct {
	db              JobPurger
	intervalMinutes int
	maxAgeHours     int
	stopChan        chan struct{}
}

// NewScheduler creates a new cleanup scheduler
func NewScheduler(db JobPurger, intervalMinutes, maxAgeHours int) *Scheduler {
	return &Scheduler{
		db:              db,
		intervalMinutes: intervalMinutes,
		maxAgeHours:     maxAgeHours,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the cleanup scheduler
func (s *Scheduler) Start() {
	// Run initial cleanup on startup
	log.Println("Running initial job record cleanup...")
	s.purgeOldJobs()

	ticker := time.NewTicker(time.Duration(s.intervalMinutes) * time.Minute)

	go func() {
		for {
			select {
			case <-ticker.C:
				s.purgeOldJobs()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Cleanup scheduler started (interval: %dm, max age: %dh)",
		s.intervalMinutes, s.maxAgeHours)
}

// Stop stops the cleanup scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("Cleanup scheduler stopped")
}

// purgeOldJobs removes job rows older than maxAgeHours
func (s *Scheduler) purgeOldJobs() {
	cutoff := time.Now().Add(-time.Duration(s.maxAgeHours) * time.Hour)

	deleted, err := s.db.DeleteJobsOlderThan(cutoff)
	if err != nil {
		log.Printf("Error during cleanup: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cleanup complete: %d job records deleted", deleted)
	}
}
