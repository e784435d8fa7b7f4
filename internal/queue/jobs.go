package queue

import (
	"time"

	"github.com/lumilabs/transcript-insights/internal/types"
)

// Job tracks one transcription job from submission to persisted analysis.
type Job struct {
	Name      string
	MediaKey  string
	Status    string
	Error     error
	CreatedAt time.Time
}

// NewJob creates a queued job for an already-submitted transcription.
func NewJob(name, mediaKey string) *Job {
	return &Job{
		Name:      name,
		MediaKey:  mediaKey,
		Status:    types.StatusQueued,
		CreatedAt: time.Now(),
	}
}
