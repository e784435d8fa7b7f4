package handlers

import (
	"time"

	"github.com/gofiber/websocket/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lumilabs/transcript-insights/internal/storage"
	"github.com/lumilabs/transcript-insights/internal/types"
)

// ProgressHandler streams job status updates over WebSocket
type ProgressHandler struct {
	db           *storage.MetadataDB
	pollInterval time.Duration
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(db *storage.MetadataDB) *ProgressHandler {
	return &ProgressHandler{
		db:           db,
		pollInterval: 2 * time.Second,
	}
}

// Handle pushes status updates until the job reaches a terminal state
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	jobName := c.Params("jobName")
	if jobName == "" {
		c.WriteJSON(map[string]string{"error": "missing job name"})
		return
	}

	log.Printf("Progress stream opened for job %s", jobName)

	// Stop pushing after ten minutes even if the job never settles; the
	// client can reconnect.
	deadline := time.Now().Add(10 * time.Minute)
	lastStatus := ""

	for time.Now().Before(deadline) {
		job, err := h.db.GetJob(jobName)
		if err != nil {
			c.WriteJSON(map[string]string{"error": "job not found"})
			return
		}

		status, _ := job["status"].(string)
		if status != lastStatus {
			if err := c.WriteJSON(job); err != nil {
				log.Printf("Progress stream write failed for job %s: %v", jobName, err)
				return
			}
			lastStatus = status
		}

		if status == types.StatusCompleted || status == types.StatusFailed {
			return
		}
		time.Sleep(h.pollInterval)
	}
}
