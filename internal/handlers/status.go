package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumilabs/transcript-insights/internal/storage"
	"github.com/lumilabs/transcript-insights/internal/types"
)

// StatusHandler reports job state from the metadata store
type StatusHandler struct {
	db *storage.MetadataDB
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *storage.MetadataDB) *StatusHandler {
	return &StatusHandler{
		db: db,
	}
}

// Handle returns the current state of one job
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	jobName := c.Query("jobName")
	if jobName == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Missing jobName query param",
			"code":  "ERR_NO_JOB_NAME",
		})
	}

	job, err := h.db.GetJob(jobName)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Job not found",
			"code":  "ERR_JOB_NOT_FOUND",
		})
	}

	return c.JSON(job)
}

// ResultsHandler serves persisted analysis documents
type ResultsHandler struct {
	db    *storage.MetadataDB
	store *storage.ObjectStore
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(db *storage.MetadataDB, store *storage.ObjectStore) *ResultsHandler {
	return &ResultsHandler{
		db:    db,
		store: store,
	}
}

// Handle returns the stored analysis JSON for a completed job
func (h *ResultsHandler) Handle(c *fiber.Ctx) error {
	jobName := c.Params("jobName")

	job, err := h.db.GetJob(jobName)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Job not found",
			"code":  "ERR_JOB_NOT_FOUND",
		})
	}

	if job["status"] != types.StatusCompleted {
		return c.Status(409).JSON(fiber.Map{
			"error":  "Job not completed yet",
			"code":   "ERR_JOB_NOT_READY",
			"status": job["status"],
		})
	}

	analysisKey, _ := job["analysis_key"].(string)
	if analysisKey == "" {
		return c.Status(404).JSON(fiber.Map{
			"error": "Analysis artifact not recorded",
			"code":  "ERR_NO_ANALYSIS",
		})
	}

	data, err := h.store.GetArtifact(c.Context(), analysisKey)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to read analysis",
			"code":  "ERR_READ_FAILED",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
