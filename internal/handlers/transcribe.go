package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/lumilabs/transcript-insights/internal/queue"
	"github.com/lumilabs/transcript-insights/internal/storage"
	"github.com/lumilabs/transcript-insights/internal/transcribe"
	"github.com/lumilabs/transcript-insights/internal/types"
)

// TranscribeHandler starts transcription jobs over uploaded audio
type TranscribeHandler struct {
	workerPool *queue.WorkerPool
	client     *transcribe.Client
	store      *storage.ObjectStore
	db         *storage.MetadataDB
}

// NewTranscribeHandler creates a new transcribe handler
func NewTranscribeHandler(
	workerPool *queue.WorkerPool,
	client *transcribe.Client,
	store *storage.ObjectStore,
	db *storage.MetadataDB,
) *TranscribeHandler {
	return &TranscribeHandler{
		workerPool: workerPool,
		client:     client,
		store:      store,
		db:         db,
	}
}

// TranscribeRequest represents the request body
type TranscribeRequest struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
}

// Handle submits an async transcription job for an uploaded object
func (h *TranscribeHandler) Handle(c *fiber.Ctx) error {
	var req TranscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.Key == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Missing 'key'. Upload via /presign first",
			"code":  "ERR_NO_KEY",
		})
	}

	// Validate the extension when a filename is provided
	if req.Filename != "" {
		if _, err := safeExt(req.Filename); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "ERR_INVALID_FORMAT",
			})
		}
	}

	jobName := types.JobNamePrefix + strings.ReplaceAll(uuid.New().String(), "-", "")

	if err := h.client.StartJob(c.Context(), jobName, h.store.MediaURI(req.Key)); err != nil {
		log.Printf("Failed to start transcription job %s: %v", jobName, err)
		return c.Status(502).JSON(fiber.Map{
			"error": "Failed to start transcription job",
			"code":  "ERR_JOB_START_FAILED",
		})
	}

	if err := h.db.CreateJob(jobName, req.Key, types.StatusQueued); err != nil {
		log.Printf("Failed to record job %s: %v", jobName, err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to record job",
			"code":  "ERR_DB_FAILED",
		})
	}

	h.workerPool.EnqueueJob(queue.NewJob(jobName, req.Key))

	return c.Status(202).JSON(fiber.Map{
		"job_name": jobName,
		"status":   types.StatusQueued,
	})
}
