package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lumilabs/transcript-insights/internal/storage"
)

// Audio formats the transcription engine accepts from us.
var supportedExtensions = map[string]bool{
	"mp3": true,
	"wav": true,
	"m4a": true,
}

// safeExt validates and returns the lowercase extension of an upload name.
func safeExt(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type: .%s (use mp3/wav/m4a)", ext)
	}
	return ext, nil
}

// uploadKey builds the object key for a fresh upload.
func uploadKey(ext string) string {
	return fmt.Sprintf("uploads/%s.%s", strings.ReplaceAll(uuid.New().String(), "-", ""), ext)
}

// PresignHandler hands out presigned upload URLs
type PresignHandler struct {
	store *storage.ObjectStore
}

// NewPresignHandler creates a new presign handler
func NewPresignHandler(store *storage.ObjectStore) *PresignHandler {
	return &PresignHandler{
		store: store,
	}
}

// PresignRequest represents the request body
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Handle issues a presigned PUT URL for a new audio object
func (h *PresignHandler) Handle(c *fiber.Ctx) error {
	var req PresignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.Filename == "" {
		req.Filename = "audio.mp3"
	}

	ext, err := safeExt(req.Filename)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "ERR_INVALID_FORMAT",
		})
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uploadKey(ext)
	uploadURL, err := h.store.PresignUpload(c.Context(), key, contentType)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to generate upload URL",
			"code":  "ERR_PRESIGN_FAILED",
		})
	}

	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"key":        key,
		"bucket":     h.store.AudioBucket(),
	})
}
