package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/lumilabs/transcript-insights/internal/analysis"
	"github.com/lumilabs/transcript-insights/internal/transcribe"
	"github.com/lumilabs/transcript-insights/internal/types"
)

// TranscriptionService is the slice of the transcribe client the workers
// use: poll a submitted job and fetch its result document.
type TranscriptionService interface {
	GetJob(ctx context.Context, jobName string) (*transcribe.JobState, error)
	FetchResult(ctx context.Context, uri string) ([]byte, *analysis.RawResult, error)
}

// ArtifactStore persists job artifacts.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, key string, body []byte) error
}

// MetadataStore records job progress.
type MetadataStore interface {
	UpdateStatus(jobName, status string) error
	CompleteJob(jobName, transcriptKey, analysisKey string, speakerCount int) error
	FailJob(jobName, reason string) error
}

// WorkerPool manages workers that follow submitted transcription jobs to
// completion: poll until terminal, fetch the raw result, run the analysis,
// persist both artifacts, record the outcome.
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	service      TranscriptionService
	store        ArtifactStore
	db           MetadataStore
	analyzer     *analysis.Analyzer
	pollInterval time.Duration
	maxWait      time.Duration
}

// NewWorkerPool creates a worker pool.
func NewWorkerPool(
	workerCount int,
	service TranscriptionService,
	store ArtifactStore,
	db MetadataStore,
	analyzer *analysis.Analyzer,
	pollInterval, maxWait time.Duration,
) *WorkerPool {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if maxWait <= 0 {
		maxWait = 90 * time.Second
	}
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100), // Buffer of 100 jobs
		workerCount:  workerCount,
		service:      service,
		store:        store,
		db:           db,
		analyzer:     analyzer,
		pollInterval: pollInterval,
		maxWait:      maxWait,
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.Status = types.StatusQueued
	wp.jobQueue <- job
	log.Printf("Job %s enqueued (media: %s)", job.Name, job.MediaKey)
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.Name, r, string(debug.Stack()))
					job.Status = types.StatusFailed
					job.Error = fmt.Errorf("worker panic: %v", r)
					wp.recordFailure(job.Name, job.Error.Error())
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob follows one job from submitted to persisted analysis.
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.Name)
	job.Status = types.StatusProcessing
	if err := wp.db.UpdateStatus(job.Name, types.StatusProcessing); err != nil {
		log.Printf("Worker %d: Status update failed for job %s: %v", workerID, job.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), wp.maxWait+30*time.Second)
	defer cancel()

	// Step 1: Poll the transcription job until terminal or deadline
	state, err := wp.waitForJob(ctx, job.Name)
	if err != nil {
		wp.fail(workerID, job, err.Error())
		return
	}
	if state.Status == transcribe.JobFailed {
		reason := state.FailureReason
		if reason == "" {
			reason = "unknown failure"
		}
		wp.fail(workerID, job, reason)
		return
	}

	// Step 2: Fetch the raw result document
	raw, result, err := wp.service.FetchResult(ctx, state.TranscriptURI)
	if err != nil {
		wp.fail(workerID, job, fmt.Sprintf("fetch result: %v", err))
		return
	}

	// Step 3: Run the analysis
	report, err := wp.analyzer.Analyze(result)
	if err != nil {
		wp.fail(workerID, job, fmt.Sprintf("analyze result: %v", err))
		return
	}

	// Step 4: Persist raw result and analysis
	transcriptKey := types.TranscriptPrefix + job.Name + ".json"
	if err := wp.store.PutArtifact(ctx, transcriptKey, raw); err != nil {
		wp.fail(workerID, job, fmt.Sprintf("persist transcript: %v", err))
		return
	}

	analysisJSON, err := json.Marshal(report)
	if err != nil {
		wp.fail(workerID, job, fmt.Sprintf("encode analysis: %v", err))
		return
	}
	analysisKey := types.AnalysisPrefix + job.Name + ".json"
	if err := wp.store.PutArtifact(ctx, analysisKey, analysisJSON); err != nil {
		wp.fail(workerID, job, fmt.Sprintf("persist analysis: %v", err))
		return
	}

	// Step 5: Record completion
	if err := wp.db.CompleteJob(job.Name, transcriptKey, analysisKey, report.SpeakerCount); err != nil {
		log.Printf("Worker %d: Metadata save failed for job %s: %v", workerID, job.Name, err)
	}

	job.Status = types.StatusCompleted
	log.Printf("Worker %d: Job %s completed (%d speakers, %d lines)",
		workerID, job.Name, report.SpeakerCount, len(report.SpeakerLines))
}

// waitForJob polls the job until it reaches a terminal state or the wait
// budget runs out. Short clips only; anything longer fails the job rather
// than blocking a worker indefinitely.
func (wp *WorkerPool) waitForJob(ctx context.Context, jobName string) (*transcribe.JobState, error) {
	deadline := time.Now().Add(wp.maxWait)
	for {
		state, err := wp.service.GetJob(ctx, jobName)
		if err != nil {
			return nil, err
		}
		if state.Terminal() {
			return state, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("transcription did not complete in time")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wp.pollInterval):
		}
	}
}

func (wp *WorkerPool) fail(workerID int, job *Job, reason string) {
	log.Printf("Worker %d: Job %s failed: %s", workerID, job.Name, reason)
	job.Status = types.StatusFailed
	job.Error = fmt.Errorf("%s", reason)
	wp.recordFailure(job.Name, reason)
}

func (wp *WorkerPool) recordFailure(jobName, reason string) {
	if err := wp.db.FailJob(jobName, reason); err != nil {
		log.Printf("Failed to record failure for job %s: %v", jobName, err)
	}
}
