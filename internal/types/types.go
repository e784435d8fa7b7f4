package types

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Artifact key prefixes in the transcript bucket
const (
	TranscriptPrefix = "transcripts/"
	AnalysisPrefix   = "analyses/"
)

// JobNamePrefix is prepended to every transcription job name.
const JobNamePrefix = "lumi-"
