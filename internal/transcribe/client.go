package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"

	"github.com/lumilabs/transcript-insights/internal/analysis"
)

// API is the slice of the Transcribe service the client actually calls.
type API interface {
	StartTranscriptionJob(ctx context.Context, in *awstranscribe.StartTranscriptionJobInput, opts ...func(*awstranscribe.Options)) (*awstranscribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, in *awstranscribe.GetTranscriptionJobInput, opts ...func(*awstranscribe.Options)) (*awstranscribe.GetTranscriptionJobOutput, error)
}

// Job status values as reported by the service.
const (
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
)

// JobState is a flattened view of one asynchronous transcription job.
type JobState struct {
	Status        string
	FailureReason string
	TranscriptURI string
}

// Terminal reports whether the job has finished, either way.
func (s *JobState) Terminal() bool {
	return s.Status == JobCompleted || s.Status == JobFailed
}

// Client submits and polls transcription jobs and fetches their result
// JSON from the URI the service hands back.
type Client struct {
	api          API
	http         *http.Client
	languageCode string
	maxSpeakers  int32
}

// NewClient wires a Transcribe API client. maxSpeakers caps the speaker
// count the engine will diarize into.
func NewClient(api API, languageCode string, maxSpeakers int) *Client {
	if maxSpeakers <= 0 {
		maxSpeakers = 4
	}
	return &Client{
		api:          api,
		http:         &http.Client{Timeout: 30 * time.Second},
		languageCode: languageCode,
		maxSpeakers:  int32(maxSpeakers),
	}
}

// StartJob begins an asynchronous transcription job over the given media
// URI, with speaker diarization enabled.
func (c *Client) StartJob(ctx context.Context, jobName, mediaURI string) error {
	_, err := c.api.StartTranscriptionJob(ctx, &awstranscribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		LanguageCode:         transcribetypes.LanguageCode(c.languageCode),
		Media:                &transcribetypes.Media{MediaFileUri: aws.String(mediaURI)},
		Settings: &transcribetypes.Settings{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(c.maxSpeakers),
		},
	})
	if err != nil {
		return fmt.Errorf("start transcription job %s: %v", jobName, err)
	}
	return nil
}

// GetJob returns the current state of a transcription job.
func (c *Client) GetJob(ctx context.Context, jobName string) (*JobState, error) {
	out, err := c.api.GetTranscriptionJob(ctx, &awstranscribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return nil, fmt.Errorf("get transcription job %s: %v", jobName, err)
	}

	job := out.TranscriptionJob
	state := &JobState{Status: string(job.TranscriptionJobStatus)}
	if job.FailureReason != nil {
		state.FailureReason = *job.FailureReason
	}
	if job.Transcript != nil && job.Transcript.TranscriptFileUri != nil {
		state.TranscriptURI = *job.Transcript.TranscriptFileUri
	}
	return state, nil
}

// FetchResult downloads the result JSON from the transcript URI and decodes
// it. The raw bytes are returned alongside the parsed result so callers can
// persist the document exactly as the engine wrote it.
func (c *Client) FetchResult(ctx context.Context, uri string) ([]byte, *analysis.RawResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build transcript request: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch transcript: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch transcript: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read transcript body: %v", err)
	}

	var result analysis.RawResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("decode transcript result: %v", err)
	}
	return raw, &result, nil
}
