package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore handles the two S3 concerns of the service: presigned upload
// URLs for incoming audio, and durable storage of transcript artifacts.
type ObjectStore struct {
	client           *s3.Client
	presigner        *s3.PresignClient
	audioBucket      string
	transcriptBucket string
	presignExpiry    time.Duration
}

// NewObjectStore creates an object store. An empty transcriptBucket falls
// back to the audio bucket, mirroring how the deployment defaults.
func NewObjectStore(client *s3.Client, audioBucket, transcriptBucket string, presignExpiry time.Duration) *ObjectStore {
	if transcriptBucket == "" {
		transcriptBucket = audioBucket
	}
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &ObjectStore{
		client:           client,
		presigner:        s3.NewPresignClient(client),
		audioBucket:      audioBucket,
		transcriptBucket: transcriptBucket,
		presignExpiry:    presignExpiry,
	}
}

// PresignUpload returns a presigned PUT URL for an audio object.
func (s *ObjectStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.audioBucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign upload for %s: %v", key, err)
	}
	return req.URL, nil
}

// AudioBucket exposes the bucket name for response payloads.
func (s *ObjectStore) AudioBucket() string {
	return s.audioBucket
}

// MediaURI returns the s3:// URI the transcription job reads from.
func (s *ObjectStore) MediaURI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.audioBucket, key)
}

// PutArtifact stores a JSON artifact in the transcript bucket.
func (s *ObjectStore) PutArtifact(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.transcriptBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put artifact %s: %v", key, err)
	}
	return nil
}

// GetArtifact reads a stored artifact back.
func (s *ObjectStore) GetArtifact(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.transcriptBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get artifact %s: %v", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %v", key, err)
	}
	return data, nil
}
