package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MetadataDB records transcription jobs and their analysis artifacts in
// SQLite.
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB opens (and if needed initializes) the jobs database.
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_name TEXT NOT NULL UNIQUE,
		media_key TEXT NOT NULL,
		status TEXT NOT NULL,
		failure_reason TEXT,
		transcript_key TEXT,
		analysis_key TEXT,
		speaker_count INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// CreateJob inserts a new job row in QUEUED state.
func (mdb *MetadataDB) CreateJob(jobName, mediaKey, status string) error {
	now := time.Now()
	_, err := mdb.db.Exec(
		`INSERT INTO jobs (job_name, media_key, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobName, mediaKey, status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %v", jobName, err)
	}
	return nil
}

// UpdateStatus moves a job to a new state.
func (mdb *MetadataDB) UpdateStatus(jobName, status string) error {
	_, err := mdb.db.Exec(
		`UPDATE jobs SET status = ?, updated_at = ? WHERE job_name = ?`,
		status, time.Now(), jobName,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %v", jobName, err)
	}
	return nil
}

// CompleteJob records the artifact keys and summary of a finished job.
func (mdb *MetadataDB) CompleteJob(jobName, transcriptKey, analysisKey string, speakerCount int) error {
	_, err := mdb.db.Exec(
		`UPDATE jobs SET status = 'COMPLETED', transcript_key = ?, analysis_key = ?, speaker_count = ?, updated_at = ? WHERE job_name = ?`,
		transcriptKey, analysisKey, speakerCount, time.Now(), jobName,
	)
	if err != nil {
		return fmt.Errorf("failed to complete job %s: %v", jobName, err)
	}
	return nil
}

// FailJob records a terminal failure with its reason.
func (mdb *MetadataDB) FailJob(jobName, reason string) error {
	_, err := mdb.db.Exec(
		`UPDATE jobs SET status = 'FAILED', failure_reason = ?, updated_at = ? WHERE job_name = ?`,
		reason, time.Now(), jobName,
	)
	if err != nil {
		return fmt.Errorf("failed to mark job %s failed: %v", jobName, err)
	}
	return nil
}

// GetJob retrieves one job row by name.
func (mdb *MetadataDB) GetJob(jobName string) (map[string]interface{}, error) {
	row := mdb.db.QueryRow(
		`SELECT job_name, media_key, status, failure_reason, transcript_key, analysis_key, speaker_count, created_at, updated_at
		 FROM jobs WHERE job_name = ?`, jobName)

	record, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %v", jobName, err)
	}
	return record, nil
}

// ListJobs returns the most recent jobs.
func (mdb *MetadataDB) ListJobs(limit int) ([]map[string]interface{}, error) {
	rows, err := mdb.db.Query(
		`SELECT job_name, media_key, status, failure_reason, transcript_key, analysis_key, speaker_count, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %v", err)
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		record, err := scanJob(rows)
		if err != nil {
			continue
		}
		jobs = append(jobs, record)
	}
	return jobs, nil
}

// DeleteJobsOlderThan purges rows created before the cutoff. Returns the
// number of rows removed.
func (mdb *MetadataDB) DeleteJobsOlderThan(cutoff time.Time) (int64, error) {
	res, err := mdb.db.Exec(`DELETE FROM jobs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge old jobs: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Close closes the database connection.
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (map[string]interface{}, error) {
	var (
		jobName, mediaKey, status               string
		failureReason, transcriptKey, analysisKey sql.NullString
		speakerCount                            sql.NullInt64
		createdAt, updatedAt                    time.Time
	)

	err := row.Scan(&jobName, &mediaKey, &status, &failureReason, &transcriptKey,
		&analysisKey, &speakerCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"job_name":       jobName,
		"media_key":      mediaKey,
		"status":         status,
		"failure_reason": failureReason.String,
		"transcript_key": transcriptKey.String,
		"analysis_key":   analysisKey.String,
		"speaker_count":  speakerCount.Int64,
		"created_at":     createdAt,
		"updated_at":     updatedAt,
	}, nil
}
