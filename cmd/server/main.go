package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/lumilabs/transcript-insights/internal/analysis"
	"github.com/lumilabs/transcript-insights/internal/cleanup"
	"github.com/lumilabs/transcript-insights/internal/handlers"
	"github.com/lumilabs/transcript-insights/internal/queue"
	"github.com/lumilabs/transcript-insights/internal/storage"
	"github.com/lumilabs/transcript-insights/internal/transcribe"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	AWS struct {
		Region               string `yaml:"region"`
		AudioBucket          string `yaml:"audio_bucket"`
		TranscriptBucket     string `yaml:"transcript_bucket"`
		LanguageCode         string `yaml:"language_code"`
		MaxSpeakers          int    `yaml:"max_speakers"`
		PresignExpirySeconds int    `yaml:"presign_expiry_seconds"`
	} `yaml:"aws"`

	Workers struct {
		Count               int `yaml:"count"`
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
		MaxWaitSeconds      int `yaml:"max_wait_seconds"`
	} `yaml:"workers"`

	Analysis struct {
		SampleLimit int `yaml:"sample_limit"`
	} `yaml:"analysis"`

	Storage struct {
		Database string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`
}

func main() {
	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// AWS clients
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.AWS.Region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// Object store
	objectStore := storage.NewObjectStore(
		s3.NewFromConfig(awsCfg),
		config.AWS.AudioBucket,
		config.AWS.TranscriptBucket,
		time.Duration(config.AWS.PresignExpirySeconds)*time.Second,
	)

	// Transcription client
	transcribeClient := transcribe.NewClient(
		awstranscribe.NewFromConfig(awsCfg),
		config.AWS.LanguageCode,
		config.AWS.MaxSpeakers,
	)

	// Database
	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Analyzer
	analyzer := analysis.NewAnalyzer(config.Analysis.SampleLimit)

	// Worker pool
	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		transcribeClient,
		objectStore,
		db,
		analyzer,
		time.Duration(config.Workers.PollIntervalSeconds)*time.Second,
		time.Duration(config.Workers.MaxWaitSeconds)*time.Second,
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		db,
		config.Cleanup.IntervalMinutes,
		config.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // JSON bodies only; audio goes straight to S3
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	presignHandler := handlers.NewPresignHandler(objectStore)
	transcribeHandler := handlers.NewTranscribeHandler(workerPool, transcribeClient, objectStore, db)
	statusHandler := handlers.NewStatusHandler(db)
	resultsHandler := handlers.NewResultsHandler(db, objectStore)
	progressHandler := handlers.NewProgressHandler(db)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/presign", presignHandler.Handle)
	app.Post("/transcribe", transcribeHandler.Handle)
	app.Get("/status", statusHandler.Handle)
	app.Get("/results/:jobName", resultsHandler.Handle)

	// WebSocket route
	app.Get("/ws/jobs/:jobName", websocket.New(progressHandler.Handle))

	// List recent jobs
	app.Get("/jobs", func(c *fiber.Ctx) error {
		limit := 50 // Default limit
		jobs, err := db.ListJobs(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(jobs)
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /presign          - Get presigned audio upload URL")
	log.Println("   POST /transcribe       - Start transcription job")
	log.Println("   GET  /status           - Poll job status")
	log.Println("   GET  /results/:jobName - Get analysis for completed job")
	log.Println("   GET  /ws/jobs/:jobName - Stream job status updates")
	log.Println("   GET  /jobs             - List recent jobs")
	log.Println("   GET  /logs             - View server logs")
	log.Println("   GET  /health           - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file, with env overrides for
// the deployment-specific values.
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if v := os.Getenv("AUDIO_BUCKET"); v != "" {
		config.AWS.AudioBucket = v
	}
	if v := os.Getenv("TRANSCRIPT_BUCKET"); v != "" {
		config.AWS.TranscriptBucket = v
	}
	if v := os.Getenv("LANGUAGE_CODE"); v != "" {
		config.AWS.LanguageCode = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		config.AWS.Region = v
	}

	if config.AWS.AudioBucket == "" {
		return nil, fmt.Errorf("audio bucket not configured (set aws.audio_bucket or AUDIO_BUCKET)")
	}

	return &config, nil
}
