// Package config reads the service configuration from the environment.
package config

import (
	"github.com/OFFIS-RIT/pedigree/backend/internal/util"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/chat"
)

// Config holds every setting read from the environment.
type Config struct {
	Debug     bool
	LogJSON   bool
	Port      string
	BodyLimit string

	AIAdapter      string
	ChatURL        string
	ChatKey        string
	ChatModel      string
	ExtractModel   string
	ImageModel     string
	ImageURL       string
	ImageKey       string
	ParallelReq    int
	MaxRetries     int
	OCRParallel    int
	GraphBackend   string
	MaxUploadBytes int64

	AWSRegion         string
	AWSEndpoint       string
	AWSPublicEndpoint string
	AWSAccessKey      string
	AWSSecretKey      string
	AWSBucket         string
}

// Load reads the configuration. Call util.LoadEnv first to pick up a .env
// file.
func Load() Config {
	return Config{
		Debug:     util.GetEnvBool("DEBUG", false),
		LogJSON:   util.GetEnvString("LOG_FORMAT", "text") == "json",
		Port:      util.GetEnvString("PORT", "8080"),
		BodyLimit: util.GetEnvString("BODY_LIMIT", "32M"),

		AIAdapter:      util.GetEnvString("AI_ADAPTER", "ollama"),
		ChatURL:        util.GetEnv("AI_CHAT_URL"),
		ChatKey:        util.GetEnv("AI_CHAT_KEY"),
		ChatModel:      util.GetEnvString("AI_CHAT_MODEL", chat.DefaultModel),
		ExtractModel:   util.GetEnv("AI_EXTRACT_MODEL"),
		ImageModel:     util.GetEnv("AI_IMAGE_MODEL"),
		ImageURL:       util.GetEnv("AI_IMAGE_URL"),
		ImageKey:       util.GetEnv("AI_IMAGE_KEY"),
		ParallelReq:    util.GetEnvInt("AI_PARALLEL_REQ", 4),
		MaxRetries:     util.GetEnvInt("AI_MAX_RETRIES", 2),
		OCRParallel:    util.GetEnvInt("OCR_PARALLEL", 2),
		GraphBackend:   util.GetEnvString("GRAPH_BACKEND", "gonum"),
		MaxUploadBytes: util.GetEnvSize("MAX_UPLOAD_SIZE", 10<<20),

		AWSRegion:         util.GetEnvString("AWS_REGION", "us-east-1"),
		AWSEndpoint:       util.GetEnv("AWS_ENDPOINT"),
		AWSPublicEndpoint: util.GetEnv("AWS_PUBLIC_ENDPOINT"),
		AWSAccessKey:      util.GetEnv("AWS_ACCESS_KEY"),
		AWSSecretKey:      util.GetEnv("AWS_SECRET_KEY"),
		AWSBucket:         util.GetEnv("AWS_BUCKET"),
	}
}

// AIEnabled reports whether a model backend is configured. AI_ADAPTER=none
// runs the service with the offline chat parser and without OCR.
func (c Config) AIEnabled() bool {
	return c.AIAdapter != "none" && c.AIAdapter != ""
}

// S3Enabled reports whether a bucket is configured.
func (c Config) S3Enabled() bool {
	return c.AWSBucket != ""
}
