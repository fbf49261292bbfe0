package main

import (
	"context"
	"time"

	"github.com/OFFIS-RIT/pedigree/backend/internal/config"
	"github.com/OFFIS-RIT/pedigree/backend/internal/server"
	mid "github.com/OFFIS-RIT/pedigree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/pedigree/backend/internal/storage"
	"github.com/OFFIS-RIT/pedigree/backend/internal/util"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/analysis"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/chat"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/extract"
	lio "github.com/OFFIS-RIT/pedigree/backend/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/pedigree/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()
	cfg := config.Load()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
		JSON:  cfg.LogJSON,
	})
	logger.Init(consoleLogger)

	backend, err := analysis.ParseBackend(cfg.GraphBackend)
	if err != nil {
		logger.Fatal("Invalid graph backend", "err", err)
	}

	aiClient, err := config.NewAIClient(cfg)
	if err != nil {
		logger.Fatal("Failed to create AI client", "err", err)
	}
	if aiClient == nil {
		logger.Warn("AI is disabled, chat uses the offline parser and images are only scanned for QR codes")
	}

	app := &mid.App{
		Analysis: analysis.NewEngine(analysis.NewEngineParams{Backend: backend}),
		Chat: chat.NewEngine(chat.NewEngineParams{
			AIClient:   aiClient,
			Model:      cfg.ChatModel,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: 500 * time.Millisecond,
		}),
		Extractor: extract.NewExtractor(extract.NewExtractorParams{
			AIClient:    aiClient,
			Model:       cfg.ExtractModel,
			MaxRetries:  cfg.MaxRetries,
			OCRParallel: cfg.OCRParallel,
		}),
		Uploads:        lio.NewMemoryFileLoader(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	if cfg.S3Enabled() {
		client, err := storage.NewS3Client(context.Background(), storage.S3Params{
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.AWSEndpoint,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		app.S3Loader = s3loader.NewS3FileLoader(cfg.AWSBucket, client)
		app.Store = storage.NewStore(cfg.AWSBucket, client, cfg.AWSPublicEndpoint)
	}

	logger.Info("Configured services",
		"graph_backend", backend,
		"ai_adapter", cfg.AIAdapter,
		"chat_model", app.Chat.Model(),
		"bucket", cfg.AWSBucket,
	)

	server.Init(app, cfg.Port, cfg.BodyLimit)
}
