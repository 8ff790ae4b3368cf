package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"docchat/internal/bot"
	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/embedding"
	"docchat/internal/embedding/local"
	embopenai "docchat/internal/embedding/openai"
	"docchat/internal/extractor"
	llmopenai "docchat/internal/llm/openai"
	"docchat/internal/logging"
	"docchat/internal/server"
	"docchat/internal/session"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Server.LogFile, cfg.Server.Environment == "production")
	defer func() { _ = logger.Sync() }()

	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "openai":
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Model:     cfg.Embedder.Model,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("embedder init failed: %v", err)
		}
		emb = client
	case "local":
		emb = local.NewEmbedder()
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	chat, err := llmopenai.NewClient(llmopenai.Config{
		BaseURL:     cfg.Chat.BaseURL,
		APIKeyEnv:   cfg.Chat.APIKeyEnv,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Timeout:     time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("chat client init failed: %v", err)
	}

	handler, err := bot.NewHandler(
		bot.Config{
			MaxTurns:           cfg.History.MaxTurns,
			TopK:               cfg.Document.TopK,
			MaxAttachmentBytes: cfg.Document.MaxAttachmentBytes,
		},
		session.NewStore(),
		extractor.NewRegistry(logger),
		chunker.NewSplitter(cfg.Document.MaxChunkSize, logger),
		emb,
		chat,
		server.NewHTTPFetcher(30*time.Second, cfg.Document.MaxAttachmentBytes),
		logger,
	)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	srv := server.New(cfg.Server, cfg.Document.MaxAttachmentBytes, handler, logger)
	if err := srv.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
