package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
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
	"docchat/internal/session"
	"docchat/internal/tui"
)

// localFetcher reads attachments from the local filesystem; the attachment
// URL is a plain file path.
type localFetcher struct{}

func (localFetcher) Fetch(_ context.Context, att bot.Attachment) ([]byte, error) {
	return os.ReadFile(att.URL)
}

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var useLocal bool
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.BoolVar(&useLocal, "local", false, "Use the offline local embedder regardless of config")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if useLocal {
		cfg.Embedder.Type = "local"
	}

	// File-only logging keeps the TTY free for the chat view.
	logger := logging.NewFileOnly(cfg.Server.LogFile)
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
		localFetcher{},
		logger,
	)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	m := tui.New(handler, "local-user")
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
