package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration error. These are fatal at startup.
var ErrInvalid = errors.New("invalid configuration")

// ChatConfig configures the chat completion backend.
type ChatConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type        string `yaml:"type"` // "openai" or "local"
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// HistoryConfig bounds the retained conversation window.
type HistoryConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// DocumentConfig configures ingestion and retrieval.
type DocumentConfig struct {
	MaxChunkSize       int   `yaml:"max_chunk_size"`
	TopK               int   `yaml:"top_k"`
	MaxAttachmentBytes int64 `yaml:"max_attachment_bytes"`
}

// ServerConfig configures the HTTP transport adapter.
type ServerConfig struct {
	Port        string `yaml:"port"`
	LogFile     string `yaml:"log_file"`
	Environment string `yaml:"environment"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chat     ChatConfig     `yaml:"chat"`
	Embedder EmbedderConfig `yaml:"embedder"`
	History  HistoryConfig  `yaml:"history"`
	Document DocumentConfig `yaml:"document"`
	Server   ServerConfig   `yaml:"server"`
}

// Load reads a config from the specified path. If the file does not exist,
// returns defaults. The result is validated; validation failures are fatal
// configuration errors, not runtime errors.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Chat: ChatConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			TimeoutSecs: 60,
		},
		Embedder: EmbedderConfig{
			Type:        "openai",
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "text-embedding-3-small",
			TimeoutSecs: 30,
		},
		History: HistoryConfig{MaxTurns: 10},
		Document: DocumentConfig{
			MaxChunkSize:       1000,
			TopK:               3,
			MaxAttachmentBytes: 20 * 1024 * 1024,
		},
		Server: ServerConfig{
			Port:        "3978",
			LogFile:     "docchat.log",
			Environment: "development",
		},
	}
}

func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Chat.APIKeyEnv == "" {
		cfg.Chat.APIKeyEnv = def.Chat.APIKeyEnv
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = def.Chat.Model
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = def.Chat.TimeoutSecs
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = def.Embedder.APIKeyEnv
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = def.Embedder.Model
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = def.Embedder.TimeoutSecs
	}
	if cfg.History.MaxTurns == 0 {
		cfg.History.MaxTurns = def.History.MaxTurns
	}
	if cfg.Document.MaxChunkSize == 0 {
		cfg.Document.MaxChunkSize = def.Document.MaxChunkSize
	}
	if cfg.Document.TopK == 0 {
		cfg.Document.TopK = def.Document.TopK
	}
	if cfg.Document.MaxAttachmentBytes == 0 {
		cfg.Document.MaxAttachmentBytes = def.Document.MaxAttachmentBytes
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.LogFile == "" {
		cfg.Server.LogFile = def.Server.LogFile
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = def.Server.Environment
	}
}

// Validate checks the caps and sizes that the rest of the system assumes to
// be positive. It fails fast so misconfiguration never surfaces as an error
// in the middle of a conversation.
func (c *AppConfig) Validate() error {
	if c.History.MaxTurns <= 0 {
		return fmt.Errorf("%w: history.max_turns must be positive, got %d", ErrInvalid, c.History.MaxTurns)
	}
	if c.Document.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: document.max_chunk_size must be positive, got %d", ErrInvalid, c.Document.MaxChunkSize)
	}
	if c.Document.TopK <= 0 {
		return fmt.Errorf("%w: document.top_k must be positive, got %d", ErrInvalid, c.Document.TopK)
	}
	if c.Document.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("%w: document.max_attachment_bytes must be positive, got %d", ErrInvalid, c.Document.MaxAttachmentBytes)
	}
	switch c.Embedder.Type {
	case "openai", "local":
	default:
		return fmt.Errorf("%w: unknown embedder type %q", ErrInvalid, c.Embedder.Type)
	}
	return nil
}
