// Package config resolves runtime configuration from the environment
// and an optional YAML file, and sets up logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values. It is threaded explicitly into
// every constructor instead of being read ambiently at call sites.
type Config struct {
	// Storage
	DBPath        string `yaml:"db_path"`
	DefaultSchema string `yaml:"default_schema"`

	// Providers
	OllamaHost      string `yaml:"ollama_host"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Default models, "<provider>/<model-name>"
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`

	// Chunking defaults
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		DBPath:        getEnv("TABLERAG_DB", "tablerag.db"),
		DefaultSchema: getEnv("TABLERAG_SCHEMA", "main"),

		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		EmbeddingModel: getEnv("TABLERAG_EMBEDDING_MODEL", "ollama/nomic-embed-text"),
		ChatModel:      getEnv("TABLERAG_CHAT_MODEL", "ollama/llama3"),

		ChunkSize:    getEnvInt("TABLERAG_CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("TABLERAG_CHUNK_OVERLAP", 200),

		LogFile:  getEnv("TABLERAG_LOG_FILE", "/tmp/tablerag.log"),
		LogLevel: parseLogLevel(getEnv("TABLERAG_LOG_LEVEL", "INFO")),
	}
}

// LoadWithFile overlays a YAML config file over the environment values.
// Only fields present in the file replace their environment counterparts.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var overlay struct {
		DBPath          *string `yaml:"db_path"`
		DefaultSchema   *string `yaml:"default_schema"`
		OllamaHost      *string `yaml:"ollama_host"`
		OpenAIAPIKey    *string `yaml:"openai_api_key"`
		OpenAIBaseURL   *string `yaml:"openai_base_url"`
		AnthropicAPIKey *string `yaml:"anthropic_api_key"`
		EmbeddingModel  *string `yaml:"embedding_model"`
		ChatModel       *string `yaml:"chat_model"`
		ChunkSize       *int    `yaml:"chunk_size"`
		ChunkOverlap    *int    `yaml:"chunk_overlap"`
		LogFile         *string `yaml:"log_file"`
		LogLevel        *string `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	setIf(&cfg.DBPath, overlay.DBPath)
	setIf(&cfg.DefaultSchema, overlay.DefaultSchema)
	setIf(&cfg.OllamaHost, overlay.OllamaHost)
	setIf(&cfg.OpenAIAPIKey, overlay.OpenAIAPIKey)
	setIf(&cfg.OpenAIBaseURL, overlay.OpenAIBaseURL)
	setIf(&cfg.AnthropicAPIKey, overlay.AnthropicAPIKey)
	setIf(&cfg.EmbeddingModel, overlay.EmbeddingModel)
	setIf(&cfg.ChatModel, overlay.ChatModel)
	setIf(&cfg.ChunkSize, overlay.ChunkSize)
	setIf(&cfg.ChunkOverlap, overlay.ChunkOverlap)
	setIf(&cfg.LogFile, overlay.LogFile)
	if overlay.LogLevel != nil {
		cfg.LogLevel = parseLogLevel(*overlay.LogLevel)
	}
	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
