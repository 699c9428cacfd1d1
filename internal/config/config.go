package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Supported LLM providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderArk        = "ark"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Vision VisionConfig
	Memory MemoryConfig
	Skill  SkillConfig
}

// Load reads the whole configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	vision := loadVisionConfig()

	memory, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Vision: vision,
		Memory: memory,
		Skill:  SkillConfig{Path: strings.TrimSpace(os.Getenv("SKILL_CONFIG_PATH"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the text-generation model settings.
type AIConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	AccessKey      string
	SecretKey      string
	Region         string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	Timeout        time.Duration
	StreamResponse bool
}

// VisionConfig describes the image-understanding model settings.
type VisionConfig struct {
	APIKey string
	Model  string
}

// Enabled reports whether the vision path can be initialized.
func (c VisionConfig) Enabled() bool {
	return c.APIKey != ""
}

// MemoryConfig describes the optional external transcript store.
type MemoryConfig struct {
	RedisURL string
	TTL      time.Duration
}

// Enabled reports whether transcripts should be kept in redis.
func (c MemoryConfig) Enabled() bool {
	return c.RedisURL != ""
}

// SkillConfig points at an optional skill descriptor override file.
type SkillConfig struct {
	Path string
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	if c.Model == "" {
		return false
	}
	switch c.Provider {
	case ProviderArk:
		return c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")
	default:
		return c.APIKey != ""
	}
}

// NewChatModel builds the configured eino chat model. Both providers
// satisfy model.ChatModel, so callers stay provider-agnostic.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: provide OPENROUTER_API_KEY or ARK_API_KEY / AK+SK plus a model name")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	switch c.Provider {
	case ProviderArk:
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     c.BaseURL,
			Region:      c.Region,
			APIKey:      c.APIKey,
			AccessKey:   c.AccessKey,
			SecretKey:   c.SecretKey,
			Model:       c.Model,
			MaxTokens:   c.MaxTokens,
			Temperature: temperature,
			TopP:        topP,
		})
	case ProviderOpenRouter:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     c.BaseURL,
			APIKey:      c.APIKey,
			Model:       c.Model,
			MaxTokens:   c.MaxTokens,
			Temperature: temperature,
			TopP:        topP,
			Timeout:     c.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderOpenRouter))
	switch provider {
	case ProviderOpenRouter, ProviderArk:
	default:
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value: %q", provider)
	}

	temperature, err := parseOptionalFloatEnv("LLM_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("LLM_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("LLM_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("LLM_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	timeoutSeconds, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := 60 * time.Second
	if timeoutSeconds != nil && *timeoutSeconds > 0 {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	cfg := AIConfig{
		Provider:       provider,
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		Timeout:        timeout,
		StreamResponse: stream,
	}

	switch provider {
	case ProviderArk:
		cfg.APIKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
		cfg.AccessKey = strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
		cfg.SecretKey = strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
		cfg.Model = strings.TrimSpace(os.Getenv("ARK_MODEL"))
		cfg.BaseURL = getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
		cfg.Region = getEnvOrDefault("ARK_REGION", "cn-beijing")
	default:
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
		cfg.Model = getEnvOrDefault("OPENROUTER_MODEL", "meta-llama/llama-3-8b-instruct")
		cfg.BaseURL = getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	}

	return cfg, nil
}

func loadVisionConfig() VisionConfig {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}
	return VisionConfig{
		APIKey: apiKey,
		Model:  getEnvOrDefault("VISION_MODEL", "gemini-2.0-flash"),
	}
}

func loadMemoryConfig() (MemoryConfig, error) {
	ttlHours, err := parseOptionalIntEnv("MEMORY_TTL_HOURS")
	if err != nil {
		return MemoryConfig{}, err
	}
	ttl := 720 * time.Hour
	if ttlHours != nil && *ttlHours > 0 {
		ttl = time.Duration(*ttlHours) * time.Hour
	}

	return MemoryConfig{
		RedisURL: strings.TrimSpace(os.Getenv("MEMORY_REDIS_URL")),
		TTL:      ttl,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
