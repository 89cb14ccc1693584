package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGroq     = "groq"
	ProviderGigaChat = "gigachat"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	GigaChat  GigaChatConfig
	Proxy     ProxyConfig
	Embedding EmbeddingConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	BodyLimit        int
	CORSAllowOrigins string
}

// LLMConfig describes the OpenAI-compatible chat completion endpoint.
// Timeout of zero leaves requests bounded only by the remote API.
type LLMConfig struct {
	Provider        string
	APIKey          string
	BaseURL         string
	ExtractionModel string
	VisionModel     string
	VisionMaxTokens int
	Timeout         time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type ProxyConfig struct {
	AllowedHosts []string
	Timeout      time.Duration
	MaxBytes     int
}

type EmbeddingConfig struct {
	Dimensions int
}

var defaults = map[string]any{
	"SERVER_PORT":                   "8000",
	"SERVER_READ_TIMEOUT":           "30s",
	"SERVER_WRITE_TIMEOUT":          "120s",
	"SERVER_BODY_LIMIT":             32 * 1024 * 1024,
	"CORS_ALLOW_ORIGINS":            "*",
	"LLM_PROVIDER":                  ProviderGroq,
	"LLM_BASE_URL":                  "https://api.groq.com/openai/v1",
	"EXTRACTION_MODEL":              "openai/gpt-oss-120b",
	"VISION_MODEL":                  "meta-llama/llama-4-scout-17b-16e-instruct",
	"VISION_MAX_TOKENS":             4096,
	"LLM_TIMEOUT":                   "0s",
	"GIGACHAT_SCOPE":                "GIGACHAT_API_PERS",
	"GIGACHAT_MODEL":                "GigaChat",
	"GIGACHAT_INSECURE_SKIP_VERIFY": false,
	"PROXY_ALLOWED_HOSTS":           "",
	"PROXY_TIMEOUT":                 "30s",
	"PROXY_MAX_BYTES":               50 * 1024 * 1024,
	"EMBEDDING_DIMENSIONS":          384,
	"LOG_LEVEL":                     "info",
}

// Load reads an optional .env file and then resolves every setting from the
// process environment, falling back to defaults.
func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	apiKey := v.GetString("LLM_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("GROQ_API_KEY")
	}

	return &Config{
		Server: ServerConfig{
			Port:             v.GetString("SERVER_PORT"),
			ReadTimeout:      v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:     v.GetDuration("SERVER_WRITE_TIMEOUT"),
			BodyLimit:        v.GetInt("SERVER_BODY_LIMIT"),
			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
			APIKey:          apiKey,
			BaseURL:         v.GetString("LLM_BASE_URL"),
			ExtractionModel: v.GetString("EXTRACTION_MODEL"),
			VisionModel:     v.GetString("VISION_MODEL"),
			VisionMaxTokens: v.GetInt("VISION_MAX_TOKENS"),
			Timeout:         v.GetDuration("LLM_TIMEOUT"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             v.GetString("GIGACHAT_API_KEY"),
			Scope:              v.GetString("GIGACHAT_SCOPE"),
			Model:              v.GetString("GIGACHAT_MODEL"),
			InsecureSkipVerify: v.GetBool("GIGACHAT_INSECURE_SKIP_VERIFY"),
		},
		Proxy: ProxyConfig{
			AllowedHosts: splitList(v.GetString("PROXY_ALLOWED_HOSTS")),
			Timeout:      v.GetDuration("PROXY_TIMEOUT"),
			MaxBytes:     v.GetInt("PROXY_MAX_BYTES"),
		},
		Embedding: EmbeddingConfig{
			Dimensions: v.GetInt("EMBEDDING_DIMENSIONS"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
