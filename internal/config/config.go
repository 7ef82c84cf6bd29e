package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	SQLitePath        string
	RedisURL          string
	JWTSecret         string
	StorageBackend    string
	StorageDir        string
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioBucket       string
	MinioUseSSL       bool
	MaxUploadMB       int
	DashboardCacheTTL time.Duration
	AIProvider        string
	BedrockRegion     string
	BedrockModelID    string
	OpenAIAPIKey      string
	OpenAIModel       string
	AIMaxTokens       int
	AIInvokeTimeout   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADEFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GradeFlow API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("sqlite.path", "gradeflow.db")
	v.SetDefault("storage.backend", "disk")
	v.SetDefault("storage.dir", "storage")
	v.SetDefault("minio.bucket", "gradeflow")
	v.SetDefault("max_upload_mb", 25)
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("ai.provider", "bedrock")
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-sonnet-20240229-v1:0")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("ai.invoke_timeout", "30s")

	ttl, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	invokeTimeout, err := time.ParseDuration(v.GetString("ai.invoke_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai invoke timeout: %w", err)
	}
	if invokeTimeout <= 0 {
		invokeTimeout = 30 * time.Second
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		SQLitePath:        v.GetString("sqlite.path"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		StorageBackend:    strings.ToLower(v.GetString("storage.backend")),
		StorageDir:        v.GetString("storage.dir"),
		MinioEndpoint:     v.GetString("minio.endpoint"),
		MinioAccessKey:    v.GetString("minio.access_key"),
		MinioSecretKey:    v.GetString("minio.secret_key"),
		MinioBucket:       v.GetString("minio.bucket"),
		MinioUseSSL:       v.GetBool("minio.use_ssl"),
		MaxUploadMB:       v.GetInt("max_upload_mb"),
		DashboardCacheTTL: ttl,
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		BedrockRegion:     v.GetString("bedrock.region"),
		BedrockModelID:    v.GetString("bedrock.model_id"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		AIMaxTokens:       v.GetInt("ai.max_tokens"),
		AIInvokeTimeout:   invokeTimeout,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 25
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 1000
	}

	return cfg, nil
}
