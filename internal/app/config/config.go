package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"procurement/internal/app/dsn"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultCORSOrigins: dev-серверы фронтенда
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

type Config struct {
	ServiceHost string
	ServicePort int
	CORSOrigins []string
	DSN         string
	MinIO       MinIOConfig
	Redis       RedisConfig
	OpenAI      OpenAIConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type RedisConfig struct {
	Host          string
	Password      string
	Port          int
	User          string
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	ExtractionTTL time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ClientConfig настройки клиента (CLI intake), читаются только из окружения
type ClientConfig struct {
	BackendURL string
	Timeout    time.Duration
	NoticeTTL  time.Duration
}

const (
	envConfigName = "CONFIG_NAME"
	envConfigPath = "CONFIG_PATH"

	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinioEndpoint = "MINIO_ENDPOINT"
	envMinioAccess   = "MINIO_ACCESS_KEY"
	envMinioSecret   = "MINIO_SECRET_KEY"

	envOpenAIKey   = "OPENAI_API_KEY"
	envOpenAIModel = "OPENAI_MODEL"

	envBackendURL = "BACKEND_URL"
	envNoticeTTL  = "NOTICE_TTL"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv(envConfigName) != "" {
		configName = os.Getenv(envConfigName)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	if p := os.Getenv(envConfigPath); p != "" {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("ServiceHost", "0.0.0.0")
	v.SetDefault("ServicePort", 8000)
	v.SetDefault("CORSOrigins", DefaultCORSOrigins)
	v.SetDefault("MinIO.Bucket", "procurement-documents")
	v.SetDefault("Redis.ExtractionTTL", 24*time.Hour)
	v.SetDefault("OpenAI.Model", "gpt-4o")

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warnf("config file %q not found, using defaults", configName)
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if d := dsn.FromEnv(); d != "" {
		cfg.DSN = d
	}

	// MinIO и OpenAI: секреты только из env
	overrideString(&cfg.MinIO.Endpoint, envMinioEndpoint)
	overrideString(&cfg.MinIO.AccessKey, envMinioAccess)
	overrideString(&cfg.MinIO.SecretKey, envMinioSecret)
	overrideString(&cfg.OpenAI.APIKey, envOpenAIKey)
	overrideString(&cfg.OpenAI.Model, envOpenAIModel)

	// инициализация Redis конфигурации из env
	overrideString(&cfg.Redis.Host, envRedisHost)
	if port := os.Getenv(envRedisPort); port != "" {
		cfg.Redis.Port, err = strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	overrideString(&cfg.Redis.Password, envRedisPass)
	overrideString(&cfg.Redis.User, envRedisUser)
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 10 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 10 * time.Second
	}

	log.Info("config parsed")

	return cfg, nil
}

// NewClientConfig читает настройки клиента: BACKEND_URL и NOTICE_TTL
func NewClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(envBackendURL, "http://localhost:8000")
	v.SetDefault(envNoticeTTL, 3*time.Second)
	v.SetDefault("CLIENT_TIMEOUT", 30*time.Second)
	v.AutomaticEnv()

	cfg := &ClientConfig{
		BackendURL: v.GetString(envBackendURL),
		Timeout:    v.GetDuration("CLIENT_TIMEOUT"),
		NoticeTTL:  v.GetDuration(envNoticeTTL),
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("backend url is empty")
	}
	if cfg.NoticeTTL <= 0 {
		return nil, fmt.Errorf("notice ttl must be positive, got %s", cfg.NoticeTTL)
	}

	return cfg, nil
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
