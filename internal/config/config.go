package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"skazka-server/internal/logger" // Для конфигурации логгера
)

// Config структура для хранения всей конфигурации приложения.
type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	Logger   logger.Config
	Server   ServerConfig
	CORS     CORSConfig
	Database DatabaseConfig
	Storage  StorageConfig
	OpenAI   OpenAIConfig
	Image    ImageConfig
	Speech   SpeechConfig
}

// ServerConfig настройки HTTP сервера.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// CORSConfig настройки CORS для фронтенда.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// DatabaseConfig настройки подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-required:"true"`
	Name     string `env:"DB_NAME" env-default:"skazka_db"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNECTIONS" env-default:"10"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// StorageConfig настройки объектного хранилища (MinIO).
type StorageConfig struct {
	Endpoint         string        `env:"STORAGE_ENDPOINT" env-required:"true"`
	AccessKey        string        `env:"STORAGE_ACCESS_KEY" env-required:"true"`
	SecretKey        string        `env:"STORAGE_SECRET_KEY" env-required:"true"`
	UseSSL           bool          `env:"STORAGE_USE_SSL" env-default:"false"`
	StoriesBucket    string        `env:"STORAGE_STORIES_BUCKET" env-default:"stories"`
	ImagesBucket     string        `env:"STORAGE_IMAGES_BUCKET" env-default:"images"`
	AudioBucket      string        `env:"STORAGE_AUDIO_BUCKET" env-default:"audio"`
	URLExpiry        time.Duration `env:"STORAGE_URL_EXPIRY" env-default:"168h"` // Срок действия presigned URL
	OperationTimeout time.Duration `env:"STORAGE_OPERATION_TIMEOUT" env-default:"30s"`
}

// OpenAIConfig настройки клиента генерации текста.
type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY" env-required:"true"`
	BaseURL string        `env:"OPENAI_BASE_URL" env-default:""` // Пусто = api.openai.com
	Model   string        `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" env-default:"120s"`
}

// ImageConfig настройки клиента генерации иллюстраций.
type ImageConfig struct {
	Model           string        `env:"IMAGE_MODEL" env-default:"dall-e-3"`
	Size            string        `env:"IMAGE_SIZE" env-default:"1024x1024"`
	Timeout         time.Duration `env:"IMAGE_TIMEOUT" env-default:"120s"`
	DownloadTimeout time.Duration `env:"IMAGE_DOWNLOAD_TIMEOUT" env-default:"60s"`
}

// SpeechConfig настройки клиента синтеза речи.
type SpeechConfig struct {
	Model   string        `env:"SPEECH_MODEL" env-default:"tts-1"`
	Voice   string        `env:"SPEECH_VOICE" env-default:"nova"`
	Timeout time.Duration `env:"SPEECH_TIMEOUT" env-default:"120s"`
}

// Load загружает конфигурацию из переменных окружения и .env файла.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	return &cfg, nil
}
