// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Auth     AuthConfig    `yaml:"auth"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Mongo    MongoConfig   `yaml:"mongo"`
	S3       S3Config      `yaml:"s3"`
	Cache    CacheConfig   `yaml:"cache"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig содержит параметры выпуска и валидации токенов.
// Access- и refresh-токены подписываются РАЗНЫМИ секретами:
// компрометация одного не раскрывает второй.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	RefreshJWTSecret string        `yaml:"refresh_jwt_secret" env:"REFRESH_JWT_SECRET" env-required:"true"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"60m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	Issuer           string        `yaml:"issuer" env:"ISSUER" env-default:"news-backend"`
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DatabaseURL string `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — настройки подключения к Redis (сессии + кэш).
type RedisConfig struct {
	RedisURL string `yaml:"redis_url" env:"REDIS_URL" env-required:"true"`
	Prefix   string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"auth:"`
}

// MongoConfig — настройки подключения к MongoDB (комментарии).
type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL" env-required:"true"`
}

// S3Config — настройки S3-совместимого хранилища аватаров (MinIO).
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	AccessKey     string        `yaml:"access_key" env:"S3_ACCESS_KEY" env-required:"true"`
	SecretKey     string        `yaml:"secret_key" env:"S3_SECRET_KEY" env-required:"true"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"avatars"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"15m"`
	MaxAvatarSize int64         `yaml:"max_avatar_size" env:"S3_MAX_AVATAR_SIZE" env-default:"5242880"`
}

// CacheConfig — TTL read-through-кэша по типам сущностей.
// Инвалидация кэша только по TTL: окно устаревания задаётся здесь явно.
type CacheConfig struct {
	UserTTL time.Duration `yaml:"user_ttl" env:"USER_CACHE_TTL" env-default:"300s"`
	NewsTTL time.Duration `yaml:"news_ttl" env:"NEWS_CACHE_TTL" env-default:"300s"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
