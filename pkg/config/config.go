package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Elastic   ElasticConfig
	Embedding EmbeddingConfig
	Model     ModelConfig
	Recommend RecommendConfig
	Tagger    TaggerConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	EmbeddingTTL  time.Duration
}

type ElasticConfig struct {
	URL         string
	Index       string
	Username    string
	Password    string
	APIKeyID    string
	APIKey      string
	Timeout     time.Duration
	VectorField string
}

type EmbeddingConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

type ModelConfig struct {
	Path string
}

// RecommendConfig overrides values of the tuning file. Zero keeps the file
// (or built-in) value.
type RecommendConfig struct {
	ConfigFile       string
	PerCategoryLimit int
	TopK             int
}

type TaggerConfig struct {
	BatchSize int
	Schedule  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "vegin-reco"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "vegin"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),

			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			EmbeddingTTL:  getEnvDuration("REDIS_EMBEDDING_TTL", 24*time.Hour),
		},
		Elastic: ElasticConfig{
			URL:         getEnv("ES_URL", "http://localhost:9200"),
			Index:       getEnv("ES_INDEX", "cosmetics_demo"),
			Username:    getEnv("ES_USERNAME", ""),
			Password:    getEnv("ES_PASSWORD", ""),
			APIKeyID:    getEnv("ES_API_KEY_ID", ""),
			APIKey:      getEnv("ES_API_KEY", ""),
			Timeout:     getEnvDuration("ES_TIMEOUT", 30*time.Second),
			VectorField: getEnv("ES_VECTOR_FIELD", "review_vector"),
		},
		Embedding: EmbeddingConfig{
			BaseURL:   getEnv("EMBEDDING_URL", "http://localhost:8080/v1"),
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			Model:     getEnv("EMBEDDING_MODEL", "jhgan/ko-sroberta-multitask"),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 768),
			Timeout:   getEnvDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Model: ModelConfig{
			Path: getEnv("LTR_MODEL_PATH", "ltr_booster.json"),
		},
		Recommend: RecommendConfig{
			ConfigFile:       getEnv("RECOMMEND_CONFIG_FILE", ""),
			PerCategoryLimit: getEnvInt("RECOMMEND_PER_CATEGORY_LIMIT", 0),
			TopK:             getEnvInt("RECOMMEND_TOPK", 0),
		},
		Tagger: TaggerConfig{
			BatchSize: getEnvInt("XAI_BATCH_SIZE", 1000),
			Schedule:  getEnv("XAI_SCHEDULE", "0 4 * * *"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Embedding.Dimension <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}

	return cfg, nil
}

// LoadSearchOnly loads the subset needed by the batch tagger, which talks to
// the search backend only and has no database or JWT requirements.
func LoadSearchOnly() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "vegin-xai-tagger"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Elastic: ElasticConfig{
			URL:         getEnv("ES_URL", "http://localhost:9200"),
			Index:       getEnv("ES_INDEX", "cosmetics_demo"),
			Username:    getEnv("ES_USERNAME", ""),
			Password:    getEnv("ES_PASSWORD", ""),
			APIKeyID:    getEnv("ES_API_KEY_ID", ""),
			APIKey:      getEnv("ES_API_KEY", ""),
			Timeout:     getEnvDuration("ES_TIMEOUT", 60*time.Second),
			VectorField: getEnv("ES_VECTOR_FIELD", "review_vector"),
		},
		Tagger: TaggerConfig{
			BatchSize: getEnvInt("XAI_BATCH_SIZE", 1000),
			Schedule:  getEnv("XAI_SCHEDULE", "0 4 * * *"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
