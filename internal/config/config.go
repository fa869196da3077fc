package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Qdrant     QdrantConfig     `mapstructure:"qdrant"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Suggestion SuggestionConfig `mapstructure:"suggestion"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Friends    FriendsConfig    `mapstructure:"friends"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	APIKey     string `mapstructure:"api_key"`
	UseTLS     bool   `mapstructure:"use_tls"`
	Dimensions int    `mapstructure:"dimensions"`
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// BackendConfig points at the TrueGift backend that serves photo batches.
type BackendConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIPrefix        string        `mapstructure:"api_prefix"`
	DefaultAuthToken string        `mapstructure:"default_auth_token"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxPhotos        int           `mapstructure:"max_photos"`
}

// ClassifierConfig configures the two YOLO-serving endpoints and the
// confidence threshold for the food-specific model.
type ClassifierConfig struct {
	PrimaryURL          string        `mapstructure:"primary_url"`
	PrimaryModel        string        `mapstructure:"primary_model"`
	GeneralURL          string        `mapstructure:"general_url"`
	GeneralModel        string        `mapstructure:"general_model"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

type SuggestionConfig struct {
	TopK       int `mapstructure:"top_k"`
	Oversample int `mapstructure:"oversample"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// FriendsConfig holds the static friendship pairs ("userA:userB") used by
// the shipped relation adapter until a real social-graph lookup exists.
type FriendsConfig struct {
	Pairs []string `mapstructure:"pairs"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/truegift.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "vietnamese_food_photos")
	v.SetDefault("qdrant.dimensions", 384)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "truegift-photos")
	v.SetDefault("backend.base_url", "http://localhost:3000")
	v.SetDefault("backend.api_prefix", "/api/v1")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.max_photos", 50)
	v.SetDefault("classifier.primary_url", "http://localhost:8501")
	v.SetDefault("classifier.primary_model", "yolov8-vn-food-classification")
	v.SetDefault("classifier.general_url", "http://localhost:8502")
	v.SetDefault("classifier.general_model", "yolo11s-cls")
	v.SetDefault("classifier.confidence_threshold", 0.6)
	v.SetDefault("classifier.timeout", 30*time.Second)
	v.SetDefault("embedding.provider", "jina")
	v.SetDefault("embedding.model", "jina-embeddings-v3")
	v.SetDefault("embedding.dimensions", 384)
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("suggestion.top_k", 5)
	v.SetDefault("suggestion.oversample", 10)
	v.SetDefault("catalog.path", "./data/extracted_food_data.json")
	v.SetDefault("friends.pairs", []string{})

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")
	v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("backend.base_url", "BACKEND_URL")
	v.BindEnv("backend.default_auth_token", "DEFAULT_AUTH_TOKEN")
	v.BindEnv("classifier.primary_url", "CLASSIFIER_PRIMARY_URL")
	v.BindEnv("classifier.general_url", "CLASSIFIER_GENERAL_URL")
	v.BindEnv("embedding.api_key", "JINA_API_KEY")
	v.BindEnv("llm.api_key", "GROQ_API_KEY")
	v.BindEnv("llm.base_url", "GROQ_BASE_URL")
	v.BindEnv("llm.model", "LLM_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
