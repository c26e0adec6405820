package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Postgres holds rooms, reservations and the semantic index.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Mongo keeps the durable conversation transcript archive.
	MongoURI string `mapstructure:"MONGO_URI"`

	// Redis configuration (session memory, booking drafts, mail queue).
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisMailQueueDB int    `mapstructure:"REDIS_MAIL_QUEUE_DB"`

	// Gemini completion/embedding collaborator.
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string `mapstructure:"GEMINI_MODEL"`
	EmbeddingModel string `mapstructure:"EMBEDDING_MODEL"`

	// SMTP settings for booking confirmation mail.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Conversation behaviour.
	HotelFactsPath    string `mapstructure:"HOTEL_FACTS_PATH"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	MemoryWindow      int    `mapstructure:"MEMORY_WINDOW"`

	// Pricing policy: surcharge rate applied to Friday and Saturday nights.
	WeekendSurchargeRate float64 `mapstructure:"WEEKEND_SURCHARGE_RATE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/george")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_MAIL_QUEUE_DB", 1)
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("EMBEDDING_MODEL", "models/text-embedding-004")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("HOTEL_FACTS_PATH", "static/hotel_facts.txt")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("MEMORY_WINDOW", 20)
	viper.SetDefault("WEEKEND_SURCHARGE_RATE", 0.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
