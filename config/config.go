package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Firebase project (Firestore, Auth, Messaging).
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// MongoDB holds the stats history.
	MongoURL      string `mapstructure:"MONGO_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stats and ranking.
	StatsCacheTTL        time.Duration `mapstructure:"STATS_CACHE_TTL"`
	RankingCacheTTL      time.Duration `mapstructure:"RANKING_CACHE_TTL"`
	RankingConcurrency   int           `mapstructure:"RANKING_CONCURRENCY"`
	RankingLookupTimeout time.Duration `mapstructure:"RANKING_LOOKUP_TIMEOUT"`
	ReportBlockThreshold int           `mapstructure:"REPORT_BLOCK_THRESHOLD"`
	SnapshotCron         string        `mapstructure:"SNAPSHOT_CRON"`

	// Cloudinary, used for avatar delivery URLs.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var AppConfig Config

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "repairhub")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("STATS_CACHE_TTL", "1m")
	v.SetDefault("RANKING_CACHE_TTL", "2m")
	v.SetDefault("RANKING_CONCURRENCY", 8)
	v.SetDefault("RANKING_LOOKUP_TIMEOUT", "3s")
	v.SetDefault("REPORT_BLOCK_THRESHOLD", 5)
	v.SetDefault("SNAPSHOT_CRON", "@every 1h")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
}

// LoadConfig reads config.yaml from "." or "./config", lets environment
// variables override it and stores the result in AppConfig. Local .env files
// only fill variables that are not already set.
func LoadConfig() Config {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return AppConfig
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func IsProduction() bool {
	return AppConfig.IsProduction()
}
