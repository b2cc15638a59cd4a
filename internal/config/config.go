// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Buffer   BufferConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	IngestPort     string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// BufferConfig carries the replenishment policy knobs. The defaults encode
// the current business policy: 20% headroom over lead-time coverage, equal
// thirds for the red/yellow/green split, and an overstock alarm at 110% of
// a 30-day demand projection.
type BufferConfig struct {
	Factor                float64
	RedRatio              float64
	YellowRatio           float64
	OverstockDays         float64
	OverstockRatio        float64
	LookbackDays          int
	DefaultLeadTimeDays   float64
	AggregationWindowDays int
	SegmentAThreshold     float64
	SegmentBThreshold     float64
}

type ExportConfig struct {
	Dir       string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_INGEST_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "bufferboard")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("BUFFER_FACTOR", 1.2)
		viper.SetDefault("BUFFER_RED_RATIO", 1.0/3.0)
		viper.SetDefault("BUFFER_YELLOW_RATIO", 2.0/3.0)
		viper.SetDefault("BUFFER_OVERSTOCK_DAYS", 30.0)
		viper.SetDefault("BUFFER_OVERSTOCK_RATIO", 1.1)
		viper.SetDefault("BUFFER_LOOKBACK_DAYS", 60)
		viper.SetDefault("BUFFER_DEFAULT_LEAD_TIME_DAYS", 7.0)
		viper.SetDefault("BUFFER_AGGREGATION_WINDOW_DAYS", 90)
		viper.SetDefault("BUFFER_SEGMENT_A_THRESHOLD", 20.0)
		viper.SetDefault("BUFFER_SEGMENT_B_THRESHOLD", 10.0)
		viper.SetDefault("EXPORT_DIR", "./data/exports")
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "")
		viper.SetDefault("EXPORT_REGION", "")
		viper.SetDefault("EXPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				IngestPort:     viper.GetString("SERVER_INGEST_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Buffer: BufferConfig{
				Factor:                viper.GetFloat64("BUFFER_FACTOR"),
				RedRatio:              viper.GetFloat64("BUFFER_RED_RATIO"),
				YellowRatio:           viper.GetFloat64("BUFFER_YELLOW_RATIO"),
				OverstockDays:         viper.GetFloat64("BUFFER_OVERSTOCK_DAYS"),
				OverstockRatio:        viper.GetFloat64("BUFFER_OVERSTOCK_RATIO"),
				LookbackDays:          viper.GetInt("BUFFER_LOOKBACK_DAYS"),
				DefaultLeadTimeDays:   viper.GetFloat64("BUFFER_DEFAULT_LEAD_TIME_DAYS"),
				AggregationWindowDays: viper.GetInt("BUFFER_AGGREGATION_WINDOW_DAYS"),
				SegmentAThreshold:     viper.GetFloat64("BUFFER_SEGMENT_A_THRESHOLD"),
				SegmentBThreshold:     viper.GetFloat64("BUFFER_SEGMENT_B_THRESHOLD"),
			},
			Export: ExportConfig{
				Dir:       viper.GetString("EXPORT_DIR"),
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Region:    viper.GetString("EXPORT_REGION"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}
