package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the client.
type Config struct {
	APIBaseURL     string `mapstructure:"API_BASE_URL"`
	HTTPTimeoutSec int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	Env            string `mapstructure:"ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	VerboseHTTP    bool   `mapstructure:"VERBOSE_HTTP"`

	// Local persistence for the session token, booking draft and preferences.
	StorageDir string `mapstructure:"STORAGE_DIR"`

	// Optional Redis-backed persistence (kiosk / shared-terminal deployments).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`

	// Outbound concierge chat throttle.
	ChatRatePerMin int `mapstructure:"CHAT_RATE_PER_MIN"`
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
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("VERBOSE_HTTP", false)
	viper.SetDefault("STORAGE_DIR", ".hotelier")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("CHAT_RATE_PER_MIN", 20)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// HTTPTimeout returns the configured transport timeout as a duration.
func HTTPTimeout() time.Duration {
	if AppConfig.HTTPTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(AppConfig.HTTPTimeoutSec) * time.Second
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
