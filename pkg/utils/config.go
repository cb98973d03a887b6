package utils

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	Timezone        string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	LockTimeout time.Duration
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	SlotCacheTTL time.Duration
}

type BookingConfig struct {
	Currency string
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// Location resolves the configured timezone, falling back to UTC
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	viper.SetDefault("APP_NAME", "hospital-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_LOCK_TIMEOUT_MS", 5000)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SLOT_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("BOOKING_CURRENCY", "BDT")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("RATE_LIMIT_BURST", 10)

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			Timezone:        viper.GetString("APP_TIMEZONE"),
			ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			LockTimeout: time.Duration(viper.GetInt("DB_LOCK_TIMEOUT_MS")) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:         viper.GetString("REDIS_ADDR"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			SlotCacheTTL: time.Duration(viper.GetInt("SLOT_CACHE_TTL_SECONDS")) * time.Second,
		},
		Booking: BookingConfig{
			Currency: viper.GetString("BOOKING_CURRENCY"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.Database.Name == "" || config.Database.User == "" {
		return nil, fmt.Errorf("DB_NAME and DB_USER are required")
	}

	return config, nil
}
