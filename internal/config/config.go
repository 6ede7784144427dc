package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"`              // current application environment (local, dev, production etc)
	TelegramAPIToken string     `mapstructure:"-"`                // Telegram API token loaded from environment
	SurahsJSONPath   string     `mapstructure:"surahs_json_path"` // optional override of the embedded surah catalog
	MigrationsPath   string     `mapstructure:"migrations_path"`  // directory with SQL migrations
	DB               DB         `mapstructure:"database"`         // database configuration section
	QuranAPI         QuranAPI   `mapstructure:"quran_api"`        // verse text API
	PrayerAPI        PrayerAPI  `mapstructure:"prayer_api"`       // prayer times API
	Redis            Redis      `mapstructure:"redis"`            // optional audio session store
	HTTP             HTTP       `mapstructure:"http"`             // JSON API server
	DailyVerse       DailyVerse `mapstructure:"daily_verse"`      // daily verse broadcast
	Bot              Bot        `mapstructure:"bot"`              // Telegram update processing
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type QuranAPI struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`         // budget for all editions of one surah
	RatePerSecond float64       `mapstructure:"rate_per_second"` // 0 disables pacing
}

type PrayerAPI struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Redis struct {
	URL string        `mapstructure:"url"` // empty keeps audio sessions in memory
	TTL time.Duration `mapstructure:"ttl"` // lifetime of an idle audio session
}

// Enabled reports whether a Redis URL is configured.
func (r Redis) Enabled() bool {
	return r.URL != ""
}

type HTTP struct {
	Addr            string        `mapstructure:"addr"` // empty disables the JSON API
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DailyVerse struct {
	Schedule string `mapstructure:"schedule"` // cron expression, UTC
}

type Bot struct {
	Workers int  `mapstructure:"workers"` // concurrently processed updates
	Debug   bool `mapstructure:"debug"`   // log raw Telegram API traffic
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 1
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("surahs_json_path", "")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("quran_api.base_url", "https://api.alquran.cloud/v1")
	v.SetDefault("quran_api.timeout", "10s")
	v.SetDefault("quran_api.rate_per_second", 5)
	v.SetDefault("prayer_api.base_url", "https://api.aladhan.com/v1")
	v.SetDefault("prayer_api.timeout", "5s")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", "24h")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("daily_verse.schedule", "0 6 * * *")
	v.SetDefault("bot.workers", 8)
	v.SetDefault("bot.debug", false)
}
