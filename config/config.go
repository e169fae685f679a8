package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type ServerConfig struct {
	AppEnv          string
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type StorefrontConfig struct {
	AssetsDir      string
	AssetsURL      string
	CurrencySymbol string
	Locale         string
	CacheSize      int
}

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Storefront StorefrontConfig
}

// Load reads an optional .env file, then environment variables, then
// command line flags. Later sources win.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "production"),
			Addr:            getEnv("HTTP_ADDR", ":"+getEnv("PORT", "8080")),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Storefront: StorefrontConfig{
			AssetsDir:      getEnv("ASSETS_DIR", "public"),
			AssetsURL:      getEnv("ASSETS_URL", "/assets"),
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
			Locale:         getEnv("LOCALE", "en"),
			CacheSize:      getEnvInt("QUERY_CACHE_SIZE", 256),
		},
	}

	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.StringVar(&cfg.Server.AppEnv, "env", cfg.Server.AppEnv, "application environment (development, production)")
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Logger.Level, "log-level", cfg.Logger.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Storefront.AssetsDir, "assets", cfg.Storefront.AssetsDir, "directory served under the assets URL")
	fs.IntVar(&cfg.Storefront.CacheSize, "cache-size", cfg.Storefront.CacheSize, "query cache entries, 0 disables")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.Server.AppEnv == "development" && os.Getenv("LOG_ENCODING") == "" {
		cfg.Logger.Encoding = "console"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: empty listen address")
	}
	if c.Storefront.CacheSize < 0 {
		return fmt.Errorf("config: negative cache size %d", c.Storefront.CacheSize)
	}
	switch c.Logger.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log encoding %q", c.Logger.Encoding)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
