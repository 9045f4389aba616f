// Package config loads the service configuration from the environment,
// an optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers understood by storage.Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Port string

	// Store
	StoreDriver   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	// Redis (optional user cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	// Proofs
	PublicHost    string
	ProofDir      string
	MaxProofBytes int64

	CORSOrigins []string

	// Tokens
	JWTSecret        string
	JWTTTL           time.Duration
	EnforceOwnership bool

	// Telegram
	TelegramBotToken string
	TelegramChatID   int64
	NotifyLanguage   string
}

// Load reads configuration. configFile may be empty, in which case
// ./config.yaml is used when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4000")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=localhost user=user password=password dbname=civiceyedb port=5432 sslmode=disable")
	v.SetDefault("MONGO_DATABASE", "civiceye")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_CACHE_TTL", DefaultUserCacheTTL)
	v.SetDefault("PROOF_DIR", "proofs")
	v.SetDefault("MAX_PROOF_MB", DefaultMaxProofMB)
	v.SetDefault("JWT_TTL", DefaultTokenTTL)
	v.SetDefault("AUTH_ENFORCE_OWNERSHIP", false)
	v.SetDefault("NOTIFY_LANGUAGE", "en")
}

func fromViper(v *viper.Viper) *Config {
	publicHost := v.GetString("PUBLIC_HOST")
	if publicHost == "" {
		publicHost = v.GetString("RENDER_HOST")
	}
	if publicHost == "" {
		publicHost = "http://localhost:" + v.GetString("PORT")
	}

	return &Config{
		Port: v.GetString("PORT"),

		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		UserCacheTTL:  v.GetDuration("USER_CACHE_TTL"),

		PublicHost:    strings.TrimSuffix(publicHost, "/"),
		ProofDir:      v.GetString("PROOF_DIR"),
		MaxProofBytes: v.GetInt64("MAX_PROOF_MB") << 20,

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS"), DefaultCORSOrigins),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		EnforceOwnership: v.GetBool("AUTH_ENFORCE_OWNERSHIP"),

		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   v.GetInt64("TELEGRAM_CHAT_ID"),
		NotifyLanguage:   v.GetString("NOTIFY_LANGUAGE"),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %q", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.StoreDriver)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE cannot be empty")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ProofDir == "" {
		return fmt.Errorf("PROOF_DIR cannot be empty")
	}
	if c.MaxProofBytes <= 0 {
		return fmt.Errorf("MAX_PROOF_MB must be positive")
	}
	if c.EnforceOwnership && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENFORCE_OWNERSHIP is set")
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

func splitList(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
