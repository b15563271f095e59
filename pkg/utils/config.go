package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	RepositoryMemory   = "memory"
	RepositoryDatabase = "database"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name       string
	Port       string
	Debug      bool
	LogPath    string
	Repository string
	DataPath   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
	Populate bool
}

// DSN renders the connection string understood by pgx and golang-migrate.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type SessionConfig struct {
	Secret        string
	MaxAgeMinutes int
	Secure        bool
	// Ephemeral is set when Secret was generated at startup; sessions
	// do not survive a restart.
	Ephemeral bool
}

const (
	placeholderSessionSecret = "change-me"
	minSessionSecretLength   = 16
)

// resolveSecret rejects a missing, placeholder or short secret unless
// debug is on, in which case a random one is generated.
func (c *SessionConfig) resolveSecret(debug bool) error {
	secret := strings.TrimSpace(c.Secret)
	if secret != "" && secret != placeholderSessionSecret && len(secret) >= minSessionSecretLength {
		c.Secret = secret
		return nil
	}
	if !debug {
		return fmt.Errorf("SESSION_SECRET must be set to a random value of at least %d characters", minSessionSecretLength)
	}
	c.Secret = rand.Text()
	c.Ephemeral = true
	return nil
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig reads the .env file at path, if any, and overlays the
// environment. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "movie-catalogue")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("REPOSITORY", RepositoryMemory)
	v.SetDefault("DATA_PATH", "data")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "movies")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_POPULATE", true)
	v.SetDefault("SESSION_MAX_AGE_MINUTES", 60*24)
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:       v.GetString("APP_NAME"),
			Port:       v.GetString("PORT"),
			Debug:      v.GetBool("DEBUG"),
			LogPath:    v.GetString("LOG_PATH"),
			Repository: strings.ToLower(v.GetString("REPOSITORY")),
			DataPath:   v.GetString("DATA_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			MinConns: v.GetInt32("DB_MIN_CONNS"),
			Populate: v.GetBool("DB_POPULATE"),
		},
		Session: SessionConfig{
			Secret:        v.GetString("SESSION_SECRET"),
			MaxAgeMinutes: v.GetInt("SESSION_MAX_AGE_MINUTES"),
			Secure:        v.GetBool("SESSION_SECURE"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	switch config.App.Repository {
	case RepositoryMemory, RepositoryDatabase:
	default:
		return nil, fmt.Errorf("invalid REPOSITORY %q: want %q or %q",
			config.App.Repository, RepositoryMemory, RepositoryDatabase)
	}

	if err := config.Session.resolveSecret(config.App.Debug); err != nil {
		return nil, err
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
