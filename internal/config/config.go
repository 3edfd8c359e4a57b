// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/cabin-manager/internal/auth"
)

// DevEnvironment is the ENVIRONMENT value for local development.
const DevEnvironment = "dev"

type Config struct {
	Port        int
	Environment string

	Storage

	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool
	CORSOrigins   []string

	// Empty TemplateDir/StaticDir mean "use the embedded web assets".
	TemplateDir string
	StaticDir   string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load builds a Config from environment variables. Call godotenv.Load
// first to pick up a .env file.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", DevEnvironment)

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", auth.DefaultSessionTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("config: invalid SESSION_TTL: %w", err)
	}

	// Cookies default to Secure everywhere except local development, which
	// runs over plain http.
	secure, err := strconv.ParseBool(getEnv("SECURE_COOKIES", strconv.FormatBool(env != DevEnvironment)))
	if err != nil {
		return nil, fmt.Errorf("config: invalid SECURE_COOKIES: %w", err)
	}

	cfg := &Config{
		Port:               port,
		Environment:        env,
		Storage:            LoadStorage(),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SessionTTL:         ttl,
		SecureCookies:      secure,
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		TemplateDir:        getEnv("TEMPLATE_DIR", ""),
		StaticDir:          getEnv("STATIC_DIR", ""),
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/auth/github/callback", port)),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required (generate one with: openssl rand -hex 32)")
	}
	return cfg, nil
}

// Storage selects the backend: Postgres when DatabaseURL is set,
// otherwise SQLite at DBPath.
type Storage struct {
	DatabaseURL string
	DBPath      string
}

// LoadStorage reads only the storage keys, for tools that do not serve
// HTTP and so have no use for JWT_SECRET.
func LoadStorage() Storage {
	return Storage{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBPath:      getEnv("DB_PATH", "data/cabin.db"),
	}
}

// GitHubEnabled reports whether both GitHub OAuth credentials are set.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func (c *Config) IsDev() bool {
	return c.Environment == DevEnvironment
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
