package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const envPrefix = "POBBIN_"

type Config struct {
	ListenAddr string
	StaticDir  string

	RootURL string

	CacheHTML   string
	CacheStatic string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionTTL    time.Duration

	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string

	RateLimitPerSecond float64
	RateLimitBurst     int

	LogLevel string

	APIBaseURL string
	APITimeout time.Duration
}

// Load reads the environment after applying .env.local and .env, in that
// order. Missing files are ignored.
func Load() (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}

	return Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		StaticDir:          getEnv("STATIC_DIR", "static"),
		RootURL:            strings.TrimRight(getEnv("ROOT_URL", "http://localhost:8080"), "/"),
		CacheHTML:          strings.TrimSpace(os.Getenv(envPrefix + "CACHE_HTML")),
		CacheStatic:        strings.TrimSpace(os.Getenv(envPrefix + "CACHE_STATIC")),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv(envPrefix + "REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		SessionSecret:      os.Getenv(envPrefix + "SESSION_SECRET"),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		OAuthClientID:      os.Getenv(envPrefix + "OAUTH_CLIENT_ID"),
		OAuthClientSecret:  os.Getenv(envPrefix + "OAUTH_CLIENT_SECRET"),
		OAuthAuthURL:       getEnv("OAUTH_AUTH_URL", "https://www.pathofexile.com/oauth/authorize"),
		OAuthTokenURL:      getEnv("OAUTH_TOKEN_URL", "https://www.pathofexile.com/oauth/token"),
		OAuthRedirectURL:   os.Getenv(envPrefix + "OAUTH_REDIRECT_URL"),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 1),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		APIBaseURL:         getEnv("API_BASE_URL", ""),
		APITimeout:         time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
	}, nil
}

// OAuth returns nil when no client is configured, which disables login.
func (c Config) OAuth() *oauth2.Config {
	if strings.TrimSpace(c.OAuthClientID) == "" {
		return nil
	}

	redirectURL := c.OAuthRedirectURL
	if redirectURL == "" {
		redirectURL = c.RootURL + "/oauth2/code/poe"
	}

	return &oauth2.Config{
		ClientID:     c.OAuthClientID,
		ClientSecret: c.OAuthClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"account:profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.OAuthAuthURL,
			TokenURL: c.OAuthTokenURL,
		},
	}
}

// BackendURL is where the API client sends requests. It defaults to the
// site itself.
func (c Config) BackendURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return c.RootURL
}

func loadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
