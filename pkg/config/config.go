package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Dashboard     DashboardConfig
	Advisor       AdvisorConfig
	Mail          MailConfig
	Notifications NotificationsConfig
	Exports       ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard exposure and cache tuning.
type DashboardConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// AdvisorConfig configures the LLM-backed chat assistant. The grading core
// never reads this; only the advisor client does.
type AdvisorConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// MailConfig configures outbound email delivery.
type MailConfig struct {
	Enabled   bool
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
}

// NotificationsConfig tunes the email delivery worker queue.
type NotificationsConfig struct {
	EmailWorkers    int
	EmailMaxRetries int
	EmailRetryDelay time.Duration
}

// ExportsConfig toggles transcript/report export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled:  v.GetBool("ENABLE_DASHBOARD"),
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Advisor = AdvisorConfig{
		Enabled: v.GetBool("ENABLE_ADVISOR"),
		APIKey:  v.GetString("ADVISOR_API_KEY"),
		BaseURL: v.GetString("ADVISOR_BASE_URL"),
		Models:  splitAndTrim(v.GetString("ADVISOR_MODELS")),
		Timeout: parseDuration(v.GetString("ADVISOR_TIMEOUT"), 30*time.Second),
	}

	cfg.Mail = MailConfig{
		Enabled:   v.GetBool("ENABLE_MAIL"),
		APIKey:    v.GetString("MAIL_API_KEY"),
		BaseURL:   v.GetString("MAIL_BASE_URL"),
		FromEmail: v.GetString("MAIL_FROM_EMAIL"),
		FromName:  v.GetString("MAIL_FROM_NAME"),
	}

	cfg.Notifications = NotificationsConfig{
		EmailWorkers:    v.GetInt("NOTIFICATION_EMAIL_WORKERS"),
		EmailMaxRetries: v.GetInt("NOTIFICATION_EMAIL_MAX_RETRIES"),
		EmailRetryDelay: parseDuration(v.GetString("NOTIFICATION_EMAIL_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "gradeseer")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_ADVISOR", false)
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("ADVISOR_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("ADVISOR_MODELS", "gemini-2.0-flash,gemini-1.5-flash,gemini-1.5-flash-8b")
	v.SetDefault("ADVISOR_TIMEOUT", "30s")

	v.SetDefault("ENABLE_MAIL", false)
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_BASE_URL", "https://api.sendgrid.com")
	v.SetDefault("MAIL_FROM_EMAIL", "noreply@gradeseer.app")
	v.SetDefault("MAIL_FROM_NAME", "GradeSeer")

	v.SetDefault("NOTIFICATION_EMAIL_WORKERS", 2)
	v.SetDefault("NOTIFICATION_EMAIL_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATION_EMAIL_RETRY_DELAY", "5s")

	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
