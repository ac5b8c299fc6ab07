package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"APP_NAME"`
	AppEnv  string `mapstructure:"APP_ENV"`
	Port    string `mapstructure:"PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	MySQLURL   string `mapstructure:"MYSQL_URL"`
	DBURL      string `mapstructure:"DATABASE_URL"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPass     string `mapstructure:"DB_PASS"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`
	DBLogLevel string `mapstructure:"DB_LOG_LEVEL"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	DraftTTL      time.Duration `mapstructure:"DRAFT_TTL"`

	CorsOrigins       string `mapstructure:"CORS_ORIGINS"`
	AdminUsername     string `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	ExportDir      string `mapstructure:"EXPORT_DIR"`
	ExportSchedule string `mapstructure:"EXPORT_SCHEDULE"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromName string `mapstructure:"SMTP_FROM_NAME"`
}

var defaults = map[string]interface{}{
	"APP_NAME":            "manthokha-backend",
	"APP_ENV":             "development",
	"PORT":                "8080",
	"DB_DRIVER":           "mysql",
	"MYSQL_URL":           "",
	"DATABASE_URL":        "",
	"DB_HOST":             "127.0.0.1",
	"DB_PORT":             "3306",
	"DB_USER":             "root",
	"DB_PASS":             "",
	"DB_NAME":             "manthokha_db",
	"SQLITE_PATH":         "manthokha.db",
	"DB_LOG_LEVEL":        "warn",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"DRAFT_TTL":           "24h",
	"CORS_ORIGINS":        "",
	"ADMIN_USERNAME":      "admin",
	"ADMIN_PASSWORD_HASH": "",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"RATE_LIMIT_RPS":      1.0,
	"RATE_LIMIT_BURST":    5,
	"UPLOAD_DIR":          "uploads",
	"EXPORT_DIR":          "exports",
	"EXPORT_SCHEDULE":     "",
	"SMTP_HOST":           "",
	"SMTP_PORT":           "",
	"SMTP_USERNAME":       "",
	"SMTP_PASSWORD":       "",
	"SMTP_FROM_NAME":      "Manthokha Waterfall",
}

// Load reads envFile (when present) into the environment and decodes the
// environment over the defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// missing .env is fine; real deployments use the environment
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql, postgres or sqlite, got %q", c.DBDriver)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive")
	}
	return nil
}

// SMTPConfigured reports whether outgoing mail can actually be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// ParseCorsOrigins splits CORS_ORIGINS; an empty value allows any origin.
func (c *Config) ParseCorsOrigins() []string {
	raw := strings.TrimSpace(c.CorsOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
