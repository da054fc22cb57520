package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	LogJSON  bool           `mapstructure:"log_json"`
	Debug    bool           `mapstructure:"debug"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	LLM      LLMConfig      `mapstructure:"llm"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Report   ReportConfig   `mapstructure:"report"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
}

type TelegramConfig struct {
	Token         string `mapstructure:"token"`
	WebhookURL    string `mapstructure:"webhook_url"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// DatabaseConfig accepts either a full URL or the discrete DB_* variables.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig.TTL of zero keeps sessions until /finish.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LLMConfig struct {
	Provider        string        `mapstructure:"provider"`
	DeepSeekAPIKey  string        `mapstructure:"deepseek_api_key"`
	DeepSeekBaseURL string        `mapstructure:"deepseek_base_url"`
	DeepSeekModel   string        `mapstructure:"deepseek_model"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	GeminiModel     string        `mapstructure:"gemini_model"`
	Delay           time.Duration `mapstructure:"delay"`
	RPS             float64       `mapstructure:"rps"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type ReportConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ChromePath string `mapstructure:"chrome_path"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Range           string `mapstructure:"range"`
}

const (
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// MinJWTSecretLen is the shortest JWT_SECRET accepted for HS256 signing.
const MinJWTSecretLen = 32

var (
	ErrMissingToken   = errors.New("TELEGRAM_TOKEN is not set")
	ErrWeakJWTSecret  = fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLen)
	ErrAdminAPIClosed = errors.New("JWT_SECRET is not set, admin API is disabled")
)

// env maps config keys onto their environment variables.
var env = map[string]string{
	"port":                    "PORT",
	"log_json":                "LOG_JSON",
	"debug":                   "DEBUG",
	"telegram.token":          "TELEGRAM_TOKEN",
	"telegram.webhook_url":    "WEBHOOK_URL",
	"telegram.webhook_secret": "WEBHOOK_SECRET",
	"database.url":            "DATABASE_URL",
	"database.name":           "DB_NAME",
	"database.user":           "DB_USER",
	"database.password":       "DB_PASSWORD",
	"database.host":           "DB_HOST",
	"database.port":           "DB_PORT",
	"database.sslmode":        "DB_SSLMODE",
	"redis.addr":              "REDIS_ADDR",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"session.ttl":             "SESSION_TTL",
	"llm.provider":            "LLM_PROVIDER",
	"llm.deepseek_api_key":    "DEEPSEEK_API_KEY",
	"llm.deepseek_base_url":   "DEEPSEEK_BASE_URL",
	"llm.deepseek_model":      "DEEPSEEK_MODEL",
	"llm.gemini_api_key":      "GEMINI_API_KEY",
	"llm.gemini_model":        "GEMINI_MODEL",
	"llm.delay":               "LLM_DELAY",
	"llm.rps":                 "LLM_RPS",
	"jwt.secret":              "JWT_SECRET",
	"jwt.issuer":              "JWT_ISSUER",
	"jwt.ttl_minutes":         "JWT_TTL_MINUTES",
	"report.enabled":          "REPORT_ENABLED",
	"report.chrome_path":      "CHROME_PATH",
	"sheets.spreadsheet_id":   "SHEETS_SPREADSHEET_ID",
	"sheets.credentials_file": "SHEETS_CREDENTIALS_FILE",
	"sheets.range":            "SHEETS_RANGE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("llm.provider", ProviderDeepSeek)
	v.SetDefault("llm.deepseek_base_url", "https://api.deepseek.com")
	v.SetDefault("llm.deepseek_model", "deepseek-chat")
	v.SetDefault("llm.gemini_model", "gemini-2.5-flash")
	v.SetDefault("llm.delay", time.Second)
	v.SetDefault("llm.rps", 1.0)
	v.SetDefault("jwt.issuer", "hrbot")
	v.SetDefault("jwt.ttl_minutes", 60)
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.range", "Sheet1!A:D")
}

// Load reads environment variables, optionally from a .env file if present,
// and an optional YAML file. Environment values win over the file.
func Load(file string) (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", name, err)
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings without which the bot cannot start.
func (c Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	switch c.LLM.Provider {
	case ProviderDeepSeek, ProviderGemini:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.JWT.Enabled() && len(c.JWT.Secret) < MinJWTSecretLen {
		return ErrWeakJWTSecret
	}
	return nil
}

// Enabled reports whether the admin HTTP API and token minting are available.
func (j JWTConfig) Enabled() bool { return j.Secret != "" }

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(d.SSLMode)
	}
	return u.String()
}
