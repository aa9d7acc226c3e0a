package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the environment driven configuration for the bot and its API.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"zapvendas"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort    int    `env:"PORT" envDefault:"3000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL    string        `env:"DATABASE_URL"`
	SupabaseDBURL  string        `env:"SUPABASE_DB_URL"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`

	OllamaURL      string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel    string        `env:"OLLAMA_MODEL" envDefault:"llama3.2"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	StoreName      string        `env:"STORE_NAME" envDefault:"our store"`
	CatalogPath    string        `env:"CATALOG_PATH"`
	HistoryLimit   int           `env:"HISTORY_LIMIT" envDefault:"10"`

	WhatsAppEnabled        bool          `env:"WHATSAPP_ENABLED" envDefault:"true"`
	WhatsAppStoreDSN       string        `env:"WHATSAPP_STORE_DSN" envDefault:"file:whatsapp.db?_foreign_keys=on"`
	WhatsAppLogLevel       string        `env:"WHATSAPP_LOG_LEVEL" envDefault:"warn"`
	WhatsAppReconnectDelay time.Duration `env:"WHATSAPP_RECONNECT_DELAY" envDefault:"5s"`
	TypingDelay            time.Duration `env:"TYPING_DELAY" envDefault:"2s"`
	BroadcastDelay         time.Duration `env:"BROADCAST_DELAY" envDefault:"2s"`

	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	AMQPURL string `env:"AMQP_URL"`

	MailHost           string `env:"MAIL_HOST"`
	MailPort           int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser           string `env:"MAIL_USER"`
	MailPass           string `env:"MAIL_PASS"`
	MailFrom           string `env:"MAIL_FROM" envDefault:"no-reply@zapvendas.local"`
	HandoffNotifyEmail string `env:"HANDOFF_NOTIFY_EMAIL"`

	KommoAPIToken string `env:"KOMMO_API_TOKEN"`
	KommoBaseURL  string `env:"KOMMO_BASE_URL"`
	KommoStatusID int    `env:"KOMMO_STATUS_ID"`

	LeadStaleAfter    time.Duration `env:"LEAD_STALE_AFTER" envDefault:"720h"`
	LeadSweepInterval time.Duration `env:"LEAD_SWEEP_INTERVAL" envDefault:"1h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		cfg.DatabaseURL = strings.TrimSpace(cfg.SupabaseDBURL)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL (or SUPABASE_DB_URL) is required: set the Supabase service connection string")
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 30
	}
	if cfg.WhatsAppReconnectDelay <= 0 {
		cfg.WhatsAppReconnectDelay = 5 * time.Second
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != "" && c.HandoffNotifyEmail != ""
}

func (c *Config) KommoConfigured() bool {
	return c.KommoAPIToken != "" && c.KommoBaseURL != ""
}
