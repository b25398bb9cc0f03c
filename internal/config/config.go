package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"90s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Generative service
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// In-memory sessions
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Input limits
	MaxContentLength int `env:"MAX_CONTENT_LENGTH" envDefault:"20000"`

	// Preset purposes (loaded from YAML file)
	PurposesFile string `env:"PURPOSES_FILE" envDefault:"internal/config/purposes.yaml"`
	Purposes     []string

	// Metered UniDoc key; DOCX export is offered only when set
	UniDocLicenseKey string `env:"UNIDOC_LICENSE_KEY"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string               `env:"BOT_TOKEN"`
	UpdateTimeout      int                  `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int                  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int                  `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int                  `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	SendRetry          pkgRetry.RetryConfig `envPrefix:"SEND_RETRY_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Provider string `env:"PROVIDER" envDefault:"gemini"`
	Model    string `env:"MODEL" envDefault:"gemini-2.5-flash"`
	APIKey   string `env:"API_KEY"`
	BaseURL  string `env:"BASE_URL"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// purposesFile represents the structure of purposes.yaml
type purposesFile struct {
	Purposes []string `yaml:"purposes"`
}

var defaultPurposes = []string{
	"小红书爆款标题",
	"微信公众号文章标题",
	"新闻标题",
	"短视频/抖音/B站 标题",
	"知乎问答标题",
	"电商产品名称/Slogan",
	"邮件主题",
	"学术论文/报告题目",
	"工作周报/PPT 标题",
}

// DefaultPurposes returns a copy of the built-in preset purposes.
func DefaultPurposes() []string {
	return append([]string{}, defaultPurposes...)
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Missing env file is fine when variables are set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadPurposes(cfg); err != nil {
		return nil, fmt.Errorf("load purposes: %w", err)
	}

	return cfg, nil
}

// ValidateTelegram checks settings only the Telegram front-end needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required to run the bot")
	}
	return nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.LLMConnectorCfg.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errors = append(errors, fmt.Sprintf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.LLMConnectorCfg.Provider))
	}

	if strings.TrimSpace(cfg.LLMConnectorCfg.Model) == "" {
		errors = append(errors, "LLM_MODEL must not be empty")
	}

	if cfg.MaxContentLength < 1 {
		errors = append(errors, fmt.Sprintf("MAX_CONTENT_LENGTH must be positive, got %d", cfg.MaxContentLength))
	}

	if cfg.SessionCfg.TTL <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be positive, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func loadPurposes(cfg *Config) error {
	path := cfg.PurposesFile

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Warning: purposes file not found at %s, using default purposes\n", path)
		cfg.Purposes = DefaultPurposes()
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read purposes file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("purposes file is empty: %s", path)
	}

	var file purposesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse purposes YAML: %w", err)
	}

	purposes := make([]string, 0, len(file.Purposes))
	for _, p := range file.Purposes {
		if p = strings.TrimSpace(p); p != "" {
			purposes = append(purposes, p)
		}
	}

	if len(purposes) == 0 {
		return fmt.Errorf("purposes file contains no purposes: %s", path)
	}

	cfg.Purposes = purposes
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
