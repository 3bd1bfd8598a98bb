package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Index describes one index membership page to scrape.
type Index struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Table    string `yaml:"table"`  // CSS selector; empty picks the first wikitable with a symbol column
	Column   string `yaml:"column"` // header text of the symbol column; empty tries the usual names
	Suffix   string `yaml:"suffix"` // exchange qualifier appended to each symbol, e.g. ".L"
	Disabled bool   `yaml:"disabled"`
}

// MailConfig holds SMTP delivery settings. Username and Password are the
// sender identity and credential.
type MailConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"-"`
	To       string        `yaml:"to"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Config holds all application configuration.
type Config struct {
	Universe struct {
		Indices  []Index  `yaml:"indices"`
		Fallback []string `yaml:"fallback"`
	} `yaml:"universe"`
	DataSource struct {
		Provider     string        `yaml:"provider"` // "yahoo" or "alpaca"
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"-"`
		APISecret    string        `yaml:"-"`
		Lookback     int           `yaml:"lookback"`
		Concurrency  int           `yaml:"concurrency"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"data_source"`
	Report struct {
		TopK int `yaml:"top_k"`
	} `yaml:"report"`
	Mail MailConfig `yaml:"mail"`
	Log  struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// ConfigError reports missing or invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// DefaultIndices mirrors the indices covered by the briefing: S&P 500, FTSE 100 and DAX.
func DefaultIndices() []Index {
	return []Index{
		{Name: "S&P 500", URL: "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies", Table: "table#constituents", Column: "Symbol"},
		{Name: "FTSE 100", URL: "https://en.wikipedia.org/wiki/FTSE_100_Index", Table: "table#constituents", Column: "Ticker", Suffix: ".L"},
		{Name: "DAX", URL: "https://en.wikipedia.org/wiki/DAX", Table: "table#constituents", Column: "Ticker", Suffix: ".DE"},
	}
}

// DefaultFallback is used when no index page can be scraped.
func DefaultFallback() []string {
	return []string{
		"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "BRK.B", "TSLA", "AVGO", "JPM",
		"LLY", "V", "UNH", "XOM", "MA", "JNJ", "PG", "HD", "COST", "ABBV",
	}
}

// Load reads config from a YAML file, then .env, then environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.Mail.Username = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		c.Mail.To = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Mail.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Mail.Port = port
		}
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		c.DataSource.APISecret = v
	}
	if v := os.Getenv("LOOKBACK_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.Lookback = n
		}
	}
	if v := os.Getenv("TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Report.TopK = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if len(c.Universe.Indices) == 0 {
		c.Universe.Indices = DefaultIndices()
	}
	if len(c.Universe.Fallback) == 0 {
		c.Universe.Fallback = DefaultFallback()
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Lookback == 0 {
		c.DataSource.Lookback = 5
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = 8
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 8 * time.Second
	}
	if c.DataSource.BatchTimeout == 0 {
		c.DataSource.BatchTimeout = 2 * time.Minute
	}
	if c.Report.TopK == 0 {
		c.Report.TopK = 10
	}
	if c.Mail.Host == "" {
		c.Mail.Host = "smtp.gmail.com"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 465
	}
	if c.Mail.Timeout == 0 {
		c.Mail.Timeout = 8 * time.Second
	}
	if c.Mail.To == "" {
		c.Mail.To = c.Mail.Username
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks settings needed to fetch and rank. Mail credentials are
// checked separately by ValidateMail since a dry run does not need them.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return &ConfigError{Field: "ALPACA_API_KEY/ALPACA_SECRET_KEY", Reason: "are required for the alpaca provider"}
		}
	default:
		return &ConfigError{Field: "data_source.provider", Reason: fmt.Sprintf("%q is not supported", c.DataSource.Provider)}
	}
	if c.DataSource.Lookback < 2 {
		return &ConfigError{Field: "data_source.lookback", Reason: "must be at least 2"}
	}
	if c.DataSource.Concurrency < 1 {
		return &ConfigError{Field: "data_source.concurrency", Reason: "must be positive"}
	}
	if c.Report.TopK < 1 {
		return &ConfigError{Field: "report.top_k", Reason: "must be positive"}
	}
	return nil
}

// ValidateMail checks that both delivery secrets are present.
func (m MailConfig) ValidateMail() error {
	if m.Username == "" {
		return &ConfigError{Field: "EMAIL_USER", Reason: "is missing"}
	}
	if m.Password == "" {
		return &ConfigError{Field: "EMAIL_PASS", Reason: "is missing"}
	}
	if m.Host == "" || m.Port <= 0 {
		return &ConfigError{Field: "mail.host/mail.port", Reason: "are invalid"}
	}
	return nil
}
