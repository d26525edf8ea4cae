// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig           `yaml:"server"`
	Database    DatabaseConfig         `yaml:"database"`
	LLM         LLMConfig              `yaml:"llm"`
	Oracle      OracleConfig           `yaml:"oracle"`
	Interpreter InterpreterConfig      `yaml:"interpreter"`
	Scraper     ScraperConfig          `yaml:"scraper"`
	Reports     ReportsConfig          `yaml:"reports"`
	RateLimits  RateLimitConfig        `yaml:"rate_limits"`
	Logging     LoggingConfig          `yaml:"logging"`
	Catalog     map[string]TitleConfig `yaml:"catalog"`
	Rules       RulesConfig            `yaml:"rules"`
}

type ServerConfig struct {
	Port     int  `yaml:"port"`
	EnableUI bool `yaml:"enable_ui"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite
	Path   string `yaml:"path"`
}

type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"` // optional OpenAI-compatible endpoint
	OllamaURL string `yaml:"ollama_url"`
}

type OracleConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

type InterpreterConfig struct {
	UseLLM  bool          `yaml:"use_llm"`
	Timeout time.Duration `yaml:"timeout"`
}

type ScraperConfig struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	Language          string        `yaml:"language"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	RespectRobots     bool          `yaml:"respect_robots"`
}

type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// TitleConfig pins a well-known title to its TMDB page.
type TitleConfig struct {
	ID   int    `yaml:"id"`
	Type string `yaml:"type"` // movie, tv
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8000,
			EnableUI: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/cinecheck.db",
		},
		LLM: LLMConfig{
			Provider:  "ollama",
			Model:     "qwen2.5:7b",
			OllamaURL: "http://localhost:11434",
		},
		Oracle: OracleConfig{
			Enabled: false,
			Timeout: 30 * time.Second,
		},
		Interpreter: InterpreterConfig{
			UseLLM:  false,
			Timeout: 60 * time.Second,
		},
		Scraper: ScraperConfig{
			BaseURL:           "https://www.themoviedb.org",
			UserAgent:         "cinecheck/1.0 (+https://github.com/factchecker/cinecheck)",
			Language:          "en-US",
			Timeout:           20 * time.Second,
			RequestsPerSecond: 1,
			Burst:             2,
			CacheTTL:          6 * time.Hour,
			RespectRobots:     true,
		},
		Reports: ReportsConfig{
			Dir: "./reports",
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: DefaultCatalog(),
		Rules:   DefaultRules(),
	}
}

// DefaultCatalog returns the built-in title table.
func DefaultCatalog() map[string]TitleConfig {
	return map[string]TitleConfig{
		"breaking bad":     {ID: 1396, Type: "tv"},
		"better call saul": {ID: 60059, Type: "tv"},
		"the office":       {ID: 2316, Type: "tv"},
		"game of thrones":  {ID: 1399, Type: "tv"},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'cinecheck config init' to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# cinecheck configuration

server:
  port: 8000
  enable_ui: true

database:
  driver: sqlite
  path: ./data/cinecheck.db

llm:
  provider: ollama  # openai or ollama
  model: qwen2.5:7b
  ollama_url: http://localhost:11434

  # For OpenAI (or any OpenAI-compatible endpoint):
  # provider: openai
  # model: gpt-4o-mini
  # api_key: ${OPENAI_API_KEY}
  # base_url: https://api.openai.com/v1

# Language model consulted when the rule-based checks are inconclusive.
oracle:
  enabled: false
  timeout: 30s

interpreter:
  use_llm: false
  timeout: 60s

scraper:
  base_url: https://www.themoviedb.org
  language: en-US
  timeout: 20s
  requests_per_second: 1
  burst: 2
  cache_ttl: 6h
  respect_robots: true

reports:
  dir: ./reports

rate_limits:
  requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text

# Titles resolved without a TMDB search.
catalog:
  breaking bad: {id: 1396, type: tv}
  better call saul: {id: 60059, type: tv}

# Fact-checking rules (optional; omitted keys keep their defaults)
# rules:
#   known_directors: ["christopher nolan", "james cameron"]
#   awards:
#     titanic: "11 Oscars including Best Picture (1997)"
#   generic_support: 0.6
#   generic_contradict: 0.3
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	validProviders := map[string]bool{"openai": true, "ollama": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" && c.UsesLLM() {
		return fmt.Errorf("OpenAI API key is required")
	}

	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle timeout must be positive")
	}

	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper base_url is required")
	}

	for title, t := range c.Catalog {
		if t.Type != "movie" && t.Type != "tv" {
			return fmt.Errorf("catalog entry %q: type must be movie or tv", title)
		}
		if t.ID <= 0 {
			return fmt.Errorf("catalog entry %q: id must be positive", title)
		}
	}

	return c.Rules.Validate()
}

// UsesLLM reports whether any component needs a language model.
func (c *Config) UsesLLM() bool {
	return c.Oracle.Enabled || c.Interpreter.UseLLM
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
