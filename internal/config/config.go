package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scorer providers.
const (
	ScorerLexicon = "lexicon"
	ScorerOpenAI  = "openai"
)

// Config holds the vibecheck API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	CORS     CORSConfig     `yaml:"cors"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Spam     SpamConfig     `yaml:"spam"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
}

// Addr returns host:port for net.Listen.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // default: ["*"]
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// ScraperConfig holds review fetcher settings.
type ScraperConfig struct {
	DomainMarker     string  `yaml:"domain_marker"`
	TimeoutSec       int     `yaml:"timeout_sec"`
	UserAgent        string  `yaml:"user_agent"`
	AcceptLanguage   string  `yaml:"accept_language"`
	MinFragmentChars int     `yaml:"min_fragment_chars"`
	Warmup           bool    `yaml:"warmup"`
	CloudflareBypass *bool   `yaml:"cloudflare_bypass"` // default: true
	RateLimit        float64 `yaml:"rate_limit"`        // requests per second, process-wide
	RateBurst        int     `yaml:"rate_burst"`
}

// AnalysisConfig holds scoring and ranking settings.
type AnalysisConfig struct {
	MaxTextChars    int `yaml:"max_text_chars"`
	Workers         int `yaml:"workers"`
	TopN            int `yaml:"top_n"`
	MaxDisplayChars int `yaml:"max_display_chars"`
}

// ScorerConfig holds sentiment scorer settings.
type ScorerConfig struct {
	Provider    string       `yaml:"provider"`     // lexicon (default), openai
	LexiconPath string       `yaml:"lexicon_path"` // empty: embedded lexicon
	OpenAI      OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds OpenAI-compatible chat completion settings.
type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// SpamConfig holds spam classifier artifact paths.
type SpamConfig struct {
	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding ${VAR} references, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.Scraper.DomainMarker == "" {
		c.Scraper.DomainMarker = "amazon."
	}
	if c.Scraper.TimeoutSec <= 0 {
		c.Scraper.TimeoutSec = 10
	}
	if c.Scraper.MinFragmentChars <= 0 {
		c.Scraper.MinFragmentChars = 20
	}
	if c.Scraper.CloudflareBypass == nil {
		enabled := true
		c.Scraper.CloudflareBypass = &enabled
	}
	if c.Scraper.RateLimit <= 0 {
		c.Scraper.RateLimit = 1
	}
	if c.Scraper.RateBurst <= 0 {
		c.Scraper.RateBurst = 2
	}
	if c.Analysis.MaxTextChars <= 0 {
		c.Analysis.MaxTextChars = 20000
	}
	if c.Analysis.Workers <= 0 {
		c.Analysis.Workers = 1
	}
	if c.Analysis.TopN <= 0 {
		c.Analysis.TopN = 5
	}
	if c.Analysis.MaxDisplayChars <= 0 {
		c.Analysis.MaxDisplayChars = 250
	}
	if c.Scorer.Provider == "" {
		c.Scorer.Provider = ScorerLexicon
	}
	if c.Scorer.OpenAI.Model == "" {
		c.Scorer.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Scorer.OpenAI.MaxTokens <= 0 {
		c.Scorer.OpenAI.MaxTokens = 64
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Scorer.Provider {
	case ScorerLexicon:
		// ok
	case ScorerOpenAI:
		if c.Scorer.OpenAI.APIKey == "" {
			return fmt.Errorf("scorer.openai.api_key is required for provider %q", ScorerOpenAI)
		}
	default:
		return fmt.Errorf("scorer.provider must be %q or %q, got %q",
			ScorerLexicon, ScorerOpenAI, c.Scorer.Provider)
	}
	if c.Analysis.Workers > 64 {
		return fmt.Errorf("analysis.workers must be at most 64, got %d", c.Analysis.Workers)
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("cors.allowed_origins must not contain empty entries")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
