package store

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Known adapter and judge names. Kept here so config validation does not
// depend on the packages that implement them.
var (
	PriceSources        = []string{"alphavantage", "yahoo", "nse", "kite"}
	FundamentalsSources = []string{"alphavantage", "yahoo", "nse", "screener"}
	JudgeProviders      = []string{"gemini", "claude", "openai", "noop"}
)

type Config struct {
	Sources struct {
		Prices       []string      `yaml:"prices"`
		Fundamentals []string      `yaml:"fundamentals"`
		Timeout      time.Duration `yaml:"timeout"`
		HistoryDays  int           `yaml:"history_days"`
	} `yaml:"sources"`
	Judge struct {
		Provider    string        `yaml:"provider"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float32       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
		BaseURL     string        `yaml:"base_url"`
	} `yaml:"judge"`
	News struct {
		Enabled         bool          `yaml:"enabled"`
		MaxArticles     int           `yaml:"max_articles"`
		ScraperFallback bool          `yaml:"scraper_fallback"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"news"`
	Search struct {
		Directory    string `yaml:"directory"`
		MinLocalHits int    `yaml:"min_local_hits"`
	} `yaml:"search"`
}

// Default models per judge provider.
var defaultModels = map[string]string{
	"gemini": "gemini-2.0-flash",
	"claude": "claude-3-5-haiku-latest",
	"openai": "gpt-4o-mini",
	"noop":   "",
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := base()
	c.applyDefaults()
	return &c
}

// base carries the switches that default to on; yaml leaves them alone
// unless the file sets them.
func base() Config {
	var c Config
	c.News.Enabled = true
	c.News.ScraperFallback = true
	return c
}

func (c *Config) applyDefaults() {
	if len(c.Sources.Prices) == 0 {
		c.Sources.Prices = []string{"yahoo", "alphavantage", "nse"}
	}
	if len(c.Sources.Fundamentals) == 0 {
		c.Sources.Fundamentals = []string{"alphavantage", "yahoo", "nse"}
	}
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = 30 * time.Second
	}
	if c.Sources.HistoryDays == 0 {
		c.Sources.HistoryDays = 365
	}

	if c.Judge.Provider == "" {
		c.Judge.Provider = "gemini"
	}
	if c.Judge.Model == "" {
		c.Judge.Model = defaultModels[c.Judge.Provider]
	}
	if c.Judge.MaxTokens == 0 {
		c.Judge.MaxTokens = 1024
	}
	if c.Judge.Timeout == 0 {
		c.Judge.Timeout = 60 * time.Second
	}

	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 20
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 10 * time.Second
	}

	if c.Search.Directory == "" {
		c.Search.Directory = "data/indian_stocks.json"
	}
	if c.Search.MinLocalHits == 0 {
		c.Search.MinLocalHits = 5
	}
}

// ApplyEnv lets the environment override the judge provider and the
// symbol directory path.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("JUDGE_PROVIDER"); p != "" && p != c.Judge.Provider {
		c.Judge.Provider = p
		c.Judge.Model = defaultModels[p]
	}
	if m := os.Getenv("JUDGE_MODEL"); m != "" {
		c.Judge.Model = m
	}
	if d := os.Getenv("SYMBOL_DIRECTORY"); d != "" {
		c.Search.Directory = d
	}
}

func (c *Config) Validate() error {
	if len(c.Sources.Prices) == 0 {
		return errors.New("sources.prices cannot be empty")
	}
	if len(c.Sources.Fundamentals) == 0 {
		return errors.New("sources.fundamentals cannot be empty")
	}
	if err := checkNames("sources.prices", c.Sources.Prices, PriceSources); err != nil {
		return err
	}
	if err := checkNames("sources.fundamentals", c.Sources.Fundamentals, FundamentalsSources); err != nil {
		return err
	}
	if c.Sources.Timeout < 0 {
		return fmt.Errorf("sources.timeout must be positive, got %s", c.Sources.Timeout)
	}
	if c.Sources.HistoryDays < 30 {
		return fmt.Errorf("sources.history_days must be at least 30, got %d", c.Sources.HistoryDays)
	}
	if !slices.Contains(JudgeProviders, c.Judge.Provider) {
		return fmt.Errorf("judge.provider must be one of %v, got '%s'", JudgeProviders, c.Judge.Provider)
	}
	if c.Judge.Temperature < 0 || c.Judge.Temperature > 2 {
		return fmt.Errorf("judge.temperature must be between 0-2, got %.2f", c.Judge.Temperature)
	}
	if c.News.MaxArticles < 0 {
		return fmt.Errorf("news.max_articles must not be negative, got %d", c.News.MaxArticles)
	}
	return nil
}

func checkNames(field string, names, known []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !slices.Contains(known, n) {
			return fmt.Errorf("%s: unknown source '%s' (known: %v)", field, n, known)
		}
		if seen[n] {
			return fmt.Errorf("%s: source '%s' listed twice", field, n)
		}
		seen[n] = true
	}
	return nil
}

// LoadConfig reads path, fills defaults and validates. An empty path yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	c := base()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyDefaults()
	c.ApplyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
