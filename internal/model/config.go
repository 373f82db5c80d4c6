package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete pipeline configuration
type Config struct {
	HTTP         HTTPConfig       `yaml:"http" json:"http"`
	Browser      BrowserConfig    `yaml:"browser" json:"browser"`
	Cache        CacheConfig      `yaml:"cache" json:"cache"`
	RateLimiting RateLimitConfig  `yaml:"rate_limiting" json:"rate_limiting"`
	Refine       RefineConfig     `yaml:"refine" json:"refine"`
	Validation   ValidationConfig `yaml:"validation" json:"validation"`
	Output       OutputConfig     `yaml:"output" json:"output"`

	// MaxResults caps the ResultSet size; once reached, remaining source
	// processing is short-circuited. 0 means unlimited.
	MaxResults int `yaml:"max_results" json:"max_results"`
}

// HTTPConfig configures the static fetcher
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy"`
	RespectRobots bool         `yaml:"respect_robots" json:"respect_robots"`
}

// BrowserConfig configures the rendered fetcher
type BrowserConfig struct {
	Headless    bool          `yaml:"headless" json:"headless"`
	NavTimeout  time.Duration `yaml:"nav_timeout" json:"nav_timeout"`
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"` // Extra wait after navigation
	SessionFile string        `yaml:"session_file" json:"session_file"` // Opaque cookie snapshot, threaded through untouched
}

// CacheConfig configures the page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" json:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// RateLimitConfig configures politeness toward target sites
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" json:"burst_size"`
	RequestDelay      time.Duration `yaml:"request_delay" json:"request_delay"` // Fixed inter-request delay
}

// RefineConfig configures optional person-name refinement
type RefineConfig struct {
	// Provider: "" (disabled), "pattern", or "openai"
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"-" json:"-"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
}

// ValidationConfig configures optional contact-link validation
type ValidationConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Workers int           `yaml:"workers" json:"workers"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputConfig configures export targets
type OutputConfig struct {
	CSVPath  string `yaml:"csv_path" json:"csv_path"`
	JSONPath string `yaml:"json_path" json:"json_path"`
	TextPath string `yaml:"text_path" json:"text_path"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := ".founderscout-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".founderscout", "cache")
	}

	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "founderscout/0.3 (+https://github.com/rmaksimov/founderscout)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Browser: BrowserConfig{
			Headless:    true,
			NavTimeout:  60 * time.Second,
			SettleDelay: 2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskDir:   cacheDir,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
			RequestDelay:      2 * time.Second,
		},
		Refine: RefineConfig{
			Provider: "",
		},
		Validation: ValidationConfig{
			Enabled: false,
			Workers: 10,
			Timeout: 10 * time.Second,
		},
		Output: OutputConfig{
			CSVPath: "founders.csv",
		},
	}
}
