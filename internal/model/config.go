package model

import "time"

// Config holds the complete dndscore configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Oracle      OracleConfig      `yaml:"oracle"`
	Parser      ParserConfig      `yaml:"parser"`
	Selection   SelectionConfig   `yaml:"selection"`
	Bleached    BleachedConfig    `yaml:"bleached"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls URL ingestion
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls oracle answer caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`        // disk layer directory
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OracleConfig configures the entailment and similarity oracles
type OracleConfig struct {
	// Provider: "openai" or "nli" (HTTP NLI server)
	Provider string `yaml:"provider"`

	// APIKey for OpenAI (usually via OPENAI_API_KEY)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (OpenAI-compatible or NLI server)
	BaseURL string `yaml:"base_url,omitempty"`

	// EntailmentModel is the model answering entailment queries
	EntailmentModel string `yaml:"entailment_model"`

	// EmbeddingModel is the model producing claim embeddings
	EmbeddingModel string `yaml:"embedding_model"`

	// Timeout per oracle call
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond bounds the oracle call rate per endpoint
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// FailFast propagates oracle errors instead of applying the
	// conservative fallback values below
	FailFast bool `yaml:"fail_fast"`

	// EntailmentFallback is used when an entailment call fails (default 0.0,
	// biasing the scorer toward over-retention)
	EntailmentFallback float64 `yaml:"entailment_fallback"`

	// SimilarityFallback is used when a similarity call fails (default 1.0,
	// biasing the selector toward suppression)
	SimilarityFallback float64 `yaml:"similarity_fallback"`
}

// ParserConfig configures the dependency parse provider
type ParserConfig struct {
	// BaseURL of the parse server (spaCy-style HTTP service)
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SelectionConfig configures the core-set selector
type SelectionConfig struct {
	// Tau is the redundancy threshold: claims with similarity above it are
	// considered duplicates
	Tau float64 `yaml:"tau"`
}

// BleachedConfig supplies the bleached claim set
type BleachedConfig struct {
	// File is a newline-delimited file of bleached claims
	File string `yaml:"file,omitempty"`
	// Claims is an inline claim list (used when File is empty)
	Claims []string `yaml:"claims,omitempty"`
}

// ConcurrencyConfig controls worker pool sizes
type ConcurrencyConfig struct {
	OracleWorkers int `yaml:"oracle_workers"`
	BatchWorkers  int `yaml:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "dndscore/0.1 (+https://github.com/CogNetSys/dndscore)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Oracle: OracleConfig{
			Provider:           "openai",
			EntailmentModel:    "gpt-4o-mini",
			EmbeddingModel:     "text-embedding-3-small",
			Timeout:            30 * time.Second,
			RequestsPerSecond:  5,
			Burst:              5,
			EntailmentFallback: 0.0,
			SimilarityFallback: 1.0,
		},
		Parser: ParserConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Selection: SelectionConfig{
			Tau: 0.5,
		},
		Bleached: BleachedConfig{
			Claims: DefaultBleachedClaims(),
		},
		Concurrency: ConcurrencyConfig{
			OracleWorkers: 8,
			BatchWorkers:  4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// DefaultBleachedClaims returns the built-in generic claim set used when no
// claim file is configured. Deliberately vacuous statements: anything a
// bleached claim already entails carries little domain-specific information.
func DefaultBleachedClaims() []string {
	return []string{
		"Someone is a person.",
		"Someone did something.",
		"Something happened.",
		"Someone was born somewhere.",
		"Something is located somewhere.",
		"Something exists.",
	}
}
