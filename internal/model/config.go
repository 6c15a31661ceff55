package model

import (
	"runtime"
	"time"
)

// Config is the complete runtime configuration, populated from defaults,
// ~/.qgen/config.yaml, QGEN_* environment variables and CLI flags.
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Rules       RulesConfig       `yaml:"rules" mapstructure:"rules"`
	Filter      FilterConfig      `yaml:"filter" mapstructure:"filter"`
	KB          KBConfig          `yaml:"kb" mapstructure:"kb"`
	Rater       RaterConfig       `yaml:"rater" mapstructure:"rater"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// InputConfig controls how annotated input is interpreted.
type InputConfig struct {
	// Linked selects linked-entity mode: mention names carry a knowledge-base
	// identifier as <id>:<label> instead of a plain label.
	Linked bool `yaml:"linked" mapstructure:"linked"`
}

// RulesConfig locates the transformation rule table.
type RulesConfig struct {
	// Path to a YAML rule file. Empty means the built-in default table.
	Path string `yaml:"path" mapstructure:"path"`
}

// FilterConfig controls the question filter stage.
type FilterConfig struct {
	Tag          string `yaml:"tag" mapstructure:"tag"`                     // output tag keying the exclusion list
	ExclusionDir string `yaml:"exclusion_dir" mapstructure:"exclusion_dir"` // directory of per-tag exclusion files
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`       // token budget per question
}

// KBConfig configures the optional knowledge-base connection filter.
// Disabled unless Endpoint is set.
type KBConfig struct {
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"` // SPARQL endpoint (QLever)
	CacheDir          string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// RaterConfig configures the optional LLM question rater.
// Disabled unless Provider is set.
type RaterConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // from env, never written to disk
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ConcurrencyConfig controls sentence-level parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls CLI reporting.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			Tag:          "default",
			ExclusionDir: ".qgen",
			MaxTokens:    30,
		},
		KB: KBConfig{
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Rater: RaterConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 256,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
	}
}
