// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every source adapter.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent to services that do not
	// require a contact address in it (e.g. "idresolve/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond caps outgoing requests across all services.
	// Zero disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// GraphConfig holds settings for the knowledge-graph service.
type GraphConfig struct {
	// BaseURL is the evaluate endpoint of the service.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as the shared subscription key header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// OpenAIREConfig holds settings for the open-access aggregator.
type OpenAIREConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// CrossrefConfig holds settings for the bibliographic index.
type CrossrefConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Mailto is the contact address sent in the User-Agent header.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`
}

// StrategyConfig tunes the resolution strategy and its governor.
type StrategyConfig struct {
	// StopWords is an optional path to a stop-word file, one token per
	// line. Empty uses the built-in Italian list.
	StopWords string `json:"stopwords,omitempty" yaml:"stopwords,omitempty" mapstructure:"stopwords"`

	// IndexQuota is the number of index calls allowed before a cooldown (default 49).
	IndexQuota int `json:"index_quota" yaml:"index_quota" mapstructure:"index_quota"`

	// IndexCooldown is the pause inserted once the quota is reached (default 1s).
	IndexCooldown time.Duration `json:"index_cooldown" yaml:"index_cooldown" mapstructure:"index_cooldown"`

	// OverloadDelay is the wait before retrying an overloaded index call (default 5s).
	OverloadDelay time.Duration `json:"overload_delay" yaml:"overload_delay" mapstructure:"overload_delay"`

	// OverloadMaxRetries bounds the overload retries for one call (default 10).
	OverloadMaxRetries int `json:"overload_max_retries" yaml:"overload_max_retries" mapstructure:"overload_max_retries"`
}

// CacheConfig holds settings for the response cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty disables caching.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// ResolveConfig groups every setting of a resolution run.
type ResolveConfig struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Graph    GraphConfig    `json:"graph" yaml:"graph" mapstructure:"graph"`
	OpenAIRE OpenAIREConfig `json:"openaire" yaml:"openaire" mapstructure:"openaire"`
	Crossref CrossrefConfig `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	Resolve  StrategyConfig `json:"resolve" yaml:"resolve" mapstructure:"resolve"`
	Cache    CacheConfig    `json:"cache" yaml:"cache" mapstructure:"cache"`
}

// Default values for ResolveConfig.
const (
	DefaultGraphBaseURL       = "https://api.labs.cognitive.microsoft.com/academic/v1.0/evaluate"
	DefaultOpenAIREBaseURL    = "http://api.openaire.eu/search/publications"
	DefaultCrossrefBaseURL    = "https://api.crossref.org/works"
	DefaultUserAgent          = "idresolve/0.1"
	DefaultTimeout            = 60 * time.Second
	DefaultIndexQuota         = 49
	DefaultIndexCooldown      = 1 * time.Second
	DefaultOverloadDelay      = 5 * time.Second
	DefaultOverloadMaxRetries = 10
)

// WithDefaults returns a copy of c with every zero field set to its default.
func (c ResolveConfig) WithDefaults() ResolveConfig {
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.Graph.BaseURL == "" {
		c.Graph.BaseURL = DefaultGraphBaseURL
	}
	if c.OpenAIRE.BaseURL == "" {
		c.OpenAIRE.BaseURL = DefaultOpenAIREBaseURL
	}
	if c.Crossref.BaseURL == "" {
		c.Crossref.BaseURL = DefaultCrossrefBaseURL
	}
	if c.Resolve.IndexQuota <= 0 {
		c.Resolve.IndexQuota = DefaultIndexQuota
	}
	if c.Resolve.IndexCooldown <= 0 {
		c.Resolve.IndexCooldown = DefaultIndexCooldown
	}
	if c.Resolve.OverloadDelay <= 0 {
		c.Resolve.OverloadDelay = DefaultOverloadDelay
	}
	if c.Resolve.OverloadMaxRetries <= 0 {
		c.Resolve.OverloadMaxRetries = DefaultOverloadMaxRetries
	}
	return c
}
