// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/idresolve/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables are honoured even when no config file mentions the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", types.DefaultTimeout)
	v.SetDefault("http.user_agent", types.DefaultUserAgent)
	v.SetDefault("http.requests_per_second", 0.0)
	v.SetDefault("graph.base_url", types.DefaultGraphBaseURL)
	v.SetDefault("graph.api_key", "")
	v.SetDefault("openaire.base_url", types.DefaultOpenAIREBaseURL)
	v.SetDefault("crossref.base_url", types.DefaultCrossrefBaseURL)
	v.SetDefault("crossref.mailto", "")
	v.SetDefault("resolve.stopwords", "")
	v.SetDefault("resolve.index_quota", types.DefaultIndexQuota)
	v.SetDefault("resolve.index_cooldown", types.DefaultIndexCooldown)
	v.SetDefault("resolve.overload_delay", types.DefaultOverloadDelay)
	v.SetDefault("resolve.overload_max_retries", types.DefaultOverloadMaxRetries)
	v.SetDefault("cache.path", "")
}

// loadConfig decodes the resolution settings held by v.
func loadConfig(v *viper.Viper) (types.ResolveConfig, error) {
	var cfg types.ResolveConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg.WithDefaults(), nil
}
