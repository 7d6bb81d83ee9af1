// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/idresolve/internal/httputil"
	"github.com/pdiddy/idresolve/internal/normalize"
	"github.com/pdiddy/idresolve/internal/source"
	"github.com/pdiddy/idresolve/pkg/types"
)

// New builds a Resolver wired to the three services described by cfg.
// cache may be nil. The knowledge graph is left out when no API key is
// configured, since every request to it would be refused.
func New(cfg types.ResolveConfig, cache source.Cache, logger *log.Logger) (*Resolver, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = discard
	}

	stop := normalize.Italian()
	if cfg.Resolve.StopWords != "" {
		var err error
		stop, err = normalize.LoadStopWords(cfg.Resolve.StopWords)
		if err != nil {
			return nil, fmt.Errorf("loading stop words: %w", err)
		}
	}

	client := httputil.NewClient(cfg.HTTP.Timeout, cfg.HTTP.RequestsPerSecond)

	r := &Resolver{
		OpenAccess: &source.OpenAIRE{
			Client:    client,
			BaseURL:   cfg.OpenAIRE.BaseURL,
			UserAgent: cfg.HTTP.UserAgent,
			StopWords: stop,
			Cache:     cache,
		},
		Index: &source.Crossref{
			Client:    client,
			BaseURL:   cfg.Crossref.BaseURL,
			UserAgent: cfg.HTTP.UserAgent,
			Mailto:    cfg.Crossref.Mailto,
			StopWords: stop,
			Cache:     cache,
			Overload: httputil.OverloadPolicy{
				Delay:      cfg.Resolve.OverloadDelay,
				MaxRetries: cfg.Resolve.OverloadMaxRetries,
			},
			Logger: logger,
		},
		IndexQuota:    cfg.Resolve.IndexQuota,
		IndexCooldown: cfg.Resolve.IndexCooldown,
		Logger:        logger,
	}

	if cfg.Graph.APIKey != "" {
		r.Graph = &source.Graph{
			Client:    client,
			BaseURL:   cfg.Graph.BaseURL,
			APIKey:    cfg.Graph.APIKey,
			UserAgent: cfg.HTTP.UserAgent,
			Cache:     cache,
		}
	} else {
		logger.Warn("no knowledge-graph API key configured, graph lookups disabled")
	}
	if cfg.Crossref.Mailto == "" {
		logger.Warn("no crossref mailto configured, using the shared pool")
	}
	return r, nil
}
