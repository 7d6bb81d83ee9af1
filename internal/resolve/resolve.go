// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve decides, per publication, which sources to ask and in
// what order, and walks whole author collections applying that strategy.
//
// A publication carrying a DOI is looked up in the knowledge graph by DOI
// only. A title-only publication is tried against the knowledge graph by
// title, then the open-access aggregator, then the bibliographic index;
// the first source with a usable answer ends the chain. Source failures
// are logged and count as "nothing found" for that source.
package resolve

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/idresolve/internal/source"
	"github.com/pdiddy/idresolve/pkg/types"
)

// GraphSource looks publications up in the knowledge graph.
type GraphSource interface {
	ByDOI(ctx context.Context, name types.FullName, doi string) (*source.GraphMatch, error)
	ByTitle(ctx context.Context, name types.FullName, title string, year int) (*source.GraphMatch, error)
}

// OpenAccessSource looks publications up in the open-access aggregator.
type OpenAccessSource interface {
	ByTitle(ctx context.Context, name types.FullName, title string, year int) (*source.OpenAccessMatch, error)
}

// IndexSource looks publications up in the bibliographic index. An empty
// DOI means no candidate was accepted.
type IndexSource interface {
	ByTitle(ctx context.Context, name types.FullName, title string, year int) (string, error)
}

// Outcome names the source that resolved a publication.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeUnresolved
	OutcomeGraphDOI
	OutcomeGraphTitle
	OutcomeOpenAccess
	OutcomeIndex
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeGraphDOI:
		return "graph-doi"
	case OutcomeGraphTitle:
		return "graph-title"
	case OutcomeOpenAccess:
		return "open-access"
	case OutcomeIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Result describes how one publication was resolved.
type Result struct {
	Outcome Outcome

	// AuthorID is the external author id found for the publication's
	// author, if any.
	AuthorID string

	// Errors lists the source failures met along the way. They are
	// already logged and did not stop the strategy.
	Errors []error
}

// Resolver applies the resolution strategy. A nil source is skipped.
type Resolver struct {
	Graph      GraphSource
	OpenAccess OpenAccessSource
	Index      IndexSource

	// IndexQuota and IndexCooldown configure the governor of each batch.
	IndexQuota    int
	IndexCooldown time.Duration

	// Sleep replaces the governor's timer; tests use it to avoid waiting.
	Sleep SleepFunc

	Logger *log.Logger
}

var discard = log.New(io.Discard)

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return discard
	}
	return r.Logger
}

// ResolvePublication enriches pub in place for the author name. gov
// throttles the index. The returned error is non-nil only when ctx ends.
func (r *Resolver) ResolvePublication(ctx context.Context, gov *Governor, name types.FullName, pub *types.Publication) (Result, error) {
	switch {
	case pub.HasDOI():
		return r.resolveDOI(ctx, name, pub)
	case pub.HasTitle():
		return r.resolveTitle(ctx, gov, name, pub)
	default:
		return Result{Outcome: OutcomeSkipped}, nil
	}
}

func (r *Resolver) resolveDOI(ctx context.Context, name types.FullName, pub *types.Publication) (Result, error) {
	res := Result{Outcome: OutcomeUnresolved}
	if r.Graph == nil {
		return res, nil
	}

	m, err := r.Graph.ByDOI(ctx, name, pub.DOI)
	if err != nil {
		return res, r.contain(ctx, &res, source.TagGraph, err)
	}
	if m == nil {
		return res, nil
	}
	mergeGraph(pub, m)
	res.Outcome = OutcomeGraphDOI
	res.AuthorID = m.AuthorID
	return res, nil
}

func (r *Resolver) resolveTitle(ctx context.Context, gov *Governor, name types.FullName, pub *types.Publication) (Result, error) {
	res := Result{Outcome: OutcomeUnresolved}

	if r.Graph != nil {
		m, err := r.Graph.ByTitle(ctx, name, pub.Title, pub.Year)
		if err != nil {
			if err := r.contain(ctx, &res, source.TagGraph, err); err != nil {
				return res, err
			}
		}
		if m != nil {
			mergeGraph(pub, m)
			res.Outcome = OutcomeGraphTitle
			res.AuthorID = m.AuthorID
			return res, nil
		}
	}

	if r.OpenAccess != nil {
		m, err := r.OpenAccess.ByTitle(ctx, name, pub.Title, pub.Year)
		if err != nil {
			if err := r.contain(ctx, &res, source.TagOpenAIRE, err); err != nil {
				return res, err
			}
		}
		if !m.Empty() {
			if m.DOI != "" {
				pub.DOI = m.DOI
			}
			if len(m.Citations) > 0 {
				pub.CitedRaw = m.Citations
			}
			res.Outcome = OutcomeOpenAccess
			return res, nil
		}
	}

	if r.Index != nil {
		if err := gov.Wait(ctx); err != nil {
			return res, err
		}
		doi, err := r.Index.ByTitle(ctx, name, pub.Title, pub.Year)
		if err != nil {
			return res, r.contain(ctx, &res, source.TagCrossref, err)
		}
		if doi != "" {
			pub.DOI = doi
			res.Outcome = OutcomeIndex
		}
	}
	return res, nil
}

// contain logs a source failure and records it in res. It returns the
// context error when the failure was caused by ctx ending.
func (r *Resolver) contain(ctx context.Context, res *Result, tag string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	res.Errors = append(res.Errors, err)

	kv := []any{"source", tag, "err", err}
	var re *source.ResponseError
	if errors.As(err, &re) {
		kv = append(kv, "url", re.URL)
		if re.Body != "" {
			kv = append(kv, "body", re.Body)
		} else {
			kv = append(kv, "content_type", re.ContentType)
		}
	}
	r.logger().Error("lookup failed", kv...)
	return nil
}

func mergeGraph(pub *types.Publication, m *source.GraphMatch) {
	pub.PId = m.PId
	if m.RId != nil {
		pub.RId = m.RId
	}
	if m.DOI != "" {
		pub.DOI = m.DOI
	}
}
