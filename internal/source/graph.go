// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/idresolve/internal/httputil"
	"github.com/pdiddy/idresolve/internal/match"
	"github.com/pdiddy/idresolve/internal/normalize"
	"github.com/pdiddy/idresolve/pkg/types"
)

const (
	graphDOIAttributes   = "Id,AA.AuN,AA.AuId,Y,RId"
	graphTitleAttributes = "Id,DOI,AA.AuN,AA.AuId,Y,RId"

	// graphKeyHeader carries the shared subscription key.
	graphKeyHeader = "Ocp-Apim-Subscription-Key"

	// graphYearSlack is how far the recorded year may be from the local one.
	graphYearSlack = 2
)

// Graph queries the knowledge-graph evaluate endpoint.
type Graph struct {
	Client    *http.Client
	BaseURL   string
	APIKey    string
	UserAgent string
	Cache     Cache
}

// GraphMatch is a knowledge-graph publication whose author list contains
// the target author.
type GraphMatch struct {
	PId      int64
	RId      []int64
	DOI      string
	AuthorID string
}

// ByDOI looks the publication up by exact DOI. A publication is found only
// when the first returned entity also lists the target author.
func (g *Graph) ByDOI(ctx context.Context, name types.FullName, doi string) (*GraphMatch, error) {
	entities, err := g.evaluate(ctx, fmt.Sprintf("DOI=='%s'", doi), graphDOIAttributes)
	if err != nil || len(entities) == 0 {
		return nil, err
	}

	surname, given := normalize.Target(name)
	e := entities[0]
	authorID, ok := match.IdentifyAuthor(surname, given, e.candidates())
	if !ok {
		return nil, nil
	}
	return &GraphMatch{PId: e.ID, RId: e.RId, AuthorID: authorID}, nil
}

// ByTitle looks the publication up by exact title. The first entity dated
// within two years of year whose author list contains the target author
// is returned.
func (g *Graph) ByTitle(ctx context.Context, name types.FullName, title string, year int) (*GraphMatch, error) {
	entities, err := g.evaluate(ctx, fmt.Sprintf("And(Ti='%s')", title), graphTitleAttributes)
	if err != nil {
		return nil, err
	}

	surname, given := normalize.Target(name)
	for _, e := range entities {
		if e.Year < year-graphYearSlack || e.Year > year+graphYearSlack {
			continue
		}
		authorID, ok := match.IdentifyAuthor(surname, given, e.candidates())
		if !ok {
			continue
		}
		return &GraphMatch{PId: e.ID, RId: e.RId, DOI: e.DOI, AuthorID: authorID}, nil
	}
	return nil, nil
}

// evaluate runs one query expression and returns the entities of the
// response. A response without an entities list yields nil.
func (g *Graph) evaluate(ctx context.Context, expr, attributes string) ([]graphEntity, error) {
	params := url.Values{
		"expr":       {expr},
		"attributes": {attributes},
	}

	req, err := newRequest(ctx, g.BaseURL+"?"+params.Encode(), g.UserAgent)
	if err != nil {
		return nil, err
	}
	if g.APIKey != "" {
		req.Header.Set(graphKeyHeader, g.APIKey)
	}

	resp, err := fetch(ctx, g.Cache, TagGraph, req, func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return httputil.DoWithRetry(ctx, g.Client, req, 0)
	})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.fail(TagGraph, fmt.Errorf("HTTP %d", resp.status))
	}

	var gr graphResponse
	if err := json.Unmarshal(resp.body, &gr); err != nil {
		return nil, resp.fail(TagGraph, fmt.Errorf("parsing response: %w", err))
	}
	return gr.Entities, nil
}

// Knowledge-graph JSON structures.
type graphResponse struct {
	Expr     string        `json:"expr"`
	Entities []graphEntity `json:"entities"`
}

type graphEntity struct {
	ID     int64         `json:"Id"`
	Year   int           `json:"Y"`
	DOI    string        `json:"DOI"`
	RId    []int64       `json:"RId"`
	Author []graphAuthor `json:"AA"`
}

type graphAuthor struct {
	Name string `json:"AuN"`
	ID   int64  `json:"AuId"`
}

func (e graphEntity) candidates() []match.Candidate {
	out := make([]match.Candidate, len(e.Author))
	for i, a := range e.Author {
		out[i] = match.Candidate{ID: strconv.FormatInt(a.ID, 10), Name: a.Name}
	}
	return out
}
