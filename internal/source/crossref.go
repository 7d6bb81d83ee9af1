// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/idresolve/internal/httputil"
	"github.com/pdiddy/idresolve/internal/match"
	"github.com/pdiddy/idresolve/internal/normalize"
	"github.com/pdiddy/idresolve/pkg/types"
)

const (
	crossrefRows   = 4
	crossrefSelect = "DOI,title,author,issued"
)

// Crossref queries the bibliographic index and picks the best candidate
// work by title similarity, author match and year proximity.
type Crossref struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string

	// Mailto is the contact address sent as "mailto:<address>" in the
	// User-Agent header. It takes precedence over UserAgent.
	Mailto string

	StopWords *normalize.StopWords
	Cache     Cache

	// Overload bounds the retries on an overloaded service.
	Overload httputil.OverloadPolicy

	// Logger, when set, records overload retries.
	Logger *log.Logger
}

// ByTitle searches by a four-keyword digest of title and the target
// surname and returns the DOI of the best-ranked candidate, or "" when no
// candidate passes the acceptance threshold.
func (c *Crossref) ByTitle(ctx context.Context, name types.FullName, title string, year int) (string, error) {
	surname, given := normalize.Target(name)
	params := url.Values{
		"query.bibliographic": {c.StopWords.CleanTitle(title, normalize.KindIndex)},
		"query.author":        {surname},
		"rows":                {fmt.Sprintf("%d", crossrefRows)},
		"select":              {crossrefSelect},
	}

	userAgent := c.UserAgent
	if c.Mailto != "" {
		userAgent = "mailto:" + c.Mailto
	}
	req, err := newRequest(ctx, c.BaseURL+"?"+params.Encode(), userAgent)
	if err != nil {
		return "", err
	}

	policy := c.Overload
	policy.OnRetry = func(attempt int) {
		if c.Logger != nil {
			c.Logger.Warn("index overloaded, retrying", "source", TagCrossref, "url", req.URL.String(), "attempt", attempt)
		}
	}
	resp, err := fetch(ctx, c.Cache, TagCrossref, req, func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return httputil.DoWithOverloadRetry(ctx, c.Client, req, policy)
	})
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", resp.fail(TagCrossref, fmt.Errorf("HTTP %d", resp.status))
	}

	var cr crossrefResponse
	if err := json.Unmarshal(resp.body, &cr); err != nil {
		return "", resp.fail(TagCrossref, fmt.Errorf("parsing response: %w", err))
	}

	best, ok := rankWorks(cr.Message.Items, surname, given, title, year)
	if !ok || !match.Accepted(best.similarity, best.authors, best.years) {
		return "", nil
	}
	return cr.Message.Items[best.row].DOI, nil
}

// workScore is the ranking tuple of one candidate work.
type workScore struct {
	similarity float64
	authors    int
	years      int
	row        int
}

// less orders scores lexicographically by similarity, author points, year
// points and row.
func (s workScore) less(o workScore) bool {
	if s.similarity != o.similarity {
		return s.similarity < o.similarity
	}
	if s.authors != o.authors {
		return s.authors < o.authors
	}
	if s.years != o.years {
		return s.years < o.years
	}
	return s.row < o.row
}

// rankWorks scores every item and returns the greatest score.
func rankWorks(items []crossrefItem, surname, given, title string, year int) (workScore, bool) {
	var best workScore
	for i, item := range items {
		s := scoreWork(item, surname, given, title, year)
		s.row = i
		if i == 0 || best.less(s) {
			best = s
		}
	}
	return best, len(items) > 0
}

func scoreWork(item crossrefItem, surname, given, title string, year int) workScore {
	var s workScore
	if issued, ok := item.issuedYear(); ok {
		s.years = match.YearPoints(year, issued)
	}

	names := make([]match.PersonName, len(item.Author))
	for i, a := range item.Author {
		names[i] = match.PersonName{Family: a.Family, Given: a.Given}
	}
	s.authors = match.AuthorPoints(surname, given, names)

	var candidate string
	if len(item.Title) > 0 {
		candidate = strings.ToLower(item.Title[0])
	}
	s.similarity = match.Ratio(title, candidate)
	return s
}

// Crossref JSON structures.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	DOI    string           `json:"DOI"`
	Title  []string         `json:"title"`
	Author []crossrefAuthor `json:"author"`
	Issued crossrefDate     `json:"issued"`
}

type crossrefAuthor struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

type crossrefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

// issuedYear returns the first date part of the issued date, if set.
func (it crossrefItem) issuedYear() (int, bool) {
	dp := it.Issued.DateParts
	if len(dp) == 0 || len(dp[0]) == 0 || dp[0][0] == nil || *dp[0][0] == 0 {
		return 0, false
	}
	return *dp[0][0], true
}
