// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/idresolve/internal/normalize"
	"github.com/pdiddy/idresolve/pkg/types"
)

// openAIREPageSize is the number of ranked results requested; only the
// first is used.
const openAIREPageSize = 5

// OpenAIRE queries the open-access aggregator's publication search.
type OpenAIRE struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	StopWords *normalize.StopWords
	Cache     Cache
}

// OpenAccessMatch is what the aggregator's top result carries. Either
// field may be empty.
type OpenAccessMatch struct {
	DOI       string
	Citations json.RawMessage
}

// Empty reports whether the match carries neither a DOI nor citations.
func (m *OpenAccessMatch) Empty() bool {
	return m == nil || (m.DOI == "" && len(m.Citations) == 0)
}

// ByTitle searches by a six-keyword digest of title and the target surname,
// restricted to records accepted by the end of year, and reads the DOI and
// the citation payload of the top-ranked result.
func (o *OpenAIRE) ByTitle(ctx context.Context, name types.FullName, title string, year int) (*OpenAccessMatch, error) {
	surname, _ := normalize.Target(name)
	params := url.Values{
		"title":          {o.StopWords.CleanTitle(title, normalize.KindOpenAccess)},
		"author":         {surname},
		"toDateAccepted": {fmt.Sprintf("%d-12-31", year)},
		"page":           {"1"},
		"size":           {fmt.Sprintf("%d", openAIREPageSize)},
		"format":         {"json"},
	}

	req, err := newRequest(ctx, o.BaseURL+"?"+params.Encode(), o.UserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := fetch(ctx, o.Cache, TagOpenAIRE, req, func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return o.Client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.fail(TagOpenAIRE, fmt.Errorf("HTTP %d", resp.status))
	}

	m, err := parseOpenAIRE(resp.body)
	if err != nil {
		return nil, resp.fail(TagOpenAIRE, err)
	}
	return m, nil
}

var errNoJSON = errors.New("response is not JSON")

// parseOpenAIRE reads the top result of a search response. A response
// whose results are null yields nil.
func parseOpenAIRE(body []byte) (*OpenAccessMatch, error) {
	if !gjson.ValidBytes(body) {
		return nil, errNoJSON
	}

	results := child(child(gjson.ParseBytes(body), "response"), "results")
	if !results.Exists() {
		return nil, errors.New("missing response.results")
	}
	if results.Type == gjson.Null {
		return nil, nil
	}

	entity := child(child(first(child(results, "result")), "metadata"), "oaf:entity")
	if !entity.IsObject() {
		return nil, errors.New("missing result metadata")
	}
	record := child(entity, "oaf:result")

	m := &OpenAccessMatch{DOI: firstDOI(variant(child(record, "pid")))}
	if c := citations(entity); c != nil {
		m.Citations = c
	} else {
		m.Citations = citations(record)
	}
	return m, nil
}

// firstDOI returns the value of the first doi-classified identifier.
func firstDOI(pids []gjson.Result) string {
	for _, pid := range pids {
		if child(pid, "@classid").String() != "doi" {
			continue
		}
		if v := child(pid, "$"); v.Exists() {
			return v.String()
		}
	}
	return ""
}

// citations returns the raw citation list of the first citations-typed
// extraInfo entry of v, or nil.
func citations(v gjson.Result) json.RawMessage {
	for _, info := range variant(child(v, "extraInfo")) {
		if child(info, "@typology").String() != "citations" {
			continue
		}
		c := child(child(info, "citations"), "citation")
		if !c.Exists() {
			return nil
		}
		return json.RawMessage(c.Raw)
	}
	return nil
}

// The aggregator serializes repeated elements as a list and single ones
// as a bare object. variant normalizes both shapes to a list; first picks
// the leading element of either.

func variant(v gjson.Result) []gjson.Result {
	switch {
	case v.IsArray():
		return v.Array()
	case v.IsObject():
		return []gjson.Result{v}
	default:
		return nil
	}
}

func first(v gjson.Result) gjson.Result {
	if items := variant(v); len(items) > 0 {
		return items[0]
	}
	return gjson.Result{}
}

// child returns the member key of object v. Keys are looked up literally,
// so names such as "@classid" or "$" need no path escaping.
func child(v gjson.Result, key string) gjson.Result {
	if !v.IsObject() {
		return gjson.Result{}
	}
	return v.Map()[key]
}
