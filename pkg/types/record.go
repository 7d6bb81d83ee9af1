// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared records and configuration of the
// identifier-resolution pipeline: authors, their publications, and the
// nested candidate and commission groupings that hold them.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FullName is the (surname-bearing, given-name-bearing) pair of an author.
// Either element may carry several space-separated tokens.
type FullName [2]string

// Surname returns the last token of the surname-bearing element.
func (n FullName) Surname() string {
	parts := strings.Split(n[0], " ")
	return parts[len(parts)-1]
}

// Given returns the first token of the given-name-bearing element.
func (n FullName) Given() string {
	return strings.Split(n[1], " ")[0]
}

// Publication is one entry of an author's publication list. Keys the
// pipeline does not know about are kept in Extra and written back untouched.
type Publication struct {
	// DOI is present on input or discovered by resolution.
	DOI string

	Title string
	Year  int

	// PId is the knowledge-graph publication id.
	PId int64

	// RId lists related-record ids reported by the knowledge graph.
	RId []int64

	// CitedRaw is the raw citation payload reported by the open-access source.
	CitedRaw json.RawMessage

	Extra map[string]json.RawMessage
}

// HasDOI reports whether the publication already carries a DOI.
func (p Publication) HasDOI() bool { return p.DOI != "" }

// HasTitle reports whether the publication carries a title.
func (p Publication) HasTitle() bool { return p.Title != "" }

// UnmarshalJSON decodes a publication mapping, keeping unknown keys.
func (p *Publication) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decoding publication: %w", err)
	}

	*p = Publication{}
	if err := takeField(fields, "doi", &p.DOI); err != nil {
		return err
	}
	if err := takeField(fields, "title", &p.Title); err != nil {
		return err
	}
	if raw, ok := fields["year"]; ok {
		year, err := parseYear(raw)
		if err != nil {
			return err
		}
		p.Year = year
		delete(fields, "year")
	}
	if err := takeField(fields, "PId", &p.PId); err != nil {
		return err
	}
	if err := takeField(fields, "RId", &p.RId); err != nil {
		return err
	}
	if raw, ok := fields["cited_raw"]; ok {
		p.CitedRaw = raw
		delete(fields, "cited_raw")
	}

	if len(fields) > 0 {
		p.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the publication with its preserved keys.
func (p Publication) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.DOI != "" {
		out["doi"] = p.DOI
	}
	if p.Title != "" {
		out["title"] = p.Title
	}
	if p.Year != 0 {
		out["year"] = p.Year
	}
	if p.PId != 0 {
		out["PId"] = p.PId
	}
	if p.RId != nil {
		out["RId"] = p.RId
	}
	if len(p.CitedRaw) > 0 {
		out["cited_raw"] = p.CitedRaw
	}
	return json.Marshal(out)
}

// Author is one candidate or commission member.
type Author struct {
	Fullname FullName
	Pubbs    []Publication

	// AuIds holds the external author identifiers found by resolution.
	// It is nil until the author has been resolved.
	AuIds []string

	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes an author mapping, keeping unknown keys.
func (a *Author) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decoding author: %w", err)
	}

	*a = Author{}
	if err := takeField(fields, "fullname", &a.Fullname); err != nil {
		return err
	}
	if err := takeField(fields, "pubbs", &a.Pubbs); err != nil {
		return err
	}
	if err := takeField(fields, "AuIds", &a.AuIds); err != nil {
		return err
	}

	if len(fields) > 0 {
		a.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the author with its preserved keys.
func (a Author) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+3)
	for k, v := range a.Extra {
		out[k] = v
	}
	out["fullname"] = a.Fullname
	pubbs := a.Pubbs
	if pubbs == nil {
		pubbs = []Publication{}
	}
	out["pubbs"] = pubbs
	if a.AuIds != nil {
		out["AuIds"] = a.AuIds
	}
	return json.Marshal(out)
}

// AuthorSet maps an author's display key to the author record.
type AuthorSet map[string]*Author

// FieldSet maps a scientific field to the authors filed under it.
type FieldSet map[string]AuthorSet

// Candidates is the assessment year → term → role → field tree.
type Candidates map[string]map[string]map[string]FieldSet

// Commissions is the assessment year → field tree.
type Commissions map[string]FieldSet

// Dataset is the whole input document: candidates under "cand" and
// commission members under "comm". Other top-level keys are preserved.
type Dataset struct {
	Cand Candidates
	Comm Commissions

	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the dataset document.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decoding dataset: %w", err)
	}

	*d = Dataset{}
	if err := takeField(fields, "cand", &d.Cand); err != nil {
		return err
	}
	if err := takeField(fields, "comm", &d.Comm); err != nil {
		return err
	}

	if len(fields) > 0 {
		d.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the dataset document.
func (d Dataset) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.Cand != nil {
		out["cand"] = d.Cand
	}
	if d.Comm != nil {
		out["comm"] = d.Comm
	}
	return json.Marshal(out)
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// takeField decodes fields[key] into dst and removes it from fields.
func takeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	delete(fields, key)
	return nil
}

// parseYear accepts a year written either as a number or as a string.
func parseYear(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("decoding \"year\": %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("decoding \"year\": %w", err)
	}
	return n, nil
}
