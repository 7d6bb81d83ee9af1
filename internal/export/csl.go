// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes resolved publications as a CSL-YAML bibliography,
// consumable by Pandoc and reference managers.
package export

import (
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/pkg/types"
)

// CSLItem is one bibliographic entry in CSL (Citation Style Language) form.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title,omitempty"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	DOI    string    `yaml:"DOI"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family string `yaml:"family,omitempty"`
	Given  string `yaml:"given,omitempty"`
}

// CSLDate is a date in CSL form using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// Collect returns one item per distinct DOI found in the selected groups,
// ordered by DOI. A publication listed under several authors yields a
// single item naming each of them once.
func Collect(ds *types.Dataset, groups dataset.Groups) []CSLItem {
	byDOI := map[string]*CSLItem{}
	dataset.Walk(ds, groups, func(_ dataset.Position, set types.AuthorSet) error {
		for _, key := range dataset.Keys(set) {
			a := set[key]
			if a == nil {
				continue
			}
			for _, p := range a.Pubbs {
				if !p.HasDOI() {
					continue
				}
				add(byDOI, p, cslName(a.Fullname))
			}
		}
		return nil
	})

	dois := make([]string, 0, len(byDOI))
	for doi := range byDOI {
		dois = append(dois, doi)
	}
	sort.Strings(dois)

	items := make([]CSLItem, len(dois))
	for i, doi := range dois {
		items[i] = *byDOI[doi]
	}
	return items
}

// Write encodes items as a CSL-YAML list to w.
func Write(w io.Writer, items []CSLItem) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func add(byDOI map[string]*CSLItem, p types.Publication, name CSLName) {
	key := strings.ToLower(p.DOI)
	item, ok := byDOI[key]
	if !ok {
		item = &CSLItem{ID: p.DOI, Type: "article-journal", DOI: p.DOI}
		byDOI[key] = item
	}
	if item.Title == "" {
		item.Title = p.Title
	}
	if item.Issued == nil && p.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{p.Year}}}
	}
	for _, n := range item.Author {
		if n == name {
			return
		}
	}
	item.Author = append(item.Author, name)
}

// cslName maps an author's full name to CSL family/given parts.
func cslName(n types.FullName) CSLName {
	return CSLName{
		Family: strings.TrimSpace(n[0]),
		Given:  strings.TrimSpace(n[1]),
	}
}
