// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes the author dataset file and walks the
// authors it holds.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/idresolve/pkg/types"
)

// Groups selects which parts of a dataset are walked.
type Groups int

const (
	Candidates Groups = 1 << iota
	Commissions

	AllGroups = Candidates | Commissions
)

// ParseGroups maps a --only flag value to a Groups mask. Empty selects both.
func ParseGroups(s string) (Groups, error) {
	switch s {
	case "":
		return AllGroups, nil
	case "cand":
		return Candidates, nil
	case "comm":
		return Commissions, nil
	default:
		return 0, fmt.Errorf("unknown group %q (want cand or comm)", s)
	}
}

// Load reads a dataset from a JSON file.
func Load(path string) (*types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Save writes ds to path as indented JSON. The file is replaced atomically
// so an interrupted run never leaves a truncated dataset behind.
func Save(path string, ds *types.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dataset: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing dataset: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Position locates an author set within the dataset: the grouping ("cand"
// or "comm") followed by the keys leading to it, ending with the field.
type Position []string

// WalkFunc is called for every author set. Returning an error stops the walk.
type WalkFunc func(pos Position, set types.AuthorSet) error

// Walk calls fn for every author set selected by groups, candidates first,
// visiting keys in sorted order at every level.
func Walk(ds *types.Dataset, groups Groups, fn WalkFunc) error {
	if groups&Candidates != 0 {
		for _, year := range sortedKeys(ds.Cand) {
			terms := ds.Cand[year]
			for _, term := range sortedKeys(terms) {
				roles := terms[term]
				for _, role := range sortedKeys(roles) {
					fields := roles[role]
					for _, field := range sortedKeys(fields) {
						if err := fn(Position{"cand", year, term, role, field}, fields[field]); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	if groups&Commissions != 0 {
		for _, year := range sortedKeys(ds.Comm) {
			fields := ds.Comm[year]
			for _, field := range sortedKeys(fields) {
				if err := fn(Position{"comm", year, field}, fields[field]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Keys returns the keys of set in sorted order.
func Keys(set types.AuthorSet) []string {
	return sortedKeys(set)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
