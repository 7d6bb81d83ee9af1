// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Known secret files.
const (
	GraphAPIKey    = "graph-api-key"
	CrossrefMailto = "crossref-mailto"
)

// ConfigKeys maps each known secret file to the configuration key it fills.
var ConfigKeys = map[string]string{
	GraphAPIKey:    "graph.api_key",
	CrossrefMailto: "crossref.mailto",
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// reported on logger, which may be nil, and skipped.
func Load(dir string, logger *log.Logger) (map[string]string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Settings returns the configuration key and value of every known secret
// present in loaded.
func Settings(loaded map[string]string) map[string]string {
	out := make(map[string]string)
	for file, key := range ConfigKeys {
		if v, ok := loaded[file]; ok {
			out[key] = v
		}
	}
	return out
}
