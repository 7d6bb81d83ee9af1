// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes author names and publication titles into
// the forms the matchers compare: names lose diacritics, case and
// punctuation; titles are reduced to a short keyword digest.
package normalize

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/idresolve/pkg/types"
)

// TitleKind selects the keyword budget of a title digest.
type TitleKind int

const (
	// KindOpenAccess keeps six keywords.
	KindOpenAccess TitleKind = iota
	// KindIndex keeps four keywords.
	KindIndex
)

// Keywords returns the number of tokens a digest of this kind keeps.
func (k TitleKind) Keywords() int {
	if k == KindOpenAccess {
		return 6
	}
	return 4
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// CleanName decomposes raw, drops combining marks, lowercases it and removes
// every rune that is not a letter, digit, underscore or whitespace.
func CleanName(raw string) string {
	decomposed, _, err := transform.String(stripMarks, raw)
	if err != nil {
		decomposed = raw
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, strings.ToLower(decomposed))
}

// Target returns the cleaned surname and given name used to match an
// author against source records.
func Target(name types.FullName) (surname, given string) {
	return CleanName(name.Surname()), CleanName(name.Given())
}

//go:embed stopwords-it.txt
var italianStopWords string

// StopWords is an immutable stop-word set.
type StopWords struct {
	words map[string]struct{}
}

// Italian returns the built-in Italian stop-word set.
func Italian() *StopWords {
	sw, _ := ReadStopWords(strings.NewReader(italianStopWords))
	return sw
}

// LoadStopWords reads a stop-word file with one token per line.
func LoadStopWords(path string) (*StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stop-word file: %w", err)
	}
	defer f.Close()
	return ReadStopWords(f)
}

// ReadStopWords reads one token per line from r. Surrounding whitespace is
// trimmed from every line.
func ReadStopWords(r io.Reader) (*StopWords, error) {
	sw := &StopWords{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sw.words[strings.TrimSpace(scanner.Text())] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	return sw, nil
}

// Contains reports whether token is a stop word. The match is exact and
// case-sensitive.
func (s *StopWords) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

// Len returns the number of stop words in the set.
func (s *StopWords) Len() int { return len(s.words) }

// CleanTitle splits title on single spaces, drops stop words and keeps the
// first kind.Keywords() remaining tokens, joined by single spaces.
func (s *StopWords) CleanTitle(title string, kind TitleKind) string {
	n := kind.Keywords()
	keywords := make([]string, 0, n)
	for _, w := range strings.Split(title, " ") {
		if len(keywords) == n {
			break
		}
		if s.Contains(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return strings.Join(keywords, " ")
}
