// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match decides whether a record returned by a source belongs to a
// known author and publication: author disambiguation over (id, name)
// candidates, and the year, author and title scores used to rank works.
package match

import "strings"

// Candidate is an (external id, display name) pair returned by a source.
type Candidate struct {
	ID   string
	Name string
}

// IdentifyAuthor picks the candidate matching the cleaned surname and given
// name. Candidates whose display name has a token equal to surname survive
// the first pass; a single survivor is returned as is. With several
// survivors the first one that also has a token equal to given wins. The
// second return value is false when no candidate can be chosen.
func IdentifyAuthor(surname, given string, candidates []Candidate) (string, bool) {
	var possible []Candidate
	for _, c := range candidates {
		if hasToken(c.Name, surname) {
			possible = append(possible, c)
		}
	}

	switch len(possible) {
	case 0:
		return "", false
	case 1:
		return possible[0].ID, true
	}

	for _, c := range possible {
		if hasToken(c.Name, given) {
			return c.ID, true
		}
	}
	return "", false
}

func hasToken(name, token string) bool {
	for _, part := range strings.Split(name, " ") {
		if part == token {
			return true
		}
	}
	return false
}
