// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "strings"

// PersonName is a family/given pair as listed by a bibliographic index.
type PersonName struct {
	Family string
	Given  string
}

// YearPoints scores how close candidate is to year: 3 for the same year,
// 2 inside the open interval (year-1, year+1), 1 inside the open interval
// (year-2, year+2), 0 otherwise. For whole years the inner interval holds
// only year itself, so a one-year gap scores 1.
func YearPoints(year, candidate int) int {
	switch {
	case candidate == year:
		return 3
	case year-1 < candidate && candidate < year+1:
		return 2
	case year-2 < candidate && candidate < year+2:
		return 1
	default:
		return 0
	}
}

// AuthorPoints returns the best score of any listed author against the
// cleaned surname and given name: 2 when family and given name both match,
// 1 when the family name matches and the given names share their initial.
func AuthorPoints(surname, given string, authors []PersonName) int {
	best := 0
	for _, a := range authors {
		if p := personPoints(surname, given, a); p > best {
			best = p
		}
	}
	return best
}

func personPoints(surname, given string, a PersonName) int {
	if strings.ToLower(a.Family) != surname {
		return 0
	}
	g := strings.ToLower(a.Given)
	if g == given {
		return 2
	}
	if g != "" && given != "" && []rune(g)[0] == []rune(given)[0] {
		return 1
	}
	return 0
}

// Accepted reports whether a ranked candidate is good enough to take its
// DOI: similarity strictly above 0.8 and at least one author and one year
// point.
func Accepted(similarity float64, authorPoints, yearPoints int) bool {
	return similarity > 0.8 && authorPoints >= 1 && yearPoints >= 1
}
