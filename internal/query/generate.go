// Package query expands filter criteria into search-engine query strings.
package query

import (
	"fmt"
	"strings"

	"github.com/jonathan/connexion/internal/types"
)

// sitePrefix restricts results to public profile pages.
const sitePrefix = "site:linkedin.com/in"

// Build renders the query for one (position, location, years) triple. Under
// types.OpLessThan zero years renders a query that excludes any tenure
// mention; every other zero is a literal "0 years".
func Build(position, location string, op types.ExperienceOperator, years int) string {
	base := fmt.Sprintf(`%s intitle:("%s") AND ("%s")`, sitePrefix, location, position)
	if years == 0 && op == types.OpLessThan {
		return base + ` -"year" -"years"`
	}
	return fmt.Sprintf(`%s AND ("%s")`, base, yearPhrase(years))
}

func yearPhrase(years int) string {
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}

// Generate expands criteria into queries, ordered by position, then location,
// then ascending years. Unless repeat is set, queries for which used returns
// true are dropped while keeping the order of the rest.
func Generate(criteria types.FilterCriteria, used func(string) bool, repeat bool) ([]string, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	years, err := criteria.YearConstraints()
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, pos := range criteria.Positions {
		pos = strings.TrimSpace(pos)
		if pos == "" {
			continue
		}
		for _, loc := range criteria.Locations {
			loc = strings.TrimSpace(loc)
			if loc == "" {
				continue
			}
			for _, y := range years {
				queries = append(queries, Build(pos, loc, criteria.Operator, y))
			}
		}
	}

	if repeat || used == nil {
		return queries, nil
	}

	fresh := queries[:0]
	for _, q := range queries {
		if !used(q) {
			fresh = append(fresh, q)
		}
	}
	return fresh, nil
}
