// Package types provides type definitions for structured data used throughout the connexion system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// MaxExperienceYears is the largest tenure a search query will mention.
const MaxExperienceYears = 30

// ExperienceOperator compares a profile's stated tenure with FilterCriteria.Years.
type ExperienceOperator string

const (
	OpLessThan    ExperienceOperator = "<"
	OpGreaterThan ExperienceOperator = ">"
	OpEqual       ExperienceOperator = "="
)

// ParseExperienceOperator accepts the symbolic form ("<", ">", "=") or the
// named form ("LT", "GT", "EQ", any case).
func ParseExperienceOperator(s string) (ExperienceOperator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "<", "LT":
		return OpLessThan, nil
	case ">", "GT":
		return OpGreaterThan, nil
	case "=", "==", "EQ":
		return OpEqual, nil
	}
	return "", &InvalidCriteriaError{Message: fmt.Sprintf("unknown experience operator %q", s)}
}

// FilterCriteria describes which profiles a discovery pass looks for.
type FilterCriteria struct {
	Locations []string           `json:"locations"`
	Positions []string           `json:"positions"`
	Operator  ExperienceOperator `json:"experience_operator"`
	Years     int                `json:"experience_years"`
}

// InvalidCriteriaError reports criteria that cannot be expanded into queries.
type InvalidCriteriaError struct {
	Message string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid criteria: %s", e.Message)
}

// YearConstraints resolves the operator and bound into the ascending list of
// tenure values a query set must cover. Under OpLessThan zero stands for "no
// tenure stated".
func (c FilterCriteria) YearConstraints() ([]int, error) {
	if c.Years < 0 || c.Years > MaxExperienceYears {
		return nil, &InvalidCriteriaError{
			Message: fmt.Sprintf("experience years must be within [0,%d], got %d", MaxExperienceYears, c.Years),
		}
	}

	var years []int
	switch c.Operator {
	case OpEqual:
		years = []int{c.Years}
	case OpGreaterThan:
		// "more than 30" still searches the top bucket
		lo := min(c.Years+1, MaxExperienceYears)
		for y := lo; y <= MaxExperienceYears; y++ {
			years = append(years, y)
		}
	case OpLessThan:
		for y := 0; y < c.Years; y++ {
			years = append(years, y)
		}
	default:
		return nil, &InvalidCriteriaError{Message: fmt.Sprintf("unknown experience operator %q", c.Operator)}
	}

	if len(years) == 0 {
		return nil, &InvalidCriteriaError{
			Message: fmt.Sprintf("%s %d matches no tenure", c.Operator, c.Years),
		}
	}
	return years, nil
}

// Validate checks the criteria can produce at least one query.
func (c FilterCriteria) Validate() error {
	if len(nonEmpty(c.Locations)) == 0 {
		return &InvalidCriteriaError{Message: "at least one location is required"}
	}
	if len(nonEmpty(c.Positions)) == 0 {
		return &InvalidCriteriaError{Message: "at least one position is required"}
	}
	_, err := c.YearConstraints()
	return err
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
