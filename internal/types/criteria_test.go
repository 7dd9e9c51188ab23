package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExperienceOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected ExperienceOperator
	}{
		{"<", OpLessThan},
		{"lt", OpLessThan},
		{">", OpGreaterThan},
		{"GT", OpGreaterThan},
		{"=", OpEqual},
		{" eq ", OpEqual},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseExperienceOperator(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, op)
		})
	}

	_, err := ParseExperienceOperator("~")
	assert.Error(t, err)
}

func TestYearConstraints(t *testing.T) {
	tests := []struct {
		name     string
		op       ExperienceOperator
		years    int
		expected []int
	}{
		{"equal", OpEqual, 10, []int{10}},
		{"equal zero", OpEqual, 0, []int{0}},
		{"greater than", OpGreaterThan, 27, []int{28, 29, 30}},
		{"greater than max", OpGreaterThan, 30, []int{30}},
		{"less than", OpLessThan, 3, []int{0, 1, 2}},
		{"less than one", OpLessThan, 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FilterCriteria{Operator: tt.op, Years: tt.years}
			got, err := c.YearConstraints()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestYearConstraints_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		op    ExperienceOperator
		years int
	}{
		{"less than zero", OpLessThan, 0},
		{"negative", OpEqual, -1},
		{"too large", OpEqual, 31},
		{"unknown operator", ExperienceOperator("~"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FilterCriteria{Operator: tt.op, Years: tt.years}
			_, err := c.YearConstraints()
			var invalid *InvalidCriteriaError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestFilterCriteria_Validate(t *testing.T) {
	valid := FilterCriteria{
		Locations: []string{"Cazenovia"},
		Positions: []string{"Intern"},
		Operator:  OpEqual,
		Years:     10,
	}
	assert.NoError(t, valid.Validate())

	noLocations := valid
	noLocations.Locations = []string{" "}
	assert.ErrorContains(t, noLocations.Validate(), "location")

	noPositions := valid
	noPositions.Positions = nil
	assert.ErrorContains(t, noPositions.Validate(), "position")
}

func TestAffordance_CanConnect(t *testing.T) {
	assert.True(t, AffordanceDirectConnect.CanConnect())
	assert.True(t, AffordanceMenuConnect.CanConnect())
	assert.False(t, AffordanceAcceptIncoming.CanConnect())
	assert.False(t, AffordanceNone.CanConnect())
}
