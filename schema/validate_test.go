package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// VALIDATION — Non-Pokémon dataset classification
// ============================================================================
// The dashboard accepts any CSV; these check that a generic HR export gets
// sensible kinds and dropdown hints.
// ============================================================================

var hrValidationCSV = []byte("Employee ID,Full Name,Department,Job Title,Level,Location,Hire Date,Annual Salary,Bonus Percent,Performance Score,Manager,Employment Status\nEMP-001,Alice Johnson,Engineering,Senior Engineer,L5,San Francisco,2019-03-15,185000,15.0,4.2,Bob Smith,Active\nEMP-002,Bob Smith,Engineering,Engineering Manager,L6,San Francisco,2017-06-01,210000,20.0,4.5,Carol Davis,Active\nEMP-003,Carol Davis,Engineering,VP Engineering,L7,San Francisco,2015-01-10,280000,25.0,4.8,David Lee,Active\nEMP-004,Diana Chen,Product,Product Manager,L5,New York,2020-07-20,165000,15.0,4.0,Edward Park,Active\nEMP-005,Edward Park,Product,Senior PM,L6,New York,2018-02-14,195000,18.0,4.3,Frank White,Active\nEMP-006,Frank White,Product,VP Product,L7,New York,2016-09-01,260000,22.0,4.6,Grace Kim,Active\nEMP-007,Grace Kim,Executive,CEO,L8,San Francisco,2014-01-01,350000,30.0,5.0,,Active\nEMP-008,Hannah Lee,Design,UX Designer,L4,Austin,2021-04-12,120000,10.0,3.8,Ivan Torres,Active\nEMP-009,Ivan Torres,Design,Design Lead,L5,Austin,2019-08-05,155000,15.0,4.1,Carol Davis,Active\nEMP-010,Jack Brown,Engineering,Junior Engineer,L3,San Francisco,2023-01-09,115000,8.0,3.5,Alice Johnson,Active\nEMP-011,Karen Wu,Sales,Account Executive,L4,Chicago,2022-05-16,95000,12.0,3.9,Larry Green,Active\nEMP-012,Larry Green,Sales,Sales Manager,L5,Chicago,2018-11-20,145000,18.0,4.4,Frank White,Active\nEMP-013,Mike Patel,Engineering,DevOps Engineer,L4,San Francisco,2021-10-03,140000,12.0,4.0,Bob Smith,Active\nEMP-014,Nina Reyes,Marketing,Marketing Specialist,L3,New York,2023-06-15,85000,8.0,3.6,Oscar Hill,Active\nEMP-015,Oscar Hill,Marketing,Marketing Manager,L5,New York,2019-04-22,155000,15.0,4.2,Edward Park,Active\nEMP-016,Paula Scott,Engineering,Senior Engineer,L5,Austin,2020-02-28,175000,15.0,4.3,Bob Smith,Active\nEMP-017,Quinn Adams,HR,HR Coordinator,L3,Chicago,2022-09-12,72000,8.0,3.7,Rachel Ng,Active\nEMP-018,Rachel Ng,HR,HR Director,L6,Chicago,2017-03-08,185000,18.0,4.5,Grace Kim,Active\nEMP-019,Sam Taylor,Engineering,ML Engineer,L5,San Francisco,2020-11-15,195000,15.0,4.4,Bob Smith,Resigned\nEMP-020,Tina Vo,Sales,Sales Rep,L3,Chicago,2023-08-01,78000,10.0,3.3,Larry Green,Active\n")

func TestValidateHRDiscovery(t *testing.T) {
	config, err := DiscoverFromCSV(hrValidationCSV, DiscoverOptions{Name: "hr"})
	require.NoError(t, err)

	assert.Equal(t, []string{"annual_salary", "bonus_percent", "performance_score"}, config.NumericKeys())

	for _, key := range []string{"employee_id", "full_name"} {
		col, ok := config.Lookup(key)
		require.True(t, ok, key)
		assert.True(t, col.Identifier, key)
		assert.False(t, col.Groupable, key)
	}

	for _, key := range []string{"department", "level", "location", "employment_status"} {
		col, ok := config.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, KindCategorical, col.Kind, key)
		assert.True(t, col.Groupable, key)
	}

	salary, _ := config.Lookup("Annual Salary")
	assert.False(t, salary.Groupable, "salary has too many distinct values to group by")
	assert.Equal(t, "medium", salary.CardinalityHint)

	manager, _ := config.Lookup("manager")
	assert.Equal(t, 1, manager.NullCount)

	status, _ := config.Lookup("Employment Status")
	assert.Equal(t, []string{"Active", "Resigned"}, status.SampleValues)
	assert.Equal(t, "low", status.CardinalityHint)
}

func TestValidateEveryColumnKept(t *testing.T) {
	config, err := DiscoverFromCSV(hrValidationCSV)
	require.NoError(t, err)

	assert.Len(t, config.Columns, 12)
	seen := map[string]bool{}
	for _, col := range config.Columns {
		assert.NotEmpty(t, col.Key)
		assert.False(t, seen[col.Key], "duplicate key %s", col.Key)
		seen[col.Key] = true
	}
	assert.Equal(t, config.ColumnKeys()[0], "employee_id")
}

func TestValidateDuplicateHeaders(t *testing.T) {
	config, err := DiscoverFromCSV([]byte("Value,value,Group\n1,2,a\n3,4,b\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"value", "value_2", "group"}, config.ColumnKeys())
}
