package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTime covers various valid and invalid cases.
func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.AddDate(0, 0, -10),
		},
		{
			name:     "valid year",
			input:    "1 year ago",
			expected: fixedNow.AddDate(-1, 0, 0),
		},
		{
			name:        "invalid missing ago",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid hours are not civil",
			input:       "4 hours ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAsOf(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       string
		loc         *time.Location
		expected    time.Time
		expectError bool
	}{
		{"empty is today", "", time.UTC, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), false},
		{"today keyword", "Today", time.UTC, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), false},
		{"today in a zone ahead", "", tokyo, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), false},
		{"today in a zone behind", "", la, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), false},
		{"civil date", "2024-02-29", la, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 shifts into zone", "2024-03-01T23:30:00Z", tokyo, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), false},
		{"relative", "2 days ago", time.UTC, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "next tuesday", time.UTC, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAsOf(tt.input, fixedNow, tt.loc)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("  ")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("LOCAL")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = LoadLocation("Nowhere/Special")
	assert.Error(t, err)
}

func TestCivilDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	late := time.Date(2024, 6, 30, 23, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), CivilDay(late, berlin))
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), CivilDay(late, nil))
}
