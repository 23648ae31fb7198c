package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		year    int
		month   time.Month
		day     int
	}{
		{
			name:  "Valid date",
			input: "2026-08-29",
			year:  2026, month: time.August, day: 29,
		},
		{
			name:  "Leap day",
			input: "2024-02-29",
			year:  2024, month: time.February, day: 29,
		},
		{
			name:    "Day out of range",
			input:   "2026-02-30",
			wantErr: true,
		},
		{
			name:    "Month out of range",
			input:   "2026-13-01",
			wantErr: true,
		},
		{
			name:    "Not a date",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "Wrong separator",
			input:   "2026/08/29",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, recaperrors.IsDate(err))
				return
			}
			require.NoError(t, err)

			// Round-trips to the same calendar date regardless of the
			// process timezone.
			assert.Equal(t, tt.input, got.Format("2006-01-02"))
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())

			// Local midnight, never UTC-shifted.
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, time.Local, got.Location())
		})
	}
}

// assertRangeInvariants checks Start <= DisplayEnd <= End and that the
// buffer on End is either zero or exactly one day.
func assertRangeInvariants(t *testing.T, r Range) {
	t.Helper()
	assert.False(t, r.DisplayEnd.Before(r.Start), "Start must not exceed DisplayEnd")
	assert.False(t, r.End.Before(r.DisplayEnd), "DisplayEnd must not exceed End")

	buffer := r.End.Sub(r.DisplayEnd)
	assert.True(t, buffer == 0 || buffer == 24*time.Hour,
		"End - DisplayEnd must be 0 or 1 day, got %v", buffer)
}

func TestPastNDays(t *testing.T) {
	now := time.Date(2026, time.August, 29, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		days      int
		wantStart time.Time
	}{
		{
			name:      "Seven days",
			days:      7,
			wantStart: time.Date(2026, time.August, 22, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "One day",
			days:      1,
			wantStart: time.Date(2026, time.August, 28, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "Thirty days crosses month boundary",
			days:      30,
			wantStart: time.Date(2026, time.July, 30, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PastNDays(now, tt.days)
			assertRangeInvariants(t, r)

			assert.Equal(t, tt.wantStart, r.Start)

			// DisplayEnd is today at day end, without the buffer.
			assert.Equal(t, 29, r.DisplayEnd.Day())
			assert.Equal(t, 23, r.DisplayEnd.Hour())

			// End carries the one-day buffer.
			assert.Equal(t, 30, r.End.Day())
		})
	}
}

func TestPastNDaysDeterministic(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.Local)
	assert.Equal(t, PastNDays(now, 7), PastNDays(now, 7))
}

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantMonday time.Time
		wantSunday time.Time
	}{
		{
			name:       "Saturday resolves to surrounding week",
			now:        time.Date(2026, time.August, 29, 12, 0, 0, 0, time.Local), // Saturday
			wantMonday: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local),
			wantSunday: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.Local),
		},
		{
			name:       "Monday is its own week start",
			now:        time.Date(2026, time.August, 24, 8, 0, 0, 0, time.Local),
			wantMonday: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local),
			wantSunday: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.Local),
		},
		{
			name:       "Sunday belongs to the preceding Monday",
			now:        time.Date(2026, time.August, 30, 20, 0, 0, 0, time.Local), // Sunday
			wantMonday: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local),
			wantSunday: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.Local),
		},
		{
			name:       "Week crossing a month boundary",
			now:        time.Date(2026, time.September, 2, 10, 0, 0, 0, time.Local), // Wednesday
			wantMonday: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local),
			wantSunday: time.Date(2026, time.September, 6, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CurrentWeek(tt.now)
			assertRangeInvariants(t, r)

			assert.Equal(t, tt.wantMonday, r.Start)
			assert.Equal(t, tt.wantSunday.Day(), r.DisplayEnd.Day())
			assert.Equal(t, tt.wantSunday.Month(), r.DisplayEnd.Month())
			assert.Equal(t, 23, r.DisplayEnd.Hour())

			// The buffered End is the Monday after, at day end.
			assert.Equal(t, tt.wantSunday.AddDate(0, 0, 1).Day(), r.End.Day())
		})
	}
}

func TestExplicit(t *testing.T) {
	start := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.Local)

	r := Explicit(start, end)
	assertRangeInvariants(t, r)

	assert.Equal(t, start, r.Start)
	assert.Equal(t, 23, r.End.Hour())
	assert.Equal(t, 8, r.End.Day())

	// Explicit ranges carry no buffer.
	assert.Equal(t, r.End, r.DisplayEnd)
}

func TestLabels(t *testing.T) {
	r := Explicit(
		time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.March, 8, 0, 0, 0, 0, time.Local),
	)

	assert.Equal(t, "Jan 2, 2026 - Mar 8, 2026", r.Label())
	assert.Equal(t, "Jan 2026 - Mar 2026", r.Period())
}

func TestLabelUsesDisplayEndNotBufferedEnd(t *testing.T) {
	// Saturday Jan 31: the buffered end lands in February but the
	// label must still say January.
	now := time.Date(2026, time.January, 31, 12, 0, 0, 0, time.Local)
	r := PastNDays(now, 7)

	assert.Contains(t, r.Label(), "Jan 31, 2026")
	assert.NotContains(t, r.Label(), "Feb")
}
