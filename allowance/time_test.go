package allowance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUpToQuarterMinutes(t *testing.T) {
	cases := []struct {
		in   TimeOfDay
		want int
	}{
		{TimeOfDay{12, 0}, 720},   // on the boundary, unchanged
		{TimeOfDay{12, 7}, 735},   // 12:07 -> 12:15
		{TimeOfDay{13, 47}, 840},  // 13:47 -> 14:00
		{TimeOfDay{0, 1}, 15},     // 00:01 -> 00:15
		{TimeOfDay{23, 45}, 1425}, // boundary near midnight
		{TimeOfDay{23, 47}, 1440}, // rounds to end-of-day, no wrap
		{TimeOfDay{23, 59}, 1440},
		{TimeOfDay{0, 0}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, roundUpToQuarterMinutes(tc.in), "round %s", tc.in)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.March, 10), d)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)

	_, err = ParseDate("2025-02-30")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tod, err := ParseClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 17, Minute: 30}, tod)
	assert.Equal(t, 1050, tod.Minutes())
	assert.Equal(t, "17:30", tod.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	_, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestStartOfWeek(t *testing.T) {
	monday := NewDate(2025, time.March, 10)

	// Every day of that week maps back to its Monday, Sunday included.
	for i := 0; i < 7; i++ {
		assert.Equal(t, monday, StartOfWeek(monday.AddDays(i)), "offset %d", i)
	}
	assert.Equal(t, monday.AddDays(-7), StartOfWeek(monday.AddDays(-1)))
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(NewDate(2025, time.March, 10)))
	assert.Equal(t, Saturday, WeekdayOf(NewDate(2025, time.March, 15)))
	assert.Equal(t, Sunday, WeekdayOf(NewDate(2025, time.March, 16)))
}

func TestCivilDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.January, 31)

	assert.Equal(t, NewDate(2025, time.February, 1), d.AddDays(1))
	assert.Equal(t, 28, NewDate(2025, time.February, 1).LastDayOfMonth())
	assert.Equal(t, 29, NewDate(2024, time.February, 1).LastDayOfMonth())
	assert.Equal(t, 31, d.LastDayOfMonth())

	assert.True(t, d.Between(NewDate(2025, time.January, 1), NewDate(2025, time.January, 31)))
	assert.False(t, d.Between(NewDate(2025, time.February, 1), NewDate(2025, time.February, 28)))
	assert.True(t, d.Before(NewDate(2025, time.February, 1)))
	assert.True(t, d.After(NewDate(2025, time.January, 30)))
}
