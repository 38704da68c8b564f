package jalaali

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertYMD(t *testing.T, d DateTime, year, month, day int) {
	t.Helper()
	assert.Equal(t, []int{year, month, day}, []int{d.Year(), d.Month(), d.Day()})
}

func TestDateTime_AddYears(t *testing.T) {
	t.Run("clamps esfand 30 into a common year", func(t *testing.T) {
		got, err := MustDate(1395, 12, 30, 8, 15).AddYears(1)
		require.NoError(t, err)
		assertYMD(t, got, 1396, 12, 29)
		assert.Equal(t, 8, got.Hour())
		assert.Equal(t, 15, got.Minute())
	})

	t.Run("keeps day in leap target", func(t *testing.T) {
		got, err := MustDate(1395, 12, 30).AddYears(4)
		require.NoError(t, err)
		assertYMD(t, got, 1399, 12, 30)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := MustDate(1393, 1, 1).AddYears(-1393)
		var rangeErr *RangeError
		assert.True(t, errors.As(err, &rangeErr))
	})
}

func TestDateTime_AddMonths(t *testing.T) {
	start := MustDate(1396, 5, 10)

	tests := []struct {
		name             string
		from             DateTime
		months           int
		year, month, day int
	}{
		{"forward inside year", start, 3, 1396, 8, 10},
		{"zero", start, 0, 1396, 5, 10},
		{"backward inside year", start, -4, 1396, 1, 10},
		{"above twelve carries", MustDate(1396, 11, 10), 14, 1398, 1, 10},
		{"exactly twelve above", start, 13, 1397, 6, 10},
		{"below minus twelve", start, -13, 1395, 4, 10},
		{"clamps day", MustDate(1396, 6, 31), 1, 1396, 7, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.AddMonths(tt.months)
			require.NoError(t, err)
			assertYMD(t, got, tt.year, tt.month, tt.day)
		})
	}
}

// AddMonths keeps the asymmetric carry thresholds of the field arithmetic:
// offsets from -12 to 12 never carry into the year, so crossing a year
// boundary with a small offset is rejected instead of wrapping.
func TestDateTime_AddMonthsCarryQuirk(t *testing.T) {
	var rangeErr *RangeError

	_, err := MustDate(1396, 11, 10).AddMonths(2)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "month", rangeErr.Field)

	_, err = MustDate(1396, 1, 10).AddMonths(-1)
	require.True(t, errors.As(err, &rangeErr))

	_, err = MustDate(1395, 12, 30).AddMonths(12)
	require.True(t, errors.As(err, &rangeErr))

	// -24 carries two whole years; -25 then leaves month 0, which is not below -12.
	_, err = MustDate(1396, 12, 1).AddMonths(-24)
	assert.NoError(t, err)
	_, err = MustDate(1396, 1, 1).AddMonths(-25)
	require.True(t, errors.As(err, &rangeErr))
}

func TestDateTime_AddCalendarMonths(t *testing.T) {
	assertYMD(t, MustDate(1395, 12, 30).AddCalendarMonths(12), 1396, 12, 29)
	assertYMD(t, MustDate(1396, 11, 10).AddCalendarMonths(2), 1397, 1, 10)
	assertYMD(t, MustDate(1396, 1, 10).AddCalendarMonths(-1), 1395, 12, 10)
	assertYMD(t, MustDate(1396, 1, 31).AddCalendarMonths(-1), 1395, 12, 30)
	assertYMD(t, MustDate(1396, 6, 31).AddCalendarMonths(-25), 1394, 5, 31)
}

func TestDateTime_AddDuration(t *testing.T) {
	d := MustDate(1395, 12, 30, 23, 59, 59, 999)

	assertYMD(t, d.AddDays(1), 1396, 1, 1)
	assertYMD(t, d.AddDays(-366), 1394, 12, 29)
	assertYMD(t, d.AddHours(1), 1396, 1, 1)
	assert.Equal(t, 0, d.AddMinutes(1).Minute())
	assert.Equal(t, 0, d.AddSeconds(1).Second())
	assert.Equal(t, 0, d.AddMilliseconds(1).Millisecond())
	assert.Equal(t, 24*time.Hour, d.AddDays(1).Sub(d))
	assert.True(t, d.Add(time.Second).After(d))
}

func TestDateTime_SetTimeAndDateOnly(t *testing.T) {
	d := New(azar14)

	got, err := d.SetTime(7, 5, 3, 2)
	require.NoError(t, err)
	assertYMD(t, got, 1393, 9, 14)
	assert.Equal(t, 70503, got.TimeInt())
	assert.Equal(t, 2, got.Millisecond())

	_, err = d.SetTime(24, 0, 0, 0)
	assert.Error(t, err)

	date := d.DateOnly()
	assertYMD(t, date, 1393, 9, 14)
	assert.Equal(t, time.Duration(0), date.TimeOfDay())
}

func TestDateTime_WeekBounds(t *testing.T) {
	d := New(azar14)

	first := d.FirstDayOfWeek()
	assertYMD(t, first, 1393, 9, 8)
	assert.Equal(t, Saturday, first.JalaaliWeekday())
	assert.Equal(t, 0, first.Hour())

	end := d.Weekend()
	assertYMD(t, end, 1393, 9, 14)
	assert.Equal(t, Friday, end.JalaaliWeekday())

	assertYMD(t, first.Weekend(), 1393, 9, 14)
	assertYMD(t, MustDate(1393, 9, 9).FirstDayOfWeek(), 1393, 9, 8)
}

func TestDateTime_LastDays(t *testing.T) {
	got, err := MustDate(1395, 12, 5).LastDayOfMonth()
	require.NoError(t, err)
	assertYMD(t, got, 1395, 12, 30)

	got, err = MustDate(1396, 8, 5).LastDayOfMonth()
	require.NoError(t, err)
	assertYMD(t, got, 1396, 8, 30)

	got, err = MustDate(1396, 5, 1).LastDayOfYear()
	require.NoError(t, err)
	assertYMD(t, got, 1396, 12, 29)

	got, err = MustDate(1399, 5, 1).LastDayOfYear()
	require.NoError(t, err)
	assertYMD(t, got, 1399, 12, 30)
}

func TestDateTime_MonthDifference(t *testing.T) {
	a := MustDate(1393, 9, 14)
	b := MustDate(1394, 2, 1)
	assert.Equal(t, 5, a.MonthDifference(b))
	assert.Equal(t, 5, b.MonthDifference(a))
	assert.Equal(t, 0, a.MonthDifference(a))
}
