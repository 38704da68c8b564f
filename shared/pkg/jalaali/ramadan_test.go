package jalaali

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metargb/jalaali/shared/pkg/calendar"
)

func TestDateTime_StartsOfRamadan(t *testing.T) {
	h := calendar.NewTabularHijri(time.UTC)

	t.Run("two starts in one jalaali year", func(t *testing.T) {
		d := MustDate(1369, 3, 11) // 1990-06-01

		starts, err := d.StartsOfRamadan(0)
		require.NoError(t, err)
		require.Len(t, starts, 2)

		assertYMD(t, starts[0], 1369, 1, 7)
		assertYMD(t, starts[1], 1369, 12, 25)
		for _, s := range starts {
			assert.Equal(t, 1369, s.Year())
			_, month, day, err := h.DateOf(s.Time(), 0)
			require.NoError(t, err)
			assert.Equal(t, 9, month)
			assert.Equal(t, 1, day)
		}
	})

	t.Run("adjustment shifts both starts", func(t *testing.T) {
		starts, err := MustDate(1369, 3, 11).StartsOfRamadan(-1)
		require.NoError(t, err)
		require.Len(t, starts, 2)
		assertYMD(t, starts[0], 1369, 1, 8)
		assertYMD(t, starts[1], 1369, 12, 26)
	})

	t.Run("next start falls in the following year", func(t *testing.T) {
		d := New(time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC))

		starts, err := d.StartsOfRamadan(0)
		require.NoError(t, err)
		require.Len(t, starts, 1)
		assert.True(t, starts[0].Time().Equal(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 1403, starts[0].Year())
	})

	t.Run("adjustment out of range", func(t *testing.T) {
		_, err := MustDate(1369, 3, 11).StartsOfRamadan(3)
		var rangeErr *RangeError
		assert.True(t, errors.As(err, &rangeErr))
	})
}

type stubHijri struct {
	year int
	err  error
}

func (s stubHijri) HijriYearOf(time.Time, int) (int, error) { return s.year, s.err }

func (s stubHijri) ToInstant(year, month, day, _ int) (time.Time, error) {
	if year > calendar.MaxHijriYear {
		return time.Time{}, &calendar.RangeError{Field: "hijri year", Value: year, Min: 1, Max: calendar.MaxHijriYear}
	}
	return calendar.NewTabularHijri(time.UTC).ToInstant(year, month, day, 0)
}

func TestStartsOfRamadan_Collaborator(t *testing.T) {
	t.Run("year lookup failure", func(t *testing.T) {
		_, err := startsOfRamadan(stubHijri{err: errors.New("boom")}, New(azar14), 0)
		assert.EqualError(t, err, "boom")
	})

	t.Run("last supported year returns one start", func(t *testing.T) {
		starts, err := startsOfRamadan(stubHijri{year: calendar.MaxHijriYear}, New(azar14), 0)
		require.NoError(t, err)
		assert.Len(t, starts, 1)
	})
}
