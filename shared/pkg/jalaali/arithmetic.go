package jalaali

import (
	"time"

	"metargb/jalaali/shared/pkg/calendar"
)

// AddYears shifts the Jalaali year by n. A day past the end of the target
// month (30 Esfand into a common year) is clamped to the month's last day.
func (d DateTime) AddYears(n int) (DateTime, error) {
	f := d.fields()
	f.Year += n
	return rebuildClamped(f)
}

// AddMonths shifts the Jalaali month by n using field arithmetic.
//
// Offsets above 12 carry whole years and then one more year when the month
// passes 12. Offsets from 1 to 12 never carry. Offsets below -12 carry whole
// years back and then one more only when the month falls below -12. Any month
// these rules leave outside 1..12 is rejected with a RangeError. Use
// AddCalendarMonths for a shift that always carries.
func (d DateTime) AddMonths(n int) (DateTime, error) {
	f := d.fields()
	switch {
	case n > 12:
		f.Year += n / 12
		f.Month += n % 12
		if f.Month > 12 {
			f.Year++
			f.Month -= 12
		}
	case n > 0:
		f.Month += n
	case n < -12:
		f.Year += n / 12
		f.Month += n % 12
		if f.Month < -12 {
			f.Year--
			f.Month += 12
		}
	default:
		f.Month += n
	}
	return rebuildClamped(f)
}

// AddCalendarMonths shifts by n months with full year carry, clamping the day.
func (d DateTime) AddCalendarMonths(n int) DateTime {
	t, err := conv.AddMonths(d.t, n)
	if err != nil {
		if n < 0 {
			return MinValue
		}
		return MaxValue
	}
	return DateTime{t: t}
}

func (d DateTime) AddDays(n int) DateTime {
	return DateTime{t: conv.AddDays(d.t, n)}
}

func (d DateTime) AddHours(n int) DateTime {
	return d.Add(time.Duration(n) * time.Hour)
}

func (d DateTime) AddMinutes(n int) DateTime {
	return d.Add(time.Duration(n) * time.Minute)
}

func (d DateTime) AddSeconds(n int) DateTime {
	return d.Add(time.Duration(n) * time.Second)
}

func (d DateTime) AddMilliseconds(n int) DateTime {
	return d.Add(time.Duration(n) * time.Millisecond)
}

func (d DateTime) Add(dur time.Duration) DateTime {
	return DateTime{t: d.t.Add(dur)}
}

// Sub returns the signed duration d-o.
func (d DateTime) Sub(o DateTime) time.Duration {
	return d.t.Sub(o.t)
}

// SetTime keeps the Jalaali date and replaces the clock.
func (d DateTime) SetTime(hour, minute, second, millisecond int) (DateTime, error) {
	f := d.fields()
	return Date(f.Year, f.Month, f.Day, hour, minute, second, millisecond)
}

// DateOnly drops the time of day.
func (d DateTime) DateOnly() DateTime {
	y, m, day := d.t.Date()
	return DateTime{t: time.Date(y, m, day, 0, 0, 0, 0, d.t.Location())}
}

// FirstDayOfWeek returns the Saturday starting the week that contains d.
func (d DateTime) FirstDayOfWeek() DateTime {
	date := d.DateOnly()
	return date.AddDays(int(Saturday - date.JalaaliWeekday()))
}

// Weekend returns the Friday ending the week that contains d.
func (d DateTime) Weekend() DateTime {
	date := d.DateOnly()
	return date.AddDays(int(Friday - date.JalaaliWeekday()))
}

// LastDayOfMonth returns midnight of the last day of d's month.
func (d DateTime) LastDayOfMonth() (DateTime, error) {
	return Date(d.Year(), d.Month(), d.MonthDays())
}

// LastDayOfYear returns midnight of the last day of Esfand in d's year.
func (d DateTime) LastDayOfYear() (DateTime, error) {
	last := 29
	if d.IsLeapYear() {
		last = 30
	}
	return Date(d.Year(), int(Esfand), last)
}

// MonthDifference is an approximate month distance, |Δmonth + 12·Δyear|.
func (d DateTime) MonthDifference(o DateTime) int {
	diff := (o.Month() - d.Month()) + 12*(o.Year()-d.Year())
	if diff < 0 {
		return -diff
	}
	return diff
}

func rebuildClamped(f calendar.Fields) (DateTime, error) {
	if f.Month >= 1 && f.Month <= 12 && f.Year >= calendar.MinYear && f.Year <= calendar.MaxYear {
		days, err := conv.DaysInMonth(f.Year, f.Month)
		if err != nil {
			return MinValue, err
		}
		if f.Day > days {
			f.Day = days
		}
	}

	t, err := conv.ToInstant(f)
	if err != nil {
		return MinValue, err
	}
	return DateTime{t: t}, nil
}
