// Package jalaali provides an immutable Jalaali (Persian) date/time value with
// arithmetic, token based formatting and tolerant free-text parsing.
//
// A DateTime stores a single time.Time instant. Every calendar field is derived
// from that instant through a calendar.Converter, so values are safe to share
// between goroutines.
package jalaali

import (
	"time"

	"metargb/jalaali/shared/pkg/calendar"
)

var (
	conv  calendar.Converter      = calendar.Default
	hijri calendar.HijriConverter = calendar.DefaultHijri
)

var (
	minInstant = time.Time{}
	maxInstant = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

var (
	// MinValue is the "no value" sentinel.
	MinValue = DateTime{t: minInstant}
	// MaxValue is the largest representable value.
	MaxValue = DateTime{t: maxInstant}
)

// DateTime is a Jalaali date and time of day.
type DateTime struct {
	t time.Time
}

// New wraps an existing instant.
func New(t time.Time) DateTime {
	return DateTime{t: t}
}

// FromNullable wraps t, or returns MinValue when t is nil.
func FromNullable(t *time.Time) DateTime {
	if t == nil {
		return MinValue
	}
	return DateTime{t: *t}
}

// Date builds a value from Jalaali fields. The optional clock arguments are
// hour, minute, second and millisecond, in that order.
func Date(year, month, day int, clock ...int) (DateTime, error) {
	f := calendar.Fields{Year: year, Month: month, Day: day}
	parts := []*int{&f.Hour, &f.Minute, &f.Second, &f.Millisecond}
	for i, v := range clock {
		if i >= len(parts) {
			break
		}
		*parts[i] = v
	}

	t, err := conv.ToInstant(f)
	if err != nil {
		return MinValue, err
	}
	return DateTime{t: t}, nil
}

// MustDate is like Date but panics on invalid fields.
func MustDate(year, month, day int, clock ...int) DateTime {
	d, err := Date(year, month, day, clock...)
	if err != nil {
		panic(err)
	}
	return d
}

func Now() DateTime {
	return DateTime{t: time.Now()}
}

func Today() DateTime {
	return Now().DateOnly()
}

func (d DateTime) isMin() bool {
	return !d.t.After(minInstant)
}

func (d DateTime) fields() calendar.Fields {
	if d.isMin() {
		return calendar.Fields{
			Year:  minInstant.Year(),
			Month: int(minInstant.Month()),
			Day:   minInstant.Day(),
			Hour:  12,
		}
	}
	return conv.FieldsOf(d.t)
}

func (d DateTime) Year() int        { return d.fields().Year }
func (d DateTime) Month() int       { return d.fields().Month }
func (d DateTime) Day() int         { return d.fields().Day }
func (d DateTime) Hour() int        { return d.fields().Hour }
func (d DateTime) Minute() int      { return d.fields().Minute }
func (d DateTime) Second() int      { return d.fields().Second }
func (d DateTime) Millisecond() int { return d.fields().Millisecond }

// ShortHour is the hour on a 12-hour clock. Hour 0 stays 0.
func (d DateTime) ShortHour() int {
	return shortHour(d.Hour())
}

// ShortYear is the year modulo 100.
func (d DateTime) ShortYear() int {
	return d.Year() % 100
}

func (d DateTime) MonthName() string {
	return MonthName(d.Month())
}

// Weekday uses the Gregorian numbering, Sunday = 0.
func (d DateTime) Weekday() time.Weekday {
	if d.isMin() {
		return 0
	}
	return conv.DayOfWeek(d.t)
}

// JalaaliWeekday uses the Jalaali numbering, Saturday = 0.
func (d DateTime) JalaaliWeekday() Weekday {
	if d.isMin() {
		return Saturday
	}
	return weekdayOf(int(conv.DayOfWeek(d.t)))
}

// WeekdayName returns the Persian name of the day of week.
func (d DateTime) WeekdayName() string {
	return weekdayOf(int(d.Weekday())).String()
}

// ShortWeekdayName returns the one-letter Persian name of the day of week.
func (d DateTime) ShortWeekdayName() string {
	return weekdayOf(int(d.Weekday())).Initial()
}

// WeekOfYear counts weeks starting on Saturday from 1 Farvardin.
func (d DateTime) WeekOfYear() int {
	if d.isMin() {
		return 0
	}
	return conv.WeekOfYear(d.t, time.Saturday)
}

func (d DateTime) WeekOfMonth() int {
	if d.isMin() {
		return 0
	}
	first := d.AddDays(1 - d.Day())
	return d.WeekOfYear() - first.WeekOfYear() + 1
}

func (d DateTime) DayOfYear() int {
	if d.isMin() {
		return 0
	}
	return conv.DayOfYear(d.t)
}

func (d DateTime) IsLeapYear() bool {
	return !d.isMin() && conv.IsLeapYear(d.Year())
}

// MonthDays is the number of days in the value's month.
func (d DateTime) MonthDays() int {
	f := d.fields()
	switch {
	case f.Month <= 6:
		return 31
	case f.Month <= 11:
		return 30
	case d.IsLeapYear():
		return 30
	default:
		return 29
	}
}

// AMPM returns the Persian before/after noon label.
func (d DateTime) AMPM() string {
	if d.isMin() || d.t.Hour() < 12 {
		return amLabel
	}
	return pmLabel
}

// TimeOfDay is the elapsed time since midnight.
func (d DateTime) TimeOfDay() time.Duration {
	return time.Duration(d.t.Hour())*time.Hour +
		time.Duration(d.t.Minute())*time.Minute +
		time.Duration(d.t.Second())*time.Second +
		time.Duration(d.t.Nanosecond()/int(time.Millisecond))*time.Millisecond
}

// Time returns the wrapped instant.
func (d DateTime) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the MinValue sentinel.
func (d DateTime) IsZero() bool {
	return d.isMin()
}

// Compare orders by instant: -1 if d is before o, +1 if after, 0 otherwise.
func (d DateTime) Compare(o DateTime) int {
	return d.t.Compare(o.t)
}

func (d DateTime) CompareTime(t time.Time) int {
	return d.t.Compare(t)
}

func (d DateTime) Before(o DateTime) bool { return d.t.Before(o.t) }
func (d DateTime) After(o DateTime) bool  { return d.t.After(o.t) }

// Equal compares field by field from year down to millisecond.
func (d DateTime) Equal(o DateTime) bool {
	return d.fields() == o.fields()
}

// EqualInstant compares the wrapped instants.
func (d DateTime) EqualInstant(o DateTime) bool {
	return d.t.Equal(o.t)
}

func (d DateTime) EqualTime(t time.Time) bool {
	return d.t.Equal(t)
}

// ShortDateInt encodes the date as YYYYMMDD.
func (d DateTime) ShortDateInt() int {
	f := d.fields()
	return f.Year*10000 + f.Month*100 + f.Day
}

// LongDateTimeInt encodes the value as YYYYMMDDHHmmSSfff.
func (d DateTime) LongDateTimeInt() int64 {
	f := d.fields()
	return int64(f.Year)*10000000000000 +
		int64(f.Month)*100000000000 +
		int64(f.Day)*1000000000 +
		int64(f.Hour)*10000000 +
		int64(f.Minute)*100000 +
		int64(f.Second)*1000 +
		int64(f.Millisecond)
}

// TimeInt encodes the clock as HHmmSS.
func (d DateTime) TimeInt() int {
	f := d.fields()
	return f.Hour*10000 + f.Minute*100 + f.Second
}

// Bool reports whether d holds a value other than MinValue.
func (d DateTime) Bool() bool {
	return !d.isMin()
}

func (d DateTime) Float64() float64 {
	return float64(d.LongDateTimeInt())
}

var sqlMinDateTime = time.Date(1753, time.January, 1, 0, 0, 0, 0, time.UTC)

// IsSQLDateTime reports whether t fits the SQL Server datetime range.
func IsSQLDateTime(t time.Time) bool {
	return !t.Before(sqlMinDateTime)
}
