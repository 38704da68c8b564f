package calendar

import (
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Supported Jalaali year range.
const (
	MinYear = 1
	MaxYear = 9378
)

// Fields holds the calendar and clock components of an instant.
type Fields struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Converter maps instants to Jalaali calendar fields and back.
type Converter interface {
	ToInstant(f Fields) (time.Time, error)
	FieldsOf(t time.Time) Fields
	IsLeapYear(year int) bool
	DaysInMonth(year, month int) (int, error)
	DayOfWeek(t time.Time) time.Weekday
	WeekOfYear(t time.Time, firstDay time.Weekday) int
	DayOfYear(t time.Time) int
	AddYears(t time.Time, years int) (time.Time, error)
	AddMonths(t time.Time, months int) (time.Time, error)
	AddDays(t time.Time, days int) time.Time
}

// Persian is a Converter backed by go-persian-calendar.
type Persian struct {
	loc *time.Location
}

// Default is the converter used by the jalaali package. It builds instants in UTC.
var Default Converter = NewPersian(time.UTC)

// NewPersian creates a converter that builds instants in loc (UTC when nil).
func NewPersian(loc *time.Location) *Persian {
	if loc == nil {
		loc = time.UTC
	}
	return &Persian{loc: loc}
}

// ToInstant validates f and returns the matching instant.
func (p *Persian) ToInstant(f Fields) (time.Time, error) {
	if err := p.validate(f); err != nil {
		return time.Time{}, err
	}

	pt := ptime.Date(f.Year, ptime.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second,
		f.Millisecond*int(time.Millisecond), p.loc)
	return pt.Time(), nil
}

// FieldsOf returns the Jalaali fields of t in t's own location.
func (p *Persian) FieldsOf(t time.Time) Fields {
	pt := ptime.New(t)
	return Fields{
		Year:        pt.Year(),
		Month:       int(pt.Month()),
		Day:         pt.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
	}
}

func (p *Persian) IsLeapYear(year int) bool {
	return ptime.Date(year, ptime.Esfand, 1, 12, 0, 0, 0, p.loc).IsLeap()
}

// DaysInMonth returns 31 for months 1-6, 30 for 7-11 and 29 or 30 for Esfand.
func (p *Persian) DaysInMonth(year, month int) (int, error) {
	if err := checkRange("month", month, 1, 12); err != nil {
		return 0, err
	}
	switch {
	case month <= 6:
		return 31, nil
	case month <= 11:
		return 30, nil
	case p.IsLeapYear(year):
		return 30, nil
	default:
		return 29, nil
	}
}

func (p *Persian) DayOfWeek(t time.Time) time.Weekday {
	return t.Weekday()
}

// DayOfYear returns the 1-based ordinal of t within its Jalaali year.
func (p *Persian) DayOfYear(t time.Time) int {
	f := p.FieldsOf(t)
	if f.Month <= 6 {
		return (f.Month-1)*31 + f.Day
	}
	return 186 + (f.Month-7)*30 + f.Day
}

// WeekOfYear numbers weeks from the first day of the year, each week starting on firstDay.
func (p *Persian) WeekOfYear(t time.Time, firstDay time.Weekday) int {
	dayOfYear := p.DayOfYear(t) - 1
	dayForFirst := int(p.DayOfWeek(t)) - dayOfYear%7
	offset := (dayForFirst - int(firstDay) + 14) % 7
	return (dayOfYear+offset)/7 + 1
}

// AddYears shifts the Jalaali year, clamping the day to the target month length.
func (p *Persian) AddYears(t time.Time, years int) (time.Time, error) {
	f := p.FieldsOf(t)
	f.Year += years
	return p.clampAndBuild(f, t)
}

// AddMonths shifts by whole months with full year carry, clamping the day.
func (p *Persian) AddMonths(t time.Time, months int) (time.Time, error) {
	f := p.FieldsOf(t)
	i := f.Month - 1 + months
	if i >= 0 {
		f.Month = i%12 + 1
		f.Year += i / 12
	} else {
		f.Month = 12 + (i+1)%12
		f.Year += (i - 11) / 12
	}
	return p.clampAndBuild(f, t)
}

func (p *Persian) AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func (p *Persian) clampAndBuild(f Fields, t time.Time) (time.Time, error) {
	if err := checkRange("year", f.Year, MinYear, MaxYear); err != nil {
		return time.Time{}, err
	}
	days, err := p.DaysInMonth(f.Year, f.Month)
	if err != nil {
		return time.Time{}, err
	}
	if f.Day > days {
		f.Day = days
	}

	pt := ptime.Date(f.Year, ptime.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second,
		t.Nanosecond(), t.Location())
	return pt.Time(), nil
}

func (p *Persian) validate(f Fields) error {
	if err := checkRange("year", f.Year, MinYear, MaxYear); err != nil {
		return err
	}
	days, err := p.DaysInMonth(f.Year, f.Month)
	if err != nil {
		return err
	}
	checks := []struct {
		field    string
		value    int
		min, max int
	}{
		{"day", f.Day, 1, days},
		{"hour", f.Hour, 0, 23},
		{"minute", f.Minute, 0, 59},
		{"second", f.Second, 0, 59},
		{"millisecond", f.Millisecond, 0, 999},
	}
	for _, c := range checks {
		if err := checkRange(c.field, c.value, c.min, c.max); err != nil {
			return err
		}
	}
	return nil
}
