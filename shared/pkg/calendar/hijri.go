package calendar

import "time"

// HijriConverter maps instants to Hijri years and Hijri dates to instants.
// The adjustment shifts the calendar by whole days to follow moon sighting.
type HijriConverter interface {
	HijriYearOf(t time.Time, adjustment int) (int, error)
	ToInstant(year, month, day, adjustment int) (time.Time, error)
}

const (
	MinHijriYear       = 1
	MaxHijriYear       = 9666
	MinHijriAdjustment = -2
	MaxHijriAdjustment = 2

	// Days from 0001-01-01 to the Hijri epoch, and days in a 30-year cycle.
	hijriEpochDays = 227013
	hijriCycleDays = 10631

	// Days from 0001-01-01 to 1970-01-01.
	unixEpochDays = 719162
)

// Cumulative day counts before each Hijri month.
var hijriMonthDays = [13]int{0, 30, 59, 89, 118, 148, 177, 207, 236, 266, 295, 325, 355}

// TabularHijri is the arithmetic Hijri calendar with the 11-leap-years-in-30 cycle.
type TabularHijri struct {
	loc *time.Location
}

// DefaultHijri builds instants in UTC.
var DefaultHijri HijriConverter = NewTabularHijri(time.UTC)

func NewTabularHijri(loc *time.Location) *TabularHijri {
	if loc == nil {
		loc = time.UTC
	}
	return &TabularHijri{loc: loc}
}

// HijriYearOf returns the Hijri year containing the civil date of t.
func (h *TabularHijri) HijriYearOf(t time.Time, adjustment int) (int, error) {
	if err := checkRange("hijri adjustment", adjustment, MinHijriAdjustment, MaxHijriAdjustment); err != nil {
		return 0, err
	}

	numDays := absoluteDays(t) + 1 + int64(adjustment)
	year := int(((numDays-hijriEpochDays)*30)/hijriCycleDays) + 1
	daysToYear := daysUpToHijriYear(year)
	daysInYear := int64(hijriDaysInYear(year))

	switch {
	case numDays < daysToYear:
		year--
	case numDays == daysToYear:
		year--
	case numDays > daysToYear+daysInYear:
		year++
	}
	return year, nil
}

// ToInstant returns midnight of the given Hijri date in the converter's location.
func (h *TabularHijri) ToInstant(year, month, day, adjustment int) (time.Time, error) {
	if err := checkRange("hijri adjustment", adjustment, MinHijriAdjustment, MaxHijriAdjustment); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("hijri year", year, MinHijriYear, MaxHijriYear); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("hijri month", month, 1, 12); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("hijri day", day, 1, hijriDaysInMonth(year, month)); err != nil {
		return time.Time{}, err
	}

	abs := daysUpToHijriYear(year) + int64(hijriMonthDays[month-1]) + int64(day) - 1 - int64(adjustment)
	civil := time.Unix((abs-unixEpochDays)*86400, 0).UTC()
	return time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, h.loc), nil
}

// DateOf returns the Hijri year, month and day of the civil date of t.
func (h *TabularHijri) DateOf(t time.Time, adjustment int) (year, month, day int, err error) {
	year, err = h.HijriYearOf(t, adjustment)
	if err != nil {
		return 0, 0, 0, err
	}

	dayOfYear := int(absoluteDays(t) + 1 + int64(adjustment) - daysUpToHijriYear(year))
	month = 1
	for month <= 12 && dayOfYear > hijriMonthDays[month-1] {
		month++
	}
	month--
	day = dayOfYear - hijriMonthDays[month-1]
	return year, month, day, nil
}

// IsHijriLeapYear reports whether Dhu al-Hijjah has 30 days in year.
func IsHijriLeapYear(year int) bool {
	return (year*11+14)%30 < 11
}

func hijriDaysInYear(year int) int {
	if IsHijriLeapYear(year) {
		return 355
	}
	return 354
}

func hijriDaysInMonth(year, month int) int {
	if month == 12 {
		if IsHijriLeapYear(year) {
			return 30
		}
		return 29
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

// daysUpToHijriYear returns the absolute day number just before year starts.
func daysUpToHijriYear(year int) int64 {
	cycleYears := ((year - 1) / 30) * 30
	days := int64(cycleYears)*hijriCycleDays/30 + hijriEpochDays
	for left := year - cycleYears - 1; left > 0; left-- {
		days += int64(hijriDaysInYear(left))
	}
	return days
}

// absoluteDays counts days from 0001-01-01 to the civil date of t.
func absoluteDays(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix()/86400 + unixEpochDays
}
