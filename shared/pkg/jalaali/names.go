package jalaali

import "strings"

// Month is a Jalaali month number, Farvardin = 1.
type Month int

const (
	Farvardin Month = 1 + iota
	Ordibehesht
	Khordad
	Tir
	Mordad
	Shahrivar
	Mehr
	Aban
	Azar
	Dey
	Bahman
	Esfand
)

var monthNames = [...]string{
	"",
	"فروردین",
	"اردیبهشت",
	"خرداد",
	"تیر",
	"مرداد",
	"شهریور",
	"مهر",
	"آبان",
	"آذر",
	"دی",
	"بهمن",
	"اسفند",
}

// String returns the Persian name of m, or "" when m is not 1..12.
func (m Month) String() string {
	if m < Farvardin || m > Esfand {
		return ""
	}
	return monthNames[m]
}

// MonthName returns the Persian name of month number n.
func MonthName(n int) string {
	return Month(n).String()
}

// MonthNumber converts a Persian month name such as "آذر" to its number.
func MonthNumber(name string) (int, error) {
	name = strings.TrimSpace(name)
	for m := Farvardin; m <= Esfand; m++ {
		if monthNames[m] == name {
			return int(m), nil
		}
	}
	return 0, &FormatError{Input: name, Reason: "unknown month name"}
}

// Weekday is the Jalaali day of week, Saturday = 0.
type Weekday int

const (
	Saturday Weekday = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
)

var weekdayNames = [...]string{"شنبه", "یکشنبه", "دوشنبه", "سه شنبه", "چهارشنبه", "پنج شنبه", "جمعه"}

var weekdayInitials = [...]string{"ش", "ی", "د", "س", "چ", "پ", "ج"}

func (w Weekday) String() string {
	if w < Saturday || w > Friday {
		return ""
	}
	return weekdayNames[w]
}

// Initial returns the one-letter Persian abbreviation of w.
func (w Weekday) Initial() string {
	if w < Saturday || w > Friday {
		return ""
	}
	return weekdayInitials[w]
}

func weekdayOf(wd int) Weekday {
	return Weekday((wd + 1) % 7)
}

const (
	amLabel = "ق.ظ"
	pmLabel = "ب.ظ"
)
