package jalaali

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"metargb/jalaali/shared/pkg/calendar"
)

// DefaultLayout is used when Format receives an empty pattern.
const DefaultLayout = "yyyy/MM/dd HH:mm:ss"

// Tokens sharing a leading letter, longest first.
var formatTokens = map[byte][]string{
	'y': {"yyyy", "yy"},
	'M': {"MMMM", "MM", "M"},
	'd': {"dddd", "dd", "d"},
	'H': {"HH", "H"},
	'h': {"hh", "h"},
	'm': {"mm", "m"},
	's': {"ss", "s"},
	'f': {"fff", "ff", "f"},
	't': {"tt", "t"},
}

// Format renders d using the token pattern:
//
//	yyyy  year              yy    year % 100, two digits
//	MMMM  Persian month     MM/M  month, padded/unpadded
//	dddd  Persian weekday   dd/d  day, padded/unpadded
//	HH/H  24-hour clock     hh/h  12-hour clock
//	mm/m  minute            ss/s  second
//	fff   millisecond       ff    ms/10       f   ms/100
//	tt    ق.ظ or ب.ظ        t     first letter of tt
//
// At each position the longest token wins. Anything else is copied as is.
func (d DateTime) Format(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultLayout
	}

	r := renderer{d: d, f: d.fields()}
	var b strings.Builder
	b.Grow(len(pattern) + 16)

	for i := 0; i < len(pattern); {
		if tok := matchToken(pattern[i:]); tok != "" {
			b.WriteString(r.render(tok))
			i += len(tok)
			continue
		}
		b.WriteByte(pattern[i])
		i++
	}
	return b.String()
}

// String formats d with DefaultLayout.
func (d DateTime) String() string {
	return d.Format(DefaultLayout)
}

func matchToken(s string) string {
	for _, tok := range formatTokens[s[0]] {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

type renderer struct {
	d DateTime
	f calendar.Fields
}

func (r renderer) render(tok string) string {
	f := r.f
	switch tok {
	case "yyyy":
		return strconv.Itoa(f.Year)
	case "yy":
		return pad2(f.Year % 100)
	case "MMMM":
		return MonthName(f.Month)
	case "MM":
		return pad2(f.Month)
	case "M":
		return strconv.Itoa(f.Month)
	case "dddd":
		return r.d.WeekdayName()
	case "dd":
		return pad2(f.Day)
	case "d":
		return strconv.Itoa(f.Day)
	case "HH":
		return pad2(f.Hour)
	case "H":
		return strconv.Itoa(f.Hour)
	case "hh":
		return pad2(shortHour(f.Hour))
	case "h":
		return strconv.Itoa(shortHour(f.Hour))
	case "mm":
		return pad2(f.Minute)
	case "m":
		return strconv.Itoa(f.Minute)
	case "ss":
		return pad2(f.Second)
	case "s":
		return strconv.Itoa(f.Second)
	case "fff":
		return fmt.Sprintf("%03d", f.Millisecond)
	case "ff":
		return pad2(f.Millisecond / 10)
	case "f":
		return strconv.Itoa(f.Millisecond / 100)
	case "tt":
		return r.d.AMPM()
	case "t":
		label := r.d.AMPM()
		_, size := utf8.DecodeRuneInString(label)
		return label[:size]
	}
	return tok
}

func shortHour(h int) int {
	if h > 12 {
		return h - 12
	}
	return h
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ShortDateString renders 1393/09/14.
func (d DateTime) ShortDateString() string {
	f := d.fields()
	return fmt.Sprintf("%04d/%02d/%02d", f.Year, f.Month, f.Day)
}

// LongDateString renders جمعه، 14 آذر 1393.
func (d DateTime) LongDateString() string {
	f := d.fields()
	return fmt.Sprintf("%s، %02d %s %04d", d.WeekdayName(), f.Day, MonthName(f.Month), f.Year)
}

// LongDateTimeString renders جمعه، 14 آذر 1393 ساعت 13:50:27.
func (d DateTime) LongDateTimeString() string {
	f := d.fields()
	return fmt.Sprintf("%s ساعت %02d:%02d:%02d", d.LongDateString(), f.Hour, f.Minute, f.Second)
}

// ShortDateTimeString renders جمعه، 14 آذر 1393 13:50.
func (d DateTime) ShortDateTimeString() string {
	f := d.fields()
	return fmt.Sprintf("%s %02d:%02d", d.LongDateString(), f.Hour, f.Minute)
}

// ShortTimeString renders 01:50 ب.ظ.
func (d DateTime) ShortTimeString() string {
	f := d.fields()
	return fmt.Sprintf("%02d:%02d %s", shortHour(f.Hour), f.Minute, d.AMPM())
}

// LongTimeString renders 13:50:20.
func (d DateTime) LongTimeString() string {
	f := d.fields()
	return fmt.Sprintf("%02d:%02d:%02d", f.Hour, f.Minute, f.Second)
}

// ClockString renders 13:47:40:530.
func (d DateTime) ClockString() string {
	f := d.fields()
	return fmt.Sprintf("%02d:%02d:%02d:%03d", f.Hour, f.Minute, f.Second, f.Millisecond)
}

// LongClockString renders ساعت 01:47:40:530 ب.ظ.
func (d DateTime) LongClockString() string {
	f := d.fields()
	return fmt.Sprintf("ساعت %02d:%02d:%02d:%03d %s", shortHour(f.Hour), f.Minute, f.Second, f.Millisecond, d.AMPM())
}

// ShortClockString renders 01:47:40 ب.ظ.
func (d DateTime) ShortClockString() string {
	f := d.fields()
	return fmt.Sprintf("%02d:%02d:%02d %s", shortHour(f.Hour), f.Minute, f.Second, d.AMPM())
}

// ElapsedSince describes how long before now d happened, e.g. "3 روز قبل".
// Values more than 90 days old are rendered with ShortDateTimeString.
func (d DateTime) ElapsedSince(now time.Time) string {
	elapsed := now.Sub(d.t)
	days := elapsed.Hours() / 24

	switch {
	case days > 90:
		return d.ShortDateTimeString()
	case days > 30:
		return fmt.Sprintf("%.0f ماه قبل", math.Round(days/30))
	case days >= 1:
		return fmt.Sprintf("%.0f روز قبل", math.Round(days))
	case elapsed.Hours() >= 1:
		return fmt.Sprintf("%.0f ساعت قبل", math.Round(elapsed.Hours()))
	}

	minutes := elapsed.Minutes()
	if minutes <= 1 {
		minutes = 1
	}
	return fmt.Sprintf("%.0f دقیقه قبل", math.Round(minutes))
}
