package jalaali

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"metargb/jalaali/shared/pkg/helpers"
)

// DefaultSeparatorPattern matches the date separators accepted by Parse.
const DefaultSeparatorPattern = `\/|-`

// MatchTimeout bounds every regular expression run made while parsing,
// including runs of caller supplied separator patterns.
const MatchTimeout = 100 * time.Millisecond

func compilePattern(expr string, opts regexp2.RegexOptions) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

func mustCompile(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re, err := compilePattern(expr, opts)
	if err != nil {
		panic(err)
	}
	return re
}

var (
	defaultSeparator = mustCompile(DefaultSeparatorPattern, regexp2.None)
	whitespaceRun    = mustCompile(`(?:&nbsp;|\s)+`, regexp2.None)
	colonPadding     = mustCompile(`-*:-*`, regexp2.None)

	hourPattern        = mustCompile(`(?<=-)\d{1,2}(?=:)`, regexp2.IgnoreCase)
	minutePattern      = mustCompile(`(?<=-\d{1,2}:)\d{1,2}(?=:?)`, regexp2.IgnoreCase)
	secondPattern      = mustCompile(`(?<=-\d{1,2}:\d{1,2}:)\d{1,2}(?=(\d{1,2})?)`, regexp2.IgnoreCase)
	millisecondPattern = mustCompile(`(?<=-\d{1,2}:\d{1,2}:\d{1,2}:)\d{1,4}(?=(\d{1,2})?)`, regexp2.IgnoreCase)

	// The first month pattern refuses a day group directly followed by a
	// time block; the second accepts it.
	monthPattern      = mustCompile(`(?<=\d{2,4}-)\d{1,2}(?=-\d{1,2}-\d{1,2}(?!-\d{1,2}:))`, regexp2.IgnoreCase)
	monthPatternLoose = mustCompile(`(?<=\d{2,4}-)\d{1,2}(?=-\d{1,2}[^:])`, regexp2.IgnoreCase)
	dayPattern        = mustCompile(`(?<=\d{2,4}-\d{1,2}-)\d{1,2}(?=-)`, regexp2.IgnoreCase)
	yearPattern       = mustCompile(`(?<=-)\d{2,4}(?=-\d{1,2}-\d{1,2})`, regexp2.IgnoreCase)

	namedDayPattern       = mustCompile(`(?<=-)\d{1,2}(?=-)`, regexp2.IgnoreCase)
	namedYearPattern      = mustCompile(`(?<=-)\d{4}(?=-)`, regexp2.IgnoreCase)
	namedYearPatternLoose = mustCompile(`(?<=-)\d{2,4}(?=-)`, regexp2.IgnoreCase)
)

type meridiem int

const (
	meridiemNone meridiem = iota
	meridiemAM
	meridiemPM
)

// Result is the outcome of ParseResult.
type Result struct {
	Value DateTime
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Parse reads a Jalaali date, optionally followed by a time of day, from
// loosely formatted text such as "1393/09/14", "14 آذر 1393" or
// "۱۳۹۳-۰۹-۱۴ ۰۱:۰۵ ب.ظ". separatorPattern overrides DefaultSeparatorPattern.
//
// Missing components yield a *FormatError; fields outside the calendar yield
// a *RangeError.
func Parse(text string, separatorPattern ...string) (DateTime, error) {
	sep := defaultSeparator
	if len(separatorPattern) > 0 && separatorPattern[0] != "" {
		re, err := compilePattern(separatorPattern[0], regexp2.None)
		if err != nil {
			return MinValue, &FormatError{Input: text, Reason: "invalid separator pattern: " + err.Error()}
		}
		sep = re
	}

	p, err := newParseState(text, sep)
	if err != nil {
		return MinValue, err
	}
	p.readTime()
	if p.hasSeparator {
		p.readSeparatedDate()
	} else if err := p.readNamedDate(); err != nil {
		return MinValue, err
	}
	if p.err != nil {
		return MinValue, p.err
	}
	return p.build()
}

// ParseResult is Parse returning a single tagged value.
func ParseResult(text string, separatorPattern ...string) Result {
	d, err := Parse(text, separatorPattern...)
	return Result{Value: d, Err: err}
}

// TryParse reports success instead of an error. On failure it returns MinValue.
func TryParse(text string, separatorPattern ...string) (DateTime, bool) {
	if text == "" {
		return MinValue, false
	}
	r := ParseResult(text, separatorPattern...)
	if !r.OK() {
		return MinValue, false
	}
	return r.Value, true
}

// parseState keeps the first regex failure in err; later matches on a
// failed state return "" and leave text unchanged.
type parseState struct {
	input        string
	text         string
	hasSeparator bool
	meridiem     meridiem
	err          error

	year, month, day                  string
	hour, minute, second, millisecond string
}

func newParseState(input string, sep *regexp2.Regexp) (*parseState, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &FormatError{Input: input, Reason: "empty input"}
	}

	p := &parseState{
		input:       input,
		text:        helpers.NormalizeDigits(input),
		hour:        "0",
		minute:      "0",
		second:      "0",
		millisecond: "0",
	}

	hasSeparator, err := sep.MatchString(p.text)
	if err != nil {
		return nil, p.fail(err)
	}
	p.hasSeparator = hasSeparator

	p.replace(whitespaceRun, "-")
	p.text = strings.ReplaceAll(p.text, `\`, "-")
	p.replace(sep, "-")
	if p.err != nil {
		return nil, p.err
	}
	p.text = "-" + p.text + "-"

	switch {
	case strings.Contains(p.text, amLabel):
		p.meridiem = meridiemAM
	case strings.Contains(p.text, pmLabel):
		p.meridiem = meridiemPM
	}
	return p, nil
}

func (p *parseState) fail(err error) error {
	if p.err == nil {
		p.err = &FormatError{Input: p.input, Reason: "pattern match failed: " + err.Error()}
	}
	return p.err
}

// find returns the first match of re in the working text.
func (p *parseState) find(re *regexp2.Regexp) string {
	if p.err != nil {
		return ""
	}
	m, err := re.FindStringMatch(p.text)
	if err != nil {
		p.fail(err)
		return ""
	}
	if m == nil {
		return ""
	}
	return m.String()
}

// replace rewrites every match of re in the working text.
func (p *parseState) replace(re *regexp2.Regexp, repl string) {
	if p.err != nil {
		return
	}
	out, err := re.Replace(p.text, repl, -1, -1)
	if err != nil {
		p.fail(err)
		return
	}
	p.text = out
}

func (p *parseState) readTime() {
	if !strings.Contains(p.text, ":") {
		return
	}

	p.replace(colonPadding, ":")
	p.hour = p.find(hourPattern)
	p.minute = p.find(minutePattern)
	if strings.Index(p.text, ":") != strings.LastIndex(p.text, ":") {
		p.second = p.find(secondPattern)
		p.millisecond = p.find(millisecondPattern)
		if p.millisecond == "" {
			p.millisecond = "0"
		}
	}
}

func (p *parseState) readSeparatedDate() {
	p.month = p.find(monthPattern)
	if p.month == "" {
		p.month = p.find(monthPatternLoose)
	}
	p.day = p.find(dayPattern)
	p.year = p.find(yearPattern)
}

func (p *parseState) readNamedDate() error {
	if p.err != nil {
		return p.err
	}
	for m := Farvardin; m <= Esfand; m++ {
		if strings.Contains(p.text, monthNames[m]) {
			p.month = strconv.Itoa(int(m))
			break
		}
	}
	if p.month == "" {
		return &FormatError{Input: p.input, Reason: "month name not found"}
	}

	p.day = p.find(namedDayPattern)
	if p.err != nil {
		return p.err
	}
	if p.day == "" {
		return &FormatError{Input: p.input, Reason: "day not found"}
	}
	// Drop the day so it cannot be read again as a two-digit year.
	p.replace(mustCompile(`(?<=-)`+p.day+`(?=-)`, regexp2.None), "")

	p.year = p.find(namedYearPattern)
	if p.year == "" {
		p.year = p.find(namedYearPatternLoose)
	}
	if p.err != nil {
		return p.err
	}
	if p.year == "" {
		return &FormatError{Input: p.input, Reason: "year not found"}
	}
	return nil
}

func (p *parseState) build() (DateTime, error) {
	components := []struct {
		name  string
		value string
	}{
		{"year", p.year},
		{"month", p.month},
		{"day", p.day},
		{"hour", p.hour},
		{"minute", p.minute},
		{"second", p.second},
		{"millisecond", p.millisecond},
	}

	values := make([]int, len(components))
	for i, c := range components {
		if c.value == "" {
			return MinValue, &FormatError{Input: p.input, Reason: c.name + " not found"}
		}
		n, err := strconv.Atoi(c.value)
		if err != nil {
			return MinValue, &FormatError{Input: p.input, Reason: "invalid " + c.name + ": " + c.value}
		}
		values[i] = n
	}

	year, month, day := values[0], values[1], values[2]
	hour, minute, second, ms := values[3], values[4], values[5], values[6]

	if year < 100 {
		year += 1300
	}
	// 12 with an AM marker stays 12.
	if p.meridiem == meridiemPM && hour < 12 {
		hour += 12
	}
	return Date(year, month, day, hour, minute, second, ms)
}

// ParseInt decodes an eight digit YYYYMMDD number such as 13920305.
func ParseInt(n int) (DateTime, error) {
	digits := strconv.Itoa(n)
	if len(digits) != 8 {
		return MinValue, &FormatError{Input: digits, Reason: "numeric date must have 8 digits, like 13920101"}
	}
	return Date(n/10000, n/100%100, n%100)
}

// ParseInt64 decodes a seventeen digit YYYYMMDDHHmmSSfff number.
func ParseInt64(n int64) (DateTime, error) {
	digits := strconv.FormatInt(n, 10)
	if len(digits) != 17 {
		return MinValue, &FormatError{Input: digits, Reason: "numeric date time must have 17 digits, like 13961223102232461"}
	}
	return Date(
		int(n/10000000000000),
		int(n/100000000000%100),
		int(n/1000000000%100),
		int(n/10000000%100),
		int(n/100000%100),
		int(n/1000%100),
		int(n%1000),
	)
}

func TryParseInt(n int) (DateTime, bool) {
	d, err := ParseInt(n)
	if err != nil {
		return MinValue, false
	}
	return d, true
}

func TryParseInt64(n int64) (DateTime, bool) {
	d, err := ParseInt64(n)
	if err != nil {
		return MinValue, false
	}
	return d, true
}

var (
	gregorianWeekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	gregorianMonths   = []string{"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december"}
	gregorianMeridiems = []string{"pm", "am"}
	gregorianYear      = mustCompile(`(1[8-9]|[2-9][0-9])\d{2}`, regexp2.IgnoreCase)
)

// IsChristianDate guesses whether text holds a Gregorian date: an English
// weekday or month name, an am/pm marker, or a number from 1800 to 9999.
func IsChristianDate(text string) bool {
	text = strings.ToLower(text)
	for _, words := range [][]string{gregorianWeekdays, gregorianMonths, gregorianMeridiems} {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
	}
	ok, _ := gregorianYear.MatchString(text)
	return ok
}
