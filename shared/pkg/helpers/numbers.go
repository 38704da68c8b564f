package helpers

import (
	"strconv"
	"strings"
)

// digitReplacer maps Persian and Arabic-Indic digits to Latin, drops thousands
// separators and folds the Arabic yeh/kaf into their Persian forms.
var digitReplacer = strings.NewReplacer(
	// Persian digits: ۰۱۲۳۴۵۶۷۸۹
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	// Arabic digits: ٠١٢٣٤٥٦٧٨٩
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	",", "", "٬", "",
	"ي", "ی", "ك", "ک",
)

// NormalizeDigits converts Persian/Arabic numerals to Latin and Arabic look-alike
// letters to Persian. Applying it twice gives the same result as once.
func NormalizeDigits(input string) string {
	return digitReplacer.Replace(input)
}

// ParseFloat parses a string to float64 after normalizing Persian numbers
func ParseFloat(s string) (float64, error) {
	normalized := NormalizeDigits(strings.TrimSpace(s))
	return strconv.ParseFloat(normalized, 64)
}

// ParseInt parses a string to int64 after normalizing Persian numbers
func ParseInt(s string) (int64, error) {
	normalized := NormalizeDigits(strings.TrimSpace(s))
	return strconv.ParseInt(normalized, 10, 64)
}
