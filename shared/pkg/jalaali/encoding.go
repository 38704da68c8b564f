package jalaali

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"metargb/jalaali/shared/pkg/calendar"
)

// TextLayout is the textual form used by MarshalText and MarshalJSON.
// Its year is unpadded, so it only reads back for years from MinTextYear on.
const TextLayout = "yyyy/MM/dd HH:mm:ss:fff"

// MinTextYear is the first year Parse does not read as a two-digit short year.
const MinTextYear = 100

// MarshalText renders d with TextLayout; MinValue renders as empty text.
// Years below MinTextYear yield a *RangeError.
func (d DateTime) MarshalText() ([]byte, error) {
	if d.isMin() {
		return []byte{}, nil
	}
	if y := d.Year(); y < MinTextYear {
		return nil, &RangeError{Field: "year", Value: y, Min: MinTextYear, Max: calendar.MaxYear}
	}
	return []byte(d.Format(TextLayout)), nil
}

func (d *DateTime) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = MinValue
		return nil
	}
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = MinValue
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ConversionError{From: "json " + string(data), To: "jalaali.DateTime"}
	}
	return d.UnmarshalText([]byte(s))
}

// Value stores the wrapped instant; MinValue is stored as NULL.
func (d DateTime) Value() (driver.Value, error) {
	if d.isMin() {
		return nil, nil
	}
	return d.t, nil
}

// Scan accepts time.Time, textual dates, compact int64 encodings and NULL.
func (d *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = MinValue
		return nil
	case time.Time:
		*d = New(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case int64:
		var (
			parsed DateTime
			err    error
		)
		if v >= 10000000 && v <= 99999999 {
			parsed, err = ParseInt(int(v))
		} else {
			parsed, err = ParseInt64(v)
		}
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return &ConversionError{From: fmt.Sprintf("%T", src), To: "jalaali.DateTime"}
}
