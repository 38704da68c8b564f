package jalaali

import "metargb/jalaali/shared/pkg/calendar"

const ramadan = 9

// StartsOfRamadan returns the first day of Ramadan for the Hijri year that
// contains d and, when it begins in the same Jalaali year, for the next Hijri
// year too. A Jalaali year can hold two Ramadan starts, so up to two values
// are returned. hijriAdjustment shifts the Hijri calendar by -2..2 days.
func (d DateTime) StartsOfRamadan(hijriAdjustment int) ([]DateTime, error) {
	return startsOfRamadan(hijri, d, hijriAdjustment)
}

func startsOfRamadan(h calendar.HijriConverter, d DateTime, adjustment int) ([]DateTime, error) {
	year, err := h.HijriYearOf(d.t, adjustment)
	if err != nil {
		return nil, err
	}

	t, err := h.ToInstant(year, ramadan, 1, adjustment)
	if err != nil {
		return nil, err
	}
	first := New(t)
	result := []DateTime{first}

	t, err = h.ToInstant(year+1, ramadan, 1, adjustment)
	if err != nil {
		return result, nil
	}
	if next := New(t); next.Year() == first.Year() {
		result = append(result, next)
	}
	return result, nil
}
