package jalaali

import (
	"fmt"

	"metargb/jalaali/shared/pkg/calendar"
)

// RangeError is returned when a field is outside the calendar's valid range.
type RangeError = calendar.RangeError

// FormatError is returned when text does not match any recognized date grammar.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("jalaali: cannot parse %q: %s", e.Input, e.Reason)
}

// ConversionError is returned when a value cannot be converted to or from the requested type.
type ConversionError struct {
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("jalaali: conversion from %s to %s is not supported", e.From, e.To)
}
