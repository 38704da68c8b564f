package helpers

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground validator with date request rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a new custom validator with the date rules registered
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("persian_num", validatePersianNum)
	v.RegisterValidation("separator_pattern", validateSeparatorPattern)
	v.RegisterValidation("format_pattern", validateFormatPattern)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

var persianNumRegex = regexp.MustCompile(`^[۰-۹0-9]+$`)

// validatePersianNum accepts Persian, Arabic or Latin digits only
func validatePersianNum(fl validator.FieldLevel) bool {
	value := NormalizeDigits(strings.TrimSpace(fl.Field().String()))
	return persianNumRegex.MatchString(value)
}

// validateSeparatorPattern checks that the value compiles as a date separator regex.
// An empty value means the default separator.
func validateSeparatorPattern(fl validator.FieldLevel) bool {
	pattern := fl.Field().String()
	if pattern == "" {
		return true
	}
	_, err := regexp2.Compile(pattern, regexp2.None)
	return err == nil
}

// formatTokenRegex matches any single-letter prefix of a format token
var formatTokenRegex = regexp.MustCompile(`[yMdHhmsft]`)

// validateFormatPattern requires at least one format token in the value
func validateFormatPattern(fl validator.FieldLevel) bool {
	return formatTokenRegex.MatchString(fl.Field().String())
}
