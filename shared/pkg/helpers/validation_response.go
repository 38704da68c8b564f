package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse represents the validation error response format
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// LocaleTranslations holds error message translations for different locales
type LocaleTranslations struct {
	Required         string
	Min              string
	Max              string
	OneOf            string
	PersianNum       string
	SeparatorPattern string
	FormatPattern    string
	Invalid          string
}

var translations = map[string]LocaleTranslations{
	"en": {
		Required:         "The %s field is required",
		Min:              "The %s field must be at least %s",
		Max:              "The %s field must not exceed %s",
		OneOf:            "The %s field must be one of: %s",
		PersianNum:       "The %s field must contain only digits",
		SeparatorPattern: "The %s field must be a valid separator pattern",
		FormatPattern:    "The %s field must contain at least one date format token",
		Invalid:          "The %s field is invalid",
	},
	"fa": {
		Required:         "فیلد %s الزامی است",
		Min:              "فیلد %s باید حداقل %s باشد",
		Max:              "فیلد %s نباید بیشتر از %s باشد",
		OneOf:            "فیلد %s باید یکی از موارد زیر باشد: %s",
		PersianNum:       "فیلد %s باید فقط شامل اعداد باشد",
		SeparatorPattern: "فیلد %s باید یک الگوی جداکننده معتبر باشد",
		FormatPattern:    "فیلد %s باید حداقل یک نشانه قالب تاریخ داشته باشد",
		Invalid:          "فیلد %s نامعتبر است",
	},
}

// GetDefaultLocale returns the default locale
func GetDefaultLocale() string {
	return "en"
}

// GetLocaleTranslations returns translations for a given locale, or default locale if not found
func GetLocaleTranslations(locale string) LocaleTranslations {
	if t, ok := translations[locale]; ok {
		return t
	}
	return translations[GetDefaultLocale()]
}

// LocaleFromRequest picks "fa" or "en" from the Accept-Language header
func LocaleFromRequest(r *http.Request) string {
	lang := strings.ToLower(r.Header.Get("Accept-Language"))
	if strings.HasPrefix(lang, "fa") {
		return "fa"
	}
	return GetDefaultLocale()
}

// FormatValidationError formats a validator.FieldError into a localized error message
func FormatValidationError(fe validator.FieldError, locale string) string {
	t := GetLocaleTranslations(locale)
	fieldName := getFieldName(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(t.Required, fieldName)
	case "min":
		return fmt.Sprintf(t.Min, fieldName, fe.Param())
	case "max":
		return fmt.Sprintf(t.Max, fieldName, fe.Param())
	case "oneof":
		return fmt.Sprintf(t.OneOf, fieldName, fe.Param())
	case "persian_num":
		return fmt.Sprintf(t.PersianNum, fieldName)
	case "separator_pattern":
		return fmt.Sprintf(t.SeparatorPattern, fieldName)
	case "format_pattern":
		return fmt.Sprintf(t.FormatPattern, fieldName)
	default:
		return fmt.Sprintf(t.Invalid, fieldName)
	}
}

func getFieldName(fe validator.FieldError) string {
	return strings.ReplaceAll(strings.ToLower(fe.Field()), "_", " ")
}

// WriteValidationErrorResponse writes a validation error response in the specified format
// It accepts validator.ValidationErrors and formats them according to the locale
func WriteValidationErrorResponse(w http.ResponseWriter, validationErrors validator.ValidationErrors, locale string) {
	errors := make(map[string]string)
	var firstMessage string

	for i, err := range validationErrors {
		errorMessage := FormatValidationError(err, locale)
		errors[strings.ToLower(err.Field())] = errorMessage

		// First error message becomes the main message
		if i == 0 {
			firstMessage = errorMessage
		}
	}

	writeValidationResponse(w, ValidationErrorResponse{Message: firstMessage, Errors: errors})
}

// WriteValidationErrorResponseFromMap writes a validation error response from a map of field errors
func WriteValidationErrorResponseFromMap(w http.ResponseWriter, fieldErrors map[string]string, locale string) {
	message := fmt.Sprintf(GetLocaleTranslations(locale).Invalid, "")
	for field, msg := range fieldErrors {
		message = msg
		if msg == "" {
			message = fmt.Sprintf(GetLocaleTranslations(locale).Invalid, field)
		}
		break
	}
	if fieldErrors == nil {
		fieldErrors = make(map[string]string)
	}

	writeValidationResponse(w, ValidationErrorResponse{Message: message, Errors: fieldErrors})
}

// WriteValidationErrorResponseFromString writes a validation error response from a single error message
func WriteValidationErrorResponseFromString(w http.ResponseWriter, message string, locale string) {
	if message == "" {
		message = fmt.Sprintf(GetLocaleTranslations(locale).Invalid, "")
	}
	writeValidationResponse(w, ValidationErrorResponse{Message: message, Errors: make(map[string]string)})
}

func writeValidationResponse(w http.ResponseWriter, response ValidationErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(response)
}
