package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the calendar-date format used throughout the API
	DateLayout = "2006-01-02"
	// MonthLayout is the year-month format used by the calendar counts endpoint
	MonthLayout = "2006-01"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for date-shaped strings
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("todo_date", validateDate); err != nil {
		panic(fmt.Sprintf("failed to register todo_date validator: %v", err))
	}
	if err := Validate.RegisterValidation("todo_month", validateMonth); err != nil {
		panic(fmt.Sprintf("failed to register todo_month validator: %v", err))
	}
}

func validateDate(fl validator.FieldLevel) bool {
	return ValidateDate(fl.Field().String()) == nil
}

func validateMonth(fl validator.FieldLevel) bool {
	return ValidateMonth(fl.Field().String()) == nil
}

// ValidateDate checks a YYYY-MM-DD calendar date string
func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateMonth checks a YYYY-MM year-month string
func ValidateMonth(value string) error {
	if _, err := time.Parse(MonthLayout, value); err != nil {
		return fmt.Errorf("invalid month: %s (must be YYYY-MM)", value)
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
