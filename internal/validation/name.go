package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateRequired checks a required free-text field such as a medication name or symptom.
func ValidateRequired(label, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return fmt.Errorf("%s is required", label)
	}

	if len(trimmed) > max {
		return fmt.Errorf("%s is too long (max %d characters)", label, max)
	}

	return nil
}

// ValidateOptional only bounds the length.
func ValidateOptional(label, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%s is too long (max %d characters)", label, max)
	}
	return nil
}

var errEmptyChoice = errors.New("value is required")

// ValidateChoice accepts value when it is one of allowed. Empty is allowed
// only when optional is set.
func ValidateChoice(label, value string, allowed []string, optional bool) error {
	if value == "" {
		if optional {
			return nil
		}
		return fmt.Errorf("%s: %w", label, errEmptyChoice)
	}

	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	return fmt.Errorf("%s must be one of: %s", label, strings.Join(allowed, ", "))
}
