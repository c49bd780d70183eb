package validation

import (
	"fmt"
)

const (
	MinRating = 1
	MaxRating = 10
)

// ValidateRating checks severity and check-in ratings.
func ValidateRating(label string, v int) error {
	if v < MinRating || v > MaxRating {
		return fmt.Errorf("%s must be between %d and %d", label, MinRating, MaxRating)
	}
	return nil
}

// ValidateDateRange expects canonical YYYY-MM-DD dates. An empty end is open.
func ValidateDateRange(start, end string) error {
	if end != "" && start > end {
		return fmt.Errorf("start date must not be after end date")
	}
	return nil
}
