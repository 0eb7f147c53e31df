package utils

import (
	"fmt"
	"strings"
)

// ValidateDealPrices enforces original price > discount price > 0.
func ValidateDealPrices(originalPrice, discountPrice float64) error {
	if discountPrice <= 0 {
		return fmt.Errorf("discount price must be greater than 0")
	}
	if originalPrice <= discountPrice {
		return fmt.Errorf("original price must be greater than discount price")
	}
	return nil
}

// ValidateMinPeople enforces the participant threshold lower bound.
func ValidateMinPeople(minPeople int) error {
	if minPeople < 1 {
		return fmt.Errorf("minimum participants must be at least 1")
	}
	return nil
}

// ValidateRating validates a review rating
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateStringLength validates string length
func ValidateStringLength(str string, min, max int) error {
	length := len(strings.TrimSpace(str))
	if length < min {
		return fmt.Errorf("must be at least %d characters long", min)
	}
	if length > max {
		return fmt.Errorf("must be at most %d characters long", max)
	}
	return nil
}

// SanitizeString removes leading/trailing whitespace and collapses
// internal whitespace runs to single spaces
func SanitizeString(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
