package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
	usPostalPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	caPostalPattern = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`)
)

const minPhoneDigits = 10

// Result is the outcome of validating one item or address.
type Result struct {
	Valid  bool
	Errors map[string]string
	// order keeps fields in check order so the first failure is deterministic.
	order []string
}

func newResult() Result {
	return Result{Valid: true, Errors: map[string]string{}}
}

func (r *Result) fail(field, message string) {
	if _, exists := r.Errors[field]; exists {
		return
	}
	r.Valid = false
	r.Errors[field] = message
	r.order = append(r.order, field)
}

// First returns the first failing field and its message.
func (r Result) First() (string, string) {
	if len(r.order) == 0 {
		return "", ""
	}
	return r.order[0], r.Errors[r.order[0]]
}

// Range bounds a numeric value; nil bounds are open.
type Range struct {
	Min *float64
	Max *float64
}

func AtLeast(min float64) Range {
	return Range{Min: &min}
}

func Between(min, max float64) Range {
	return Range{Min: &min, Max: &max}
}

func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsValidNumber requires a finite number within bounds; NaN and Inf are rejected.
func IsValidNumber(value string, bounds Range) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	if bounds.Min != nil && n < *bounds.Min {
		return false
	}
	if bounds.Max != nil && n > *bounds.Max {
		return false
	}
	return true
}

func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPhoneNumber accepts any formatting as long as at least ten digits remain.
func IsValidPhoneNumber(value string) bool {
	return len(nonDigitPattern.ReplaceAllString(value, "")) >= minPhoneDigits
}

// IsValidPostalCode checks US (12345 or 12345-6789) and CA (A1A 1A1) formats;
// other countries only need three characters.
func IsValidPostalCode(code, country string) bool {
	code = strings.TrimSpace(code)
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case "US":
		return usPostalPattern.MatchString(code)
	case "CA":
		return caPostalPattern.MatchString(code)
	}
	return len(code) >= 3
}

func isWholeNumber(value string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil
}
