package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"brinleneuro/internal/catalog"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCredentials checks that both login fields were filled in
func ValidateCredentials(username, passphrase string) error {
	if strings.TrimSpace(username) == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if passphrase == "" {
		return ValidationError{Field: "passphrase", Message: "passphrase is required"}
	}
	return nil
}

// ParseVolume parses a mixer volume between 0 and 1. Slider values from 0
// to 100 are accepted too.
func ParseVolume(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ValidationError{Field: "volume", Message: "volume must be a number"}
	}
	if v > 1 && v <= 100 {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, ValidationError{Field: "volume", Message: "volume must be between 0 and 1"}
	}
	return v, nil
}

// ParseTimerMinutes parses one of the mixer's timer durations
func ParseTimerMinutes(s string) (int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ValidationError{Field: "minutes", Message: "minutes must be a whole number"}
	}
	if !slices.Contains(catalog.TimerMinutes, m) {
		return 0, ValidationError{Field: "minutes", Message: "unsupported timer duration"}
	}
	return m, nil
}

// ParseBool parses a form checkbox or toggle value
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true, nil
	case "", "0", "false", "off", "no":
		return false, nil
	}
	return false, ValidationError{Field: "value", Message: "expected on or off"}
}
