package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

var timeShorthandRegex = regexp.MustCompile(`^(\d+)(m|h|d|w)$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidContentLength checks the content against the configured maximum,
// counted in characters rather than bytes.
func (v *Validator) IsValidContentLength(content string) bool {
	return utf8.RuneCountInString(content) <= v.ContentMaxLength()
}

// IsValidTimestamp reports whether s parses as an accepted timestamp form.
func (v *Validator) IsValidTimestamp(s string) bool {
	_, err := domain.ParseTimestamp(s)
	return err == nil
}

// ContentMaxLength returns the configured maximum content length or the
// default.
func (v *Validator) ContentMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ContentMaxLength
	}
	return 500
}

// ParseTimeShorthand parses relative offsets like "30m", "2h", "1d" or "1w".
func ParseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := timeShorthandRegex.FindStringSubmatch(strings.TrimSpace(shorthand))
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	switch matches[2] {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "w":
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid time unit: %s", matches[2])
	}
}
