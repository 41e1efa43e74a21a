package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "lock.stale_ttl_minutes")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.App.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "app.name",
			Value:   c.App.Name,
			Message: "must not be empty",
		})
	}

	errors = append(errors, c.validateLock()...)
	errors = append(errors, c.validateScan()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateLock() []ValidationError {
	var errors []ValidationError

	if c.Lock.Suffix == "" || !strings.HasPrefix(c.Lock.Suffix, ".") {
		errors = append(errors, ValidationError{
			Field:   "lock.suffix",
			Value:   c.Lock.Suffix,
			Message: "must start with a dot",
		})
	}
	if strings.ContainsAny(c.Lock.Suffix, "/\\") {
		errors = append(errors, ValidationError{
			Field:   "lock.suffix",
			Value:   c.Lock.Suffix,
			Message: "must not contain path separators",
		})
	}
	if c.Lock.StaleTTLMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "lock.stale_ttl_minutes",
			Value:   c.Lock.StaleTTLMinutes,
			Message: "must be zero or positive",
		})
	}

	return errors
}

func (c *Config) validateScan() []ValidationError {
	var errors []ValidationError

	if c.Scan.Pattern != "" {
		if _, err := glob.Compile(c.Scan.Pattern, '/'); err != nil {
			errors = append(errors, ValidationError{
				Field:   "scan.pattern",
				Value:   c.Scan.Pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	level := strings.ToLower(c.Logging.Level)
	if !slices.Contains(ValidLogLevels(), level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
