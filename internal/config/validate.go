package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.LogLevel != "" && !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.LogLevel),
		})
	}

	if cfg.LogMaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "log_max_size_mb",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.LogMaxSizeMB),
		})
	}

	if cfg.LogMaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "log_max_backups",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.LogMaxBackups),
		})
	}

	// An empty suffix would write the output over the input
	if cfg.Fix.OutputSuffix == "" {
		errs = append(errs, ValidationError{
			Field:   "fix.output_suffix",
			Message: "must not be empty",
		})
	} else if strings.ContainsAny(cfg.Fix.OutputSuffix, `/\`) {
		errs = append(errs, ValidationError{
			Field:   "fix.output_suffix",
			Message: "must not contain path separators",
		})
	}

	if cfg.Fix.CIDDomain == "" {
		errs = append(errs, ValidationError{
			Field:   "fix.cid_domain",
			Message: "must not be empty",
		})
	} else if !isIdentifierText(cfg.Fix.CIDDomain) {
		errs = append(errs, ValidationError{
			Field:   "fix.cid_domain",
			Message: fmt.Sprintf("may only contain letters, digits, '.', '_' and '-'; got %q", cfg.Fix.CIDDomain),
		})
	}

	if cfg.Fix.HyphenPrefix == "" || strings.HasPrefix(cfg.Fix.HyphenPrefix, "-") || !isIdentifierText(cfg.Fix.HyphenPrefix) {
		errs = append(errs, ValidationError{
			Field:   "fix.hyphen_prefix",
			Message: fmt.Sprintf("must be non-empty identifier text not starting with '-'; got %q", cfg.Fix.HyphenPrefix),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError reports whether err is a ValidationError or ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

func isIdentifierText(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
