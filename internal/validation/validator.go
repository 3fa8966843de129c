// Package validation holds the stateless input checks that run before any
// submitted field reaches domain logic. Every rule is a pure predicate over a
// string and returns a ValidationResult; rules share no state and may be
// called in any order.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ValidationResult is the outcome of a single rule: a validity flag plus the
// human-readable reasons it failed, in the order they were detected.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func ok() ValidationResult {
	return ValidationResult{Valid: true}
}

func fail(messages ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: messages}
}

var (
	studentNumberPattern = regexp.MustCompile(`^[0-9]{8,12}$`)
	emailPattern         = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@([A-Za-z0-9-]+\.)+[A-Za-z]{2,}$`)
)

// ValidateStudentNumber accepts exactly 8 to 12 ASCII digits.
func ValidateStudentNumber(number string) ValidationResult {
	if strings.TrimSpace(number) == "" {
		return fail("student number is required")
	}
	if !studentNumberPattern.MatchString(number) {
		return fail("student number must be 8 to 12 digits")
	}

	return ok()
}

// ValidateEmail checks the local@domain.tld shape. It is a structural check,
// not an RFC 5322 parser.
func ValidateEmail(email string) ValidationResult {
	if strings.TrimSpace(email) == "" {
		return fail("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fail("email format is invalid")
	}

	return ok()
}

// ValidatePasswordStrength collects every failing condition rather than
// stopping at the first, so the caller can report them all at once.
func ValidatePasswordStrength(password string) ValidationResult {
	if password == "" {
		return fail("password is required")
	}

	var errs []string
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}

	if len(errs) > 0 {
		return fail(errs...)
	}

	return ok()
}

// ValidateLength rejects values longer than max. The error message names the
// offending field.
func ValidateLength(field, value string, max int) ValidationResult {
	if len(value) > max {
		return fail(fmt.Sprintf("%s must be at most %d characters", field, max))
	}

	return ok()
}

// Tokens that have no business appearing in user input regardless of context.
var sqlDangerTokens = []string{
	"--", "/*", "*/", "@@",
	"xp_", "sp_", "0x",
	"waitfor delay",
	"information_schema", "sysobjects", "syscolumns",
}

// SQL keywords are only suspicious when immediately followed by a space,
// which keeps ordinary words like "created" or "selection" out of the net.
var sqlKeywords = []string{
	"select", "insert", "update", "delete", "drop", "alter",
	"create", "exec", "execute", "union", "declare", "cast",
}

// ContainsSQLInjection runs a case-insensitive substring scan for known SQL
// fragments. This is defense-in-depth input hygiene only; the persistence
// layer always uses parameterized queries.
func ContainsSQLInjection(input string) bool {
	lowered := strings.ToLower(input)

	for _, token := range sqlDangerTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}

	for _, keyword := range sqlKeywords {
		if strings.Contains(lowered, keyword+" ") {
			return true
		}
	}

	return false
}

// ValidateNoSQLInjection wraps ContainsSQLInjection as a rule. The message
// deliberately names only the field, never the input itself.
func ValidateNoSQLInjection(field, input string) ValidationResult {
	if ContainsSQLInjection(input) {
		return fail(fmt.Sprintf("%s contains disallowed characters", field))
	}

	return ok()
}
