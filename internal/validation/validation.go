package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fhamyla/LexiLearn/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	otpRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: field, Message: field + " must be at least 2 characters"}
	}
	return nil
}

// ValidateRole checks that a sign-up role is one a user may register as.
// Admin accounts are seeded, never signed up.
func ValidateRole(role string) error {
	switch role {
	case models.RoleGuardian, models.RoleTeacher:
		return nil
	default:
		return ValidationError{Field: "role", Message: "role must be guardian or teacher"}
	}
}

// ValidateChildAge checks a guardian's child age
func ValidateChildAge(age int) error {
	if age < 3 || age > 17 {
		return ValidationError{Field: "childAge", Message: "child age must be between 3 and 17"}
	}
	return nil
}

// ValidateOTPCode checks the shape of a one-time code
func ValidateOTPCode(code string) error {
	if code == "" {
		return ValidationError{Field: "otp", Message: "verification code is required"}
	}
	if !otpRegex.MatchString(code) {
		return ValidationError{Field: "otp", Message: "verification code must be 6 digits"}
	}
	return nil
}

// ValidateSeverity checks a dyslexia severity label; empty defaults upstream
func ValidateSeverity(severity string) error {
	switch severity {
	case "", "mild", "moderate", "severe":
		return nil
	default:
		return ValidationError{Field: "severity", Message: "severity must be mild, moderate or severe"}
	}
}
