package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

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

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateTheme checks a quiz or matching game theme. Callers must reject
// blank themes before any generation request is issued.
func ValidateTheme(theme string) error {
	if strings.TrimSpace(theme) == "" {
		return ValidationError{Field: "theme", Message: "theme is required"}
	}
	if len(theme) > 200 {
		return ValidationError{Field: "theme", Message: "theme must be at most 200 characters"}
	}
	return nil
}

// ValidateSourceText checks text submitted for translation
func ValidateSourceText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "text", Message: "text is required"}
	}
	if len(text) > 4000 {
		return ValidationError{Field: "text", Message: "text must be at most 4000 characters"}
	}
	return nil
}
