package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/studyhall/studychat/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateCredentials checks credential input before it ever reaches
// the identity service. Failures wrap ErrValidation and carry a
// user-facing message.
func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: please enter both email and password", domain.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: please enter a valid email address", domain.ErrValidation)
	}
	return nil
}

// validateSignUp additionally enforces the display name and password
// strength rules.
func validateSignUp(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: please fill in all fields", domain.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: please enter a valid email address", domain.ErrValidation)
	}
	if problems := passwordProblems(password); len(problems) > 0 {
		return fmt.Errorf("%w: password requirements: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func passwordProblems(password string) []string {
	var problems []string

	if len(password) < 8 {
		problems = append(problems, "at least 8 characters")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		problems = append(problems, "at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		problems = append(problems, "at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		problems = append(problems, "at least one number")
	}
	if !strings.ContainsAny(password, `!@#$%^&*()_+-=[]{};':"\|,.<>/?`) {
		problems = append(problems, "at least one special character")
	}

	return problems
}
