// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"atelier/internal/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	handlePattern   = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateUsername checks the display name format.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters of letters, digits or underscore")
	}
	return nil
}

// ValidateHandle checks the unique handle format. Handles are lowercase
// because posts, bios and follows link to them literally.
func ValidateHandle(handle string) error {
	if !handlePattern.MatchString(handle) {
		return fmt.Errorf("handle must be 3-30 lowercase characters of letters, digits or underscore")
	}
	return nil
}

// ValidateEmail checks the email shape.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidatePostContent checks that content is present and within bounds.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if len(content) > models.MaxPostContentLen {
		return fmt.Errorf("content must not exceed %d characters", models.MaxPostContentLen)
	}
	return nil
}

// ValidateBio checks bio field length bounds.
func ValidateBio(body, website, location string) error {
	if len(body) > models.MaxBioBodyLen {
		return fmt.Errorf("bio must not exceed %d characters", models.MaxBioBodyLen)
	}
	if len(website) > models.MaxBioWebsiteLen {
		return fmt.Errorf("website must not exceed %d characters", models.MaxBioWebsiteLen)
	}
	if len(location) > models.MaxBioLocationLen {
		return fmt.Errorf("location must not exceed %d characters", models.MaxBioLocationLen)
	}
	return nil
}
