package util

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail checks basic email shape
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword enforces the minimum password length
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// NormalizeUsername lowercases and trims a username for comparisons
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
