package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const passwordSymbols = `!@#$%^&*()_+-=[]{}|;':",./<>?`

// ValidatePassword checks the signup password policy and returns one reason
// per violated rule, or nil when the password is acceptable.
func ValidatePassword(password string) []string {
	var reasons []string
	// length rules count characters, not bytes
	if utf8.RuneCountInString(password) < 8 {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSpace, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsSpace(c):
			hasSpace = true
		}
		if strings.ContainsRune(passwordSymbols, c) {
			hasSymbol = true
		}
	}
	if !hasUpper {
		reasons = append(reasons, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "Password must contain at least one digit")
	}
	if hasSpace {
		reasons = append(reasons, "Password must not contain any space")
	}
	if utf8.RuneCountInString(password) > 16 {
		reasons = append(reasons, "Password must not be longer than 16 characters")
	}
	if !hasSymbol {
		reasons = append(reasons, "Password must contain at least one symbol")
	}
	return reasons
}
