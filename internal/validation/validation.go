package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrWeakPassword = errors.New("password must contain at least: 1 upper case letter, 1 lower case letter, 1 special character, 1 digit and have a minimum 8 characters")
	ErrInvalidEmail = errors.New("invalid email")
)

const passwordSpecialChars = "#?!@$%^&*-"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// CheckPassword enforces the account password policy. RE2 has no lookahead,
// so the classes are scanned instead of matched with a single pattern.
func CheckPassword(candidate string) error {
	var upper, lower, digit, special bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			special = true
		}
	}
	if len([]rune(candidate)) < 8 || !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// CheckEmail validates the address grammar: local part, a domain label and
// optional sub-domains, each label capped at 63 characters.
func CheckEmail(candidate string) error {
	if !emailPattern.MatchString(candidate) {
		return ErrInvalidEmail
	}
	return nil
}
