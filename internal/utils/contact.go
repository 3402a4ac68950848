package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^[0-9\s+]+$`)

// ValidatePhone проверяет, что телефон состоит только из цифр, пробелов и '+'.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizeEmail приводит email к виду, в котором он сравнивается и хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail принимает только голый адрес вида user@host, без имени и угловых скобок.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && addr.Name == ""
}
