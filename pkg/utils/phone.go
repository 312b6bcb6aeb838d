package utils

import (
	"regexp"
	"strings"
)

var (
	e164Regex     = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// NormalizePhone converts user-supplied phone input to canonical form.
// Rules: a leading "+" passes through untouched; exactly 10 digits is
// assumed US and gets "+1"; 11 digits starting with 1 gets "+"; anything
// else comes back as the cleaned original. Never fails — inbound webhook
// sender fields can hold garbage and the caller must still proceed.
// Idempotent: normalizing a normalized number is a no-op.
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	if strings.HasPrefix(p, "+") {
		return p
	}
	digits := nonDigitRegex.ReplaceAllString(p, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return p
	}
}

// ValidE164 reports whether phone is in strict international format
// (+, country code, 8-15 digits total). Enforced at the signup boundary
// only; the scheduling core stays permissive.
func ValidE164(phone string) bool {
	return e164Regex.MatchString(phone)
}

// MaskPhone hides all but the last four digits for redacted admin views.
func MaskPhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	if len(digits) <= 4 {
		return "****"
	}
	return "****" + digits[len(digits)-4:]
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
