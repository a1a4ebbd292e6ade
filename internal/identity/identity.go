// Package identity canonicalizes the raw identifiers found in a message
// store (phone numbers and email addresses) and cleans contact display
// names so that stats for the same person can be grouped under one key.
package identity

import (
	"regexp"
	"strings"
)

// Unknown is the canonical form of an absent or unusable identifier,
// and the display name used when a contact has no name at all.
const Unknown = "Unknown"

var nonDigitRe = regexp.MustCompile(`\D`)

// Normalize canonicalizes a raw identifier.
//
// Emails (anything containing '@') lowercase. Phone numbers are stripped
// to digits; an 11-digit number with a leading 1 (US country code) drops
// the 1. Empty input, or input with no digits at all, normalizes to
// Unknown. Normalize is idempotent: applying it to its own output is a
// no-op.
func Normalize(raw string) string {
	if raw == "" {
		return Unknown
	}
	if strings.Contains(raw, "@") {
		return strings.ToLower(raw)
	}

	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return Unknown
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits[1:]
	}
	return digits
}

// Suffix10 returns the last 10 digits of a normalized phone number, or
// the empty string when the input is shorter than 10 digits. Contacts
// are registered under this suffix as well so that numbers recorded with
// or without a country code still match.
func Suffix10(normalized string) string {
	if len(normalized) < 10 {
		return ""
	}
	return normalized[len(normalized)-10:]
}

// CleanName removes every whitespace-delimited token equal to "none"
// (case-insensitive) from a display name. Address books sync'd through
// some CRMs fill missing name fields with the literal word "None". If
// nothing survives the cleaning, the result is Unknown.
func CleanName(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if strings.EqualFold(f, "none") {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return Unknown
	}
	return strings.Join(kept, " ")
}
