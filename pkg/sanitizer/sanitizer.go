// Package sanitizer normalizes free-text user input before validation
// and persistence.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses internal
// whitespace runs into a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeCity canonicalizes a city name: collapsed whitespace, each word
// title-cased. Bookings and routes must agree on casing for availability
// lookups to match.
func NormalizeCity(city string) string {
	return titleWords(TrimAndNormalize(city))
}

func titleWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizePhone strips everything except digits. Validation of the
// resulting length is the validator's job, not ours.
func NormalizePhone(phone string) string {
	var result strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeSeatID upper-cases and trims a seat identifier like "u-a1".
func NormalizeSeatID(seatID string) string {
	return strings.ToUpper(strings.TrimSpace(seatID))
}
