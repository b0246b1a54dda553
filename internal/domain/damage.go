package domain

import (
	"strings"
	"unicode"
)

// DamageMultiplier maps a damage exponent code to the factor that converts
// the paired value to absolute dollars. Codes are matched case-insensitively;
// the dataset is known to contain stray codes ("+", "?", digits, blanks) and
// those deliberately fall through to 1 rather than erroring, matching the
// source data's established interpretation.
func DamageMultiplier(code string) float64 {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "K":
		return 1e3
	case "M":
		return 1e6
	case "B":
		return 1e9
	default:
		return 1
	}
}

// KnownExponent reports whether code is one of the recognized magnitude
// codes. Blank counts as known (an unexponentiated value, not a data defect).
func KnownExponent(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "K", "M", "B":
		return true
	default:
		return false
	}
}

// NormalizeDamage converts a raw damage value and its exponent code to
// absolute dollars.
func NormalizeDamage(value float64, code string) float64 {
	return value * DamageMultiplier(code)
}

// TitleCaseEventType normalizes a free-text event type label for display:
// first letter of each word upper-cased, the rest lowered, runs of
// whitespace collapsed to single spaces. Presentation only — grouping always
// happens on the raw label before this is applied.
func TitleCaseEventType(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
