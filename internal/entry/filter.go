package entry

import (
	"strings"
	"unicode/utf8"
)

const (
	DateLength       = 10
	MaxAmountDigits  = 12
	MaxContentLength = 32
)

// FilterDate keeps digits and hyphens and truncates to YYYY-MM-DD length.
func FilterDate(s string) string {
	return truncate(keep(s, func(r rune) bool {
		return isDigit(r) || r == '-'
	}), DateLength)
}

// FilterAmount keeps digits only, dropping separators, and truncates to
// MaxAmountDigits.
func FilterAmount(s string) string {
	return truncate(keep(s, isDigit), MaxAmountDigits)
}

// FilterContent truncates to MaxContentLength characters. Counting is by
// rune so Hangul text is never cut mid-character.
func FilterContent(s string) string {
	return truncate(s, MaxContentLength)
}

// FormatDigits inserts a comma every three digits from the right of a digit
// string, the way the amount input displays its value.
func FormatDigits(s string) string {
	if s == "" {
		return ""
	}

	intPart, rest := s, ""
	if i := strings.IndexFunc(s, func(r rune) bool { return !isDigit(r) }); i >= 0 {
		intPart, rest = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return s
	}

	var sb strings.Builder

	head := len(intPart) % 3
	if head > 0 {
		sb.WriteString(intPart[:head])
	}

	for i := head; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(intPart[i : i+3])
	}

	sb.WriteString(rest)

	return sb.String()
}

func keep(s string, fn func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if fn(r) {
			return r
		}

		return -1
	}, s)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)

	return string(runes[:n])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
