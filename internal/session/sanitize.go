package session

import (
	"regexp"
	"strings"
)

var (
	forbiddenChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	underscoreRuns  = regexp.MustCompile(`_+`)
	nonCompactChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// compactMaxLen caps compact-style names regardless of the caller's limit.
const compactMaxLen = 15

// Sanitize makes text safe for use in a file or directory name. Forbidden
// filesystem characters and control characters are stripped, whitespace runs
// collapse to a single underscore, and the result is truncated to maxLen.
// An input that sanitizes to nothing returns "item".
func Sanitize(text string, maxLen int) string {
	return sanitize(text, maxLen, false)
}

// SanitizeCompact is a stricter variant used for session directory labels:
// only alphanumerics, underscore and hyphen survive, and the length cap is
// at most 15.
func SanitizeCompact(text string, maxLen int) string {
	return sanitize(text, maxLen, true)
}

func sanitize(text string, maxLen int, compact bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	s := forbiddenChars.ReplaceAllString(text, "")
	s = whitespaceRuns.ReplaceAllString(strings.TrimSpace(s), "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")

	if compact {
		s = nonCompactChars.ReplaceAllString(s, "")
		if maxLen > compactMaxLen {
			maxLen = compactMaxLen
		}
	}

	if s == "" {
		return "item"
	}
	// Truncate on rune boundaries so a multibyte character is never split.
	if runes := []rune(s); maxLen > 0 && len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	return s
}
