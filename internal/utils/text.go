package utils

import (
	"regexp"
	"strings"
)

// ContainsAny reports whether s contains at least one of the given substrings
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CutPrefixFold removes prefix from s, ignoring ASCII case.
// The returned remainder keeps the original casing of s.
func CutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return s, false
	}
	if !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// FirstSubmatch tries each pattern in order and returns the first capture
// group of the first pattern whose trimmed capture is non-empty
func FirstSubmatch(patterns []*regexp.Regexp, s string) (string, bool) {
	for _, re := range patterns {
		matches := re.FindStringSubmatch(s)
		if len(matches) < 2 {
			continue
		}
		if arg := strings.TrimSpace(matches[1]); arg != "" {
			return arg, true
		}
	}
	return "", false
}

// MatchesAny reports whether any pattern matches s
func MatchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// StripPattern removes every match of re from s and trims the result
func StripPattern(re *regexp.Regexp, s string) string {
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}

const defaultImageFilename = "jarvis_generated_image"

var filenameUnsafe = regexp.MustCompile(`(?i)[^a-z0-9_]+`)

// ImageFilename derives a download filename for a generated image from its prompt
func ImageFilename(prompt string) string {
	name := filenameUnsafe.ReplaceAllString(prompt, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = defaultImageFilename
	}
	return name + ".png"
}
