package parser

import "strings"

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// firstContained returns the first key, in configured order, found anywhere
// in the line.
func firstContained(line string, keys []string) (string, bool) {
	for _, key := range keys {
		if strings.Contains(line, key) {
			return key, true
		}
	}
	return "", false
}

// firstPrefix returns the first key, in configured order, the line starts with.
func firstPrefix(line string, keys []string) (string, bool) {
	for _, key := range keys {
		if strings.HasPrefix(line, key) {
			return key, true
		}
	}
	return "", false
}

// firstToken returns the first whitespace-delimited token of s, or "".
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
