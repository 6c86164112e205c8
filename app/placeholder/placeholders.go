package placeholder

import (
	"regexp"
)

// tokenRegex matches {{name}} tokens. Names may not contain braces.
var tokenRegex = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// ExactName reports whether input consists of exactly one token and returns its name.
func ExactName(input string) (string, bool) {
	loc := tokenRegex.FindStringSubmatchIndex(input)
	if loc == nil || loc[0] != 0 || loc[1] != len(input) {
		return "", false
	}
	return input[loc[2]:loc[3]], true
}

// Expand replaces every {{name}} occurrence in a single pass using lookup.
// Tokens lookup cannot resolve are left as they are. The returned bool reports
// whether at least one token was replaced.
func Expand(input string, lookup func(name string) (string, bool)) (string, bool) {
	replaced := false
	result := tokenRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-2]
		if val, ok := lookup(name); ok {
			replaced = true
			return val
		}
		return match
	})
	return result, replaced
}

// Names lists the token names found in input in order of appearance.
func Names(input string) []string {
	matches := tokenRegex.FindAllStringSubmatch(input, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Contains reports whether input holds at least one token.
func Contains(input string) bool {
	return tokenRegex.MatchString(input)
}
