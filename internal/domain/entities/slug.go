package entities

import (
	"strings"
	"unicode"
)

const maxDatabaseNameLength = 64

// Slugify lower-cases value and collapses every run of characters that are not
// ASCII letters or digits into a single separator. Leading and trailing
// separators are trimmed.
//
//	Slugify("Feature/My Fix!!", "_") // "feature_my_fix"
//	Slugify("PR-12", "-")            // "pr-12"
func Slugify(value, separator string) string {
	var builder strings.Builder
	pending := false

	for _, r := range value {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && builder.Len() > 0 {
				builder.WriteString(separator)
			}
			pending = false
			builder.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}

	return builder.String()
}

// DatabaseNameFromBranch derives a database name from a branch name: the
// underscore slug of the branch, capped to 64 characters.
func DatabaseNameFromBranch(branch string) string {
	name := Slugify(branch, "_")
	if len(name) > maxDatabaseNameLength {
		name = strings.TrimRight(name[:maxDatabaseNameLength], "_")
	}
	return name
}

// IsolationUsername derives the isolated site user from a branch name.
func IsolationUsername(branch string) string {
	return Slugify(branch, "-")
}
