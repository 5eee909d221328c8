package entities

import (
	"regexp"
	"strings"
)

const (
	envDatabaseName     = "DB_DATABASE"
	envDatabaseUsername = "DB_USERNAME"
	envDatabasePassword = "DB_PASSWORD"
)

// databaseCredentialsPattern matches the three credential lines in one pass.
var databaseCredentialsPattern = regexp.MustCompile(
	`(?m)^(` + envDatabaseName + `|` + envDatabaseUsername + `|` + envDatabasePassword + `)=[^\r\n]*`,
)

// PatchEnv sets key to value in a KEY=VALUE text blob.
// The first line starting with "KEY=" is replaced in place; every other line,
// including later re-declarations of the same key, is left untouched. When no
// line declares the key, "KEY=VALUE" is appended on a new line.
//
// Values are written verbatim: a value containing a newline corrupts the blob.
func PatchEnv(blob, key, value string) string {
	line := key + "=" + value

	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `=[^\r\n]*`)
	loc := pattern.FindStringIndex(blob)
	if loc == nil {
		return appendLine(blob, line)
	}

	return blob[:loc[0]] + line + blob[loc[1]:]
}

// PatchDatabaseCredentials writes DB_DATABASE, DB_USERNAME and DB_PASSWORD in
// a single substitution. The keys are disjoint, so the three writes do not
// depend on each other. Keys missing from the blob are appended.
func PatchDatabaseCredentials(blob string, database DatabaseSpec) string {
	values := map[string]string{
		envDatabaseName:     database.Name,
		envDatabaseUsername: database.Username,
		envDatabasePassword: database.Password,
	}

	seen := make(map[string]bool, len(values))
	patched := databaseCredentialsPattern.ReplaceAllStringFunc(blob, func(match string) string {
		key, _, _ := strings.Cut(match, "=")
		seen[key] = true
		return key + "=" + values[key]
	})

	for _, key := range []string{envDatabaseName, envDatabaseUsername, envDatabasePassword} {
		if !seen[key] {
			patched = PatchEnv(patched, key, values[key])
		}
	}

	return patched
}

func appendLine(blob, line string) string {
	if blob == "" {
		return line
	}
	if strings.HasSuffix(blob, "\n") {
		return blob + line
	}
	return blob + "\n" + line
}
