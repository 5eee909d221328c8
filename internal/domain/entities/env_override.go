package entities

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// EnvOverride is a single key/value write into the site env file.
type EnvOverride struct {
	Key   string
	Value string
}

// ParseEnvOverrides builds the ordered override list: lines of the staging
// blob (KEY=VALUE, split on the first "=") come first, followed by the CLI
// pairs (KEY:VALUE, split on the first ":"). Later entries win when they
// rewrite the same key.
//
// Blank lines and "#" comments in the staging blob are ignored; staging lines
// without "=" are skipped with a warning. A malformed CLI pair is an
// ErrInvalidConfiguration.
func ParseEnvOverrides(staging string, pairs []string) ([]EnvOverride, error) {
	var overrides []EnvOverride

	for _, line := range strings.Split(strings.TrimSpace(staging), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) == "" {
			logger.Warnf("Skipping malformed staging override %q", line)
			continue
		}
		overrides = append(overrides, EnvOverride{Key: strings.TrimSpace(key), Value: value})
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf(
				"%w: --edit-env %q must be formatted as KEY:VALUE", ErrInvalidConfiguration, pair,
			)
		}
		overrides = append(overrides, EnvOverride{Key: strings.TrimSpace(key), Value: value})
	}

	return overrides, nil
}
