package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the optional settings file. Every field is a default that CLI
// flags and FORGE_* environment variables take precedence over.
type Settings struct {
	Token         string   `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Server        string   `yaml:"server"`
	Domain        string   `yaml:"domain"`
	Provider      string   `yaml:"provider"`
	PHPVersion    string   `yaml:"php_version"`
	APIURL        string   `yaml:"api_url"`
	Timeout       int      `yaml:"timeout"` // seconds
	SetupCommands []string `yaml:"setup_commands"`
	Commands      []string `yaml:"commands"`
	EditEnv       []string `yaml:"edit_env"`
	NginxTemplate string   `yaml:"nginx_template"`
}

// placeholderPattern captures the variable name of a ${NAME} reference.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)}`)

//nolint:gochecknoglobals // fixed lookup order
var settingsFileNames = []string{
	".forgepreview.yaml",
	".forgepreview.yml",
	"forgepreview.yaml",
	"forgepreview.yml",
}

// NewSettings reads and parses a settings file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	settings := &Settings{}
	if err = yaml.Unmarshal(raw, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %q: %w", path, err)
	}
	settings.Token = resolveToken(settings.Token)

	if err = validateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// RequestTimeout returns the configured request timeout, or DefaultTimeout.
func (s *Settings) RequestTimeout() time.Duration {
	if s == nil || s.Timeout == 0 {
		return DefaultTimeout
	}
	return time.Duration(s.Timeout) * time.Second
}

// FindConfigFile returns the first settings file found in the working
// directory, ./.config, ./configs, the home directory or ~/.config.
func FindConfigFile() (string, error) {
	dirs := []string{".", ".config", "configs"}
	if home, homeErr := os.UserHomeDir(); homeErr == nil && home != "" {
		dirs = append(dirs, home, filepath.Join(home, ".config"))
	}

	for _, dir := range dirs {
		for _, name := range settingsFileNames {
			candidate := filepath.Join(dir, name)
			if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	return "", errors.New("no settings file in the default locations")
}

// resolveToken substitutes ${NAME} references with environment values. When
// the outcome names an existing file, the token is that file's trimmed content.
func resolveToken(token string) string {
	if token == "" {
		return ""
	}

	expanded := placeholderPattern.ReplaceAllStringFunc(token, func(reference string) string {
		name := placeholderPattern.FindStringSubmatch(reference)[1]
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			logger.Warnf("Token references %q, which is not set", name)
		}
		return value
	})

	info, statErr := os.Stat(expanded)
	if statErr != nil || info.IsDir() {
		return expanded
	}

	content, readErr := os.ReadFile(expanded)
	if readErr != nil {
		logger.Warnf("Cannot read token file %q: %v", expanded, readErr)
		return expanded
	}
	logger.Debugf("Loaded token from %q", expanded)
	return strings.TrimSpace(string(content))
}

func validateSettings(settings *Settings) error {
	if settings.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfiguration)
	}
	for i, pair := range settings.EditEnv {
		if !strings.Contains(pair, ":") {
			return fmt.Errorf("%w: edit_env[%d] must be formatted as KEY:VALUE", ErrInvalidConfiguration, i)
		}
	}
	return nil
}
