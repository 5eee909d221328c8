//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".forgepreview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should parse every field", func(t *testing.T) {
		t.Parallel()
		// given
		path := writeSettings(t, `
token: inline-token
server: "42"
domain: "{branch}.preview.example.com"
provider: gitlab
php_version: php82
api_url: https://forge.test/api/v1
timeout: 30
setup_commands:
  - php artisan key:generate
commands:
  - php artisan migrate --force
edit_env:
  - "APP_URL:https://{domain}"
nginx_template: "5"
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "inline-token", settings.Token)
		assert.Equal(t, "42", settings.Server)
		assert.Equal(t, "{branch}.preview.example.com", settings.Domain)
		assert.Equal(t, "gitlab", settings.Provider)
		assert.Equal(t, "php82", settings.PHPVersion)
		assert.Equal(t, "https://forge.test/api/v1", settings.APIURL)
		assert.Equal(t, 30*time.Second, settings.RequestTimeout())
		assert.Equal(t, []string{"php artisan key:generate"}, settings.SetupCommands)
		assert.Equal(t, []string{"php artisan migrate --force"}, settings.Commands)
		assert.Equal(t, []string{"APP_URL:https://{domain}"}, settings.EditEnv)
		assert.Equal(t, "5", settings.NginxTemplate)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()
		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
	})

	t.Run("should fail for malformed yaml", func(t *testing.T) {
		t.Parallel()
		// given
		path := writeSettings(t, "commands: [unterminated")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})

	t.Run("should reject a negative timeout", func(t *testing.T) {
		t.Parallel()
		// given
		path := writeSettings(t, "timeout: -1\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidConfiguration)
	})

	t.Run("should reject a malformed edit_env entry", func(t *testing.T) {
		t.Parallel()
		// given
		path := writeSettings(t, "edit_env:\n  - APP_ENV=staging\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidConfiguration)
	})
}

func TestSettingsRequestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("should default when unset", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, entities.DefaultTimeout, (&entities.Settings{}).RequestTimeout())
	})

	t.Run("should default on a nil receiver", func(t *testing.T) {
		t.Parallel()
		var settings *entities.Settings
		assert.Equal(t, entities.DefaultTimeout, settings.RequestTimeout())
	})
}

//nolint:paralleltest // uses t.Setenv
func TestResolveToken(t *testing.T) {
	t.Run("should expand environment variable references", func(t *testing.T) {
		// given
		t.Setenv("FORGEPREVIEW_TEST_TOKEN", "from-env")

		// when
		result := entities.ResolveToken("${FORGEPREVIEW_TEST_TOKEN}")

		// then
		assert.Equal(t, "from-env", result)
	})

	t.Run("should read the token from a file path", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  file-token\n"), 0o600))

		// when
		result := entities.ResolveToken(path)

		// then
		assert.Equal(t, "file-token", result)
	})

	t.Run("should return inline tokens unchanged", func(t *testing.T) {
		// when
		result := entities.ResolveToken("inline-token")

		// then
		assert.Equal(t, "inline-token", result)
	})

	t.Run("should return empty for an empty value", func(t *testing.T) {
		assert.Empty(t, entities.ResolveToken(""))
	})
}
